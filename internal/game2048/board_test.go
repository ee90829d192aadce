package game2048

import (
	"errors"
	"testing"
)

func TestTileSetTileRoundTrip(t *testing.T) {
	var b Board
	for pos := 0; pos < TileCount; pos++ {
		b = b.SetTile(pos, uint8(pos%16))
	}

	for pos := 0; pos < TileCount; pos++ {
		if got := b.Tile(pos); got != uint8(pos%16) {
			t.Errorf("Tile(%d) = %d, want %d", pos, got, pos%16)
		}
	}
}

func TestSetTileOverwrites(t *testing.T) {
	var b Board
	b = b.SetTile(5, 7)
	b = b.SetTile(5, 3)

	if got := b.Tile(5); got != 3 {
		t.Errorf("Tile(5) = %d, want 3", got)
	}

	// Neighbors must be untouched
	if b.Tile(4) != 0 || b.Tile(6) != 0 {
		t.Error("SetTile leaked into neighboring tile slots")
	}
}

func TestExponentsRoundTrip(t *testing.T) {
	exps := [TileCount]uint8{1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 6, 0, 7, 0, 8, 15}
	b := FromExponents(exps)

	if got := b.Exponents(); got != exps {
		t.Errorf("Exponents() = %v, want %v", got, exps)
	}

	if repacked := FromExponents(b.Exponents()); repacked != b {
		t.Errorf("repack mismatch: %s vs %s", repacked.Hex(), b.Hex())
	}
}

func TestHexRoundTrip(t *testing.T) {
	b := FromExponents([TileCount]uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 0})

	parsed, err := ParseHex(b.Hex())
	if err != nil {
		t.Fatalf("ParseHex(%q) failed: %v", b.Hex(), err)
	}
	if parsed != b {
		t.Errorf("ParseHex(Hex()) = %s, want %s", parsed.Hex(), b.Hex())
	}
}

func TestParseHexRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "too short", in: "0102"},
		{name: "too long", in: "000000000000000000000000000000000000"},
		{name: "non-hex digits", in: "zz000000000000000000000000000000"},
		{name: "empty", in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHex(tt.in); !errors.Is(err, ErrBadBoardEncoding) {
				t.Errorf("ParseHex(%q) error = %v, want ErrBadBoardEncoding", tt.in, err)
			}
		})
	}
}

func TestDirty(t *testing.T) {
	clean := FromExponents([TileCount]uint8{15, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 15})
	if clean.Dirty() {
		t.Error("board with exponents <= 15 reported dirty")
	}

	dirty := Board{}.SetTile(3, 0x10)
	if !dirty.Dirty() {
		t.Error("board with a reserved bit set reported clean")
	}

	dirtyHigh := Board{}.SetTile(12, 0xFF)
	if !dirtyHigh.Dirty() {
		t.Error("board with a reserved bit in the high word reported clean")
	}
}

func TestEmptyPositions(t *testing.T) {
	var b Board
	b = b.SetTile(0, 1)
	b = b.SetTile(7, 2)
	b = b.SetTile(15, 3)

	empty := b.EmptyPositions()
	if len(empty) != 13 {
		t.Fatalf("EmptyPositions() count = %d, want 13", len(empty))
	}

	// Ascending position order
	for i := 1; i < len(empty); i++ {
		if empty[i] <= empty[i-1] {
			t.Fatalf("EmptyPositions() not ascending: %v", empty)
		}
	}

	for _, pos := range empty {
		if pos == 0 || pos == 7 || pos == 15 {
			t.Errorf("EmptyPositions() contains occupied position %d", pos)
		}
	}
}

func TestMaxTile(t *testing.T) {
	var b Board
	if b.MaxTile() != 0 {
		t.Errorf("empty board MaxTile() = %d, want 0", b.MaxTile())
	}

	b = b.SetTile(2, 5)
	b = b.SetTile(9, 11)
	b = b.SetTile(14, 3)

	if got := b.MaxTile(); got != 11 {
		t.Errorf("MaxTile() = %d, want 11", got)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		exps [TileCount]uint8
		want uint64
	}{
		{name: "empty board", want: 0},
		{name: "only twos", exps: [TileCount]uint8{1, 1, 1, 1}, want: 0},
		{name: "single 4", exps: [TileCount]uint8{2}, want: 4},
		{name: "single 8", exps: [TileCount]uint8{3}, want: 16},
		{name: "2048 tile", exps: [TileCount]uint8{11}, want: 10 * 2048},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromExponents(tt.exps).Score(); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}
