// Package game2048 implements the deterministic 2048 rules core: the packed
// board codec, the four directional move transformations, the seeded tile
// spawn function, and the transformation validator. Every function is a pure
// function of its arguments so that independent parties can recompute and
// cross-check each other's results.
package game2048

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// BoardSize is the board dimension.
	BoardSize = 4

	// TileCount is the number of tile slots on the board.
	TileCount = BoardSize * BoardSize

	// MaxExponent is the largest representable tile exponent (2^15 = 32768).
	MaxExponent = 15
)

// Board packs all 16 tile slots into a single 128-bit word. Tile i
// (row-major, i = row*4 + col) occupies the byte at bit offset i*8: tiles
// 0..7 live in the low word, tiles 8..15 in the high word. A byte holds the
// tile's exponent: 0 means empty, n means value 2^n. Only exponents 0..15
// are legal, so the high nibble of every tile byte is reserved and must
// stay zero.
//
// Board is a value type; all mutating operations return a new Board.
// Two boards are equal iff their words are equal, which makes == the
// tile-bit comparison the validator relies on.
type Board struct {
	hi, lo uint64
}

// reservedMask covers the high nibble of every tile byte.
const reservedMask = 0xF0F0F0F0F0F0F0F0

// Tile returns the exponent stored at pos, pos in [0, 16).
func (b Board) Tile(pos int) uint8 {
	if pos < 8 {
		return uint8(b.lo >> (uint(pos) * 8))
	}
	return uint8(b.hi >> (uint(pos-8) * 8))
}

// SetTile returns a copy of b with the tile at pos replaced by value.
func (b Board) SetTile(pos int, value uint8) Board {
	if pos < 8 {
		shift := uint(pos) * 8
		b.lo = b.lo&^(0xFF<<shift) | uint64(value)<<shift
		return b
	}
	shift := uint(pos-8) * 8
	b.hi = b.hi&^(0xFF<<shift) | uint64(value)<<shift
	return b
}

// Exponents unpacks the board into its 16 tile exponents in position order.
func (b Board) Exponents() [TileCount]uint8 {
	var exps [TileCount]uint8
	for i := range exps {
		exps[i] = b.Tile(i)
	}
	return exps
}

// FromExponents packs 16 tile exponents into a board. Repacking the result
// of Exponents yields the identical word for any clean board.
func FromExponents(exps [TileCount]uint8) Board {
	var b Board
	for i, v := range exps {
		b = b.SetTile(i, v)
	}
	return b
}

// Dirty reports whether any reserved bit is set, i.e. whether any tile byte
// holds a value outside the legal exponent range 0..15.
func (b Board) Dirty() bool {
	return (b.hi|b.lo)&reservedMask != 0
}

// EmptyPositions returns the empty tile positions in ascending order.
func (b Board) EmptyPositions() []int {
	var empty []int
	for i := 0; i < TileCount; i++ {
		if b.Tile(i) == 0 {
			empty = append(empty, i)
		}
	}
	return empty
}

// MaxTile returns the largest tile exponent on the board.
func (b Board) MaxTile() uint8 {
	var maxExp uint8
	for i := 0; i < TileCount; i++ {
		if v := b.Tile(i); v > maxExp {
			maxExp = v
		}
	}
	return maxExp
}

// Bytes returns the 16 tile bytes in position order, the canonical form fed
// into spawn digests.
func (b Board) Bytes() [TileCount]byte {
	return b.Exponents()
}

// Hex renders the board word as 32 big-endian hex digits, the wire and
// storage encoding.
func (b Board) Hex() string {
	return fmt.Sprintf("%016x%016x", b.hi, b.lo)
}

// ParseHex decodes a board from its 32-digit hex encoding.
func ParseHex(s string) (Board, error) {
	if len(s) != 32 {
		return Board{}, fmt.Errorf("%w: want 32 hex digits, got %d", ErrBadBoardEncoding, len(s))
	}
	hi, err := strconv.ParseUint(s[:16], 16, 64)
	if err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrBadBoardEncoding, err)
	}
	lo, err := strconv.ParseUint(s[16:], 16, 64)
	if err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrBadBoardEncoding, err)
	}
	return Board{hi: hi, lo: lo}, nil
}

// Score returns the conventional 2048 score implied by the tiles: a tile of
// exponent v was built from v-1 merges each worth 2^v points. Display only;
// no rule depends on it.
func (b Board) Score() uint64 {
	var score uint64
	for i := 0; i < TileCount; i++ {
		if v := b.Tile(i); v >= 2 {
			score += uint64(v-1) << v
		}
	}
	return score
}

// String renders the board as a 4x4 grid of tile values for logs and CLI
// output.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			v := b.Tile(row*BoardSize + col)
			if v == 0 {
				sb.WriteString("     .")
			} else {
				fmt.Fprintf(&sb, "%6d", uint64(1)<<v)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
