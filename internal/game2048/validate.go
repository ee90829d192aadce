package game2048

import "fmt"

// ValidateStartBoard checks the start-board invariant: no reserved bits
// set, exactly two nonzero tiles, each of value 2 or 4.
func ValidateStartBoard(b Board) error {
	if b.Dirty() {
		return ErrDirtyBits
	}

	nonzero := 0
	for i := 0; i < TileCount; i++ {
		v := b.Tile(i)
		if v == 0 {
			continue
		}
		nonzero++
		if v >= 3 {
			return fmt.Errorf("%w: tile %d has exponent %d", ErrInvalidStartBoard, i, v)
		}
	}
	if nonzero != 2 {
		return fmt.Errorf("%w: %d nonzero tiles, want 2", ErrInvalidStartBoard, nonzero)
	}
	return nil
}

// ValidateTransformation checks that claimed is the unique legal result of
// applying move to prev: it recomputes the slide and the mandated spawn
// from seed and requires an exact match. This is the strict mode; it pins
// both the spawned cell and its value, so a prover cannot choose where the
// new tile lands.
func ValidateTransformation(prev Board, move Move, claimed Board, seed Seed) error {
	if !move.Valid() {
		return fmt.Errorf("%w: code %d out of range", ErrInvalidMove, uint8(move))
	}

	slid := slideBoard(prev, move)
	if slid == prev {
		return fmt.Errorf("%w: %s does not change the board", ErrInvalidMove, move)
	}

	expected := SpawnTile(prev, move, slid, seed)
	if expected != claimed {
		return fmt.Errorf("%w: expected %s, claimed %s", ErrInvalidTransformation, expected.Hex(), claimed.Hex())
	}
	return nil
}

// ValidateSpawnShape is the weaker, seed-free validation mode: it
// recomputes the slide without forcing the spawn and requires that claimed
// differs from the unspawned result in exactly one position, that the
// position was empty, and that the added tile is a 2 or a 4. It only
// proves that a plausible tile was added, not which one; prefer
// ValidateTransformation where the seed is available.
func ValidateSpawnShape(prev Board, move Move, claimed Board) error {
	if !move.Valid() {
		return fmt.Errorf("%w: code %d out of range", ErrInvalidMove, uint8(move))
	}

	slid := slideBoard(prev, move)
	if slid == prev {
		return fmt.Errorf("%w: %s does not change the board", ErrInvalidMove, move)
	}

	diffPos := -1
	for i := 0; i < TileCount; i++ {
		if slid.Tile(i) == claimed.Tile(i) {
			continue
		}
		if diffPos >= 0 {
			return fmt.Errorf("%w: more than one cell differs from the slid board", ErrInvalidTransformation)
		}
		diffPos = i
	}

	if diffPos < 0 {
		return fmt.Errorf("%w: no tile was spawned", ErrInvalidTransformation)
	}
	if slid.Tile(diffPos) != 0 {
		return fmt.Errorf("%w: spawn cell %d was not empty", ErrInvalidTransformation, diffPos)
	}
	if v := claimed.Tile(diffPos); v != 1 && v != 2 {
		return fmt.Errorf("%w: spawned exponent %d, want 1 or 2", ErrInvalidTransformation, v)
	}
	return nil
}

// HasLegalMove reports whether any of the four moves would change the
// board. False means the position is terminal. A board with an empty cell
// always has a legal move; a full board has one iff two equal tiles are
// adjacent in some row or column.
func HasLegalMove(b Board) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			v := b.Tile(row*BoardSize + col)
			if v == 0 {
				return true
			}
			if col < BoardSize-1 && b.Tile(row*BoardSize+col+1) == v {
				return true
			}
			if row < BoardSize-1 && b.Tile((row+1)*BoardSize+col) == v {
				return true
			}
		}
	}
	return false
}

// IsWinningBoard reports whether any tile has reached thresholdExponent
// (11 for the classic 2048 tile).
func IsWinningBoard(b Board, thresholdExponent uint8) bool {
	return b.MaxTile() >= thresholdExponent
}
