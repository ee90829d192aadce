package game2048

import "fmt"

// Move is a directional move code.
type Move uint8

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
)

// Valid reports whether m is one of the four move codes.
func (m Move) Valid() bool {
	return m <= MoveRight
}

func (m Move) String() string {
	switch m {
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	default:
		return fmt.Sprintf("move(%d)", uint8(m))
	}
}

// ParseMove converts a direction name to its move code.
func ParseMove(s string) (Move, error) {
	switch s {
	case "up":
		return MoveUp, nil
	case "down":
		return MoveDown, nil
	case "left":
		return MoveLeft, nil
	case "right":
		return MoveRight, nil
	default:
		return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidMove, s)
	}
}

// lineFor returns the 4 board positions forming line n for the given move,
// ordered from the move's target edge outward. LEFT/RIGHT lines are rows,
// UP/DOWN lines are columns.
func lineFor(move Move, n int) [BoardSize]int {
	var line [BoardSize]int
	for i := 0; i < BoardSize; i++ {
		switch move {
		case MoveLeft:
			line[i] = n*BoardSize + i
		case MoveRight:
			line[i] = n*BoardSize + (BoardSize - 1 - i)
		case MoveUp:
			line[i] = i*BoardSize + n
		case MoveDown:
			line[i] = (BoardSize-1-i)*BoardSize + n
		}
	}
	return line
}

// slideLine compresses a line toward index 0 and merges adjacent equal
// tiles. A tile produced by a merge never merges again within the same
// call: [1,1,1,1] becomes [2,2,0,0], not [3,0,0,0].
func slideLine(line [BoardSize]uint8) [BoardSize]uint8 {
	var out [BoardSize]uint8
	var merged [BoardSize]bool
	w := 0

	for i := 0; i < BoardSize; i++ {
		v := line[i]
		if v == 0 {
			continue
		}
		if w > 0 && out[w-1] == v && !merged[w-1] {
			out[w-1] = v + 1
			merged[w-1] = true
		} else {
			out[w] = v
			w++
		}
	}

	return out
}

// slideBoard applies the move's compress+merge to all 4 lines and returns
// the transformed board without the post-move spawn.
func slideBoard(b Board, move Move) Board {
	result := b
	for n := 0; n < BoardSize; n++ {
		positions := lineFor(move, n)

		var line [BoardSize]uint8
		for i, pos := range positions {
			line[i] = b.Tile(pos)
		}

		slid := slideLine(line)
		for i, pos := range positions {
			result = result.SetTile(pos, slid[i])
		}
	}
	return result
}

// Slide applies the move's compress+merge without the post-move spawn.
// Verifiers use it to recompute the intermediate board a spawn was placed
// on. Returns ErrInvalidMove only for an out-of-range code; a no-op slide
// is returned as-is, callers decide whether that is an error.
func Slide(b Board, move Move) (Board, error) {
	if !move.Valid() {
		return Board{}, fmt.Errorf("%w: code %d out of range", ErrInvalidMove, uint8(move))
	}
	return slideBoard(b, move), nil
}

// ProcessMove applies one move to the board: compress+merge along the move
// direction, then the mandated deterministic spawn derived from seed.
// Returns ErrInvalidMove if the move code is out of range or the move does
// not change the board.
func ProcessMove(b Board, move Move, seed Seed) (Board, error) {
	if !move.Valid() {
		return Board{}, fmt.Errorf("%w: code %d out of range", ErrInvalidMove, uint8(move))
	}

	slid := slideBoard(b, move)
	if slid == b {
		return Board{}, fmt.Errorf("%w: %s does not change the board", ErrInvalidMove, move)
	}

	return SpawnTile(b, move, slid, seed), nil
}
