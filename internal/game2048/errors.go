package game2048

import "errors"

// Validation failures returned by the core. All of them are synchronous and
// non-retryable: the same inputs always produce the same verdict, and no
// state is touched on the way out.
var (
	// ErrInvalidMove reports an out-of-range move code or a move that
	// leaves the board unchanged.
	ErrInvalidMove = errors.New("game2048: invalid move")

	// ErrInvalidStartBoard reports a start board without exactly two
	// tiles of value 2 or 4.
	ErrInvalidStartBoard = errors.New("game2048: invalid start board")

	// ErrDirtyBits reports set bits outside the tile exponent slots.
	ErrDirtyBits = errors.New("game2048: reserved board bits set")

	// ErrInvalidTransformation reports a claimed board that does not
	// match the recomputed move result.
	ErrInvalidTransformation = errors.New("game2048: claimed board does not match recomputed result")

	// ErrBadBoardEncoding reports a malformed hex board encoding.
	ErrBadBoardEncoding = errors.New("game2048: malformed board encoding")
)
