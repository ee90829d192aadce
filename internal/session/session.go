// Package session owns per-game bookkeeping around the pure rules core:
// session identity, the authoritative latest board, the monotonically
// increasing move counter, the game-hash replay guard, and the move log
// that lets any party re-verify a whole game from public inputs.
package session

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"time"

	"github.com/provagame/fair2048/internal/game2048"
)

var (
	// ErrSessionNotFound reports an unknown session id.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrReplayedGame reports a start seed whose game hash was already
	// used by some session.
	ErrReplayedGame = errors.New("session: game hash already used")

	// ErrSessionTerminal reports a move against a finished session.
	ErrSessionTerminal = errors.New("session: no legal moves remain")

	// ErrReplayMismatch reports a stored move log that does not re-verify.
	ErrReplayMismatch = errors.New("session: move log does not re-verify")

	// ErrPrizeState reports a prize operation against a session that is
	// not in the required state.
	ErrPrizeState = errors.New("session: invalid prize state")
)

// Session is one player's ongoing game. Sessions are created once, mutated
// once per validated move, and never deleted; history lives in the move
// log, not in stored board snapshots.
type Session struct {
	ID               string
	Owner            string
	GameHash         string // replay-guard key, hex
	Seed             game2048.Seed
	Board            game2048.Board
	MoveCount        int
	Terminal         bool
	Won              bool
	PrizeDistributed bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MoveRecord is one validated move in a session's log: enough public data
// for an independent verifier to recompute the transition.
type MoveRecord struct {
	SessionID string
	Index     int
	Move      game2048.Move
	Seed      game2048.Seed
	Board     game2048.Board // board after the move, spawn included
	CreatedAt time.Time
}

// Store persists sessions, the game-hash replay guard, and move logs.
// Implementations must make CreateSession atomic with the hash
// registration so two sessions can never share a game hash.
type Store interface {
	// CreateSession inserts s and registers its game hash. Returns
	// ErrReplayedGame if the hash was ever used.
	CreateSession(s *Session) error

	// SessionByID returns the session or ErrSessionNotFound.
	SessionByID(id string) (*Session, error)

	// GameHashExists reports whether the hash is registered.
	GameHashExists(hash string) (bool, error)

	// UpdateBoard persists the result of one validated move in a single
	// write: new board, move count, terminal and won flags.
	UpdateBoard(id string, board game2048.Board, moveCount int, terminal, won bool) error

	// AppendMove adds one record to the session's move log.
	AppendMove(rec MoveRecord) error

	// MovesBySession returns the move log in index order.
	MovesBySession(id string) ([]MoveRecord, error)

	// ListSessions returns all sessions, newest first.
	ListSessions() ([]*Session, error)

	// MarkPrizeDistributed sets the prize flag for a won session.
	MarkPrizeDistributed(id string) error
}

// Domain prefixes for session-level hash derivations; distinct from the
// core's spawn domains so the two chains can never overlap.
const (
	gameHashDomain = "fair2048/v1/game"
	moveSeedDomain = "fair2048/v1/moveseed"
)

// GameHash binds owner and seed into the replay-guard key. Two games by
// the same owner from the same seed collide on purpose: replaying the same
// start for a second reward is exactly what the guard rejects.
func GameHash(owner string, seed game2048.Seed) string {
	msg := make([]byte, 0, len(gameHashDomain)+len(owner)+1+len(seed))
	msg = append(msg, gameHashDomain...)
	msg = append(msg, owner...)
	msg = append(msg, 0)
	msg = append(msg, seed...)
	sum := sha256.Sum256(msg)
	return hex.EncodeToString(sum[:])
}

// MoveSeed derives the spawn seed for move index idx of a game. Derived,
// never supplied: uniqueness per (session, move index) falls out of the
// game hash being unique per session, and any verifier can re-derive it
// from public session data.
func MoveSeed(gameHash string, idx int) game2048.Seed {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(idx))

	msg := make([]byte, 0, len(moveSeedDomain)+len(gameHash)+8)
	msg = append(msg, moveSeedDomain...)
	msg = append(msg, gameHash...)
	msg = append(msg, n[:]...)
	sum := sha256.Sum256(msg)
	return game2048.Seed(sum[:])
}
