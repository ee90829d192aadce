package session

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/provagame/fair2048/internal/game2048"
)

// ValidationMode selects how claimed boards are checked.
type ValidationMode string

const (
	// ModeStrict recomputes slide and spawn from the derived seed and
	// requires an exact match. The recommended mode.
	ModeStrict ValidationMode = "strict"

	// ModeLoose only checks that a single plausible tile was added to the
	// slid board. It lets the prover choose the spawn cell; kept for
	// compatibility with deployments that validate without seeds.
	ModeLoose ValidationMode = "loose"
)

// ManagerConfig tunes a Manager.
type ManagerConfig struct {
	// WinExponent is the tile exponent that marks a session won
	// (11 = the classic 2048 tile).
	WinExponent uint8

	// Mode is the transformation validation mode.
	Mode ValidationMode
}

// Manager coordinates the rules core with the store. Callers must
// serialize operations against a single session; the manager itself keeps
// no state between calls beyond what the store persists.
type Manager struct {
	store  Store
	logger *log.Logger
	cfg    ManagerConfig
}

// NewManager creates a session manager. A nil logger discards all output.
func NewManager(store Store, logger *log.Logger, cfg ManagerConfig) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.WinExponent == 0 {
		cfg.WinExponent = 11
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeStrict
	}
	return &Manager{store: store, logger: logger, cfg: cfg}
}

// StartGame derives the start board from seed and creates a session for
// owner. The (owner, seed) pair maps to a game hash that may be used only
// once, ever: a second StartGame with the same pair fails with
// ErrReplayedGame.
func (m *Manager) StartGame(owner string, seed game2048.Seed) (*Session, error) {
	hash := GameHash(owner, seed)
	if used, err := m.store.GameHashExists(hash); err != nil {
		return nil, fmt.Errorf("session: checking replay guard: %w", err)
	} else if used {
		return nil, fmt.Errorf("%w: %s", ErrReplayedGame, hash)
	}

	board := game2048.StartBoard(seed)
	if err := game2048.ValidateStartBoard(board); err != nil {
		// StartBoard guarantees the invariant; failing here means the
		// core and validator disagree.
		return nil, fmt.Errorf("session: derived start board invalid: %w", err)
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		GameHash:  hash,
		Seed:      seed,
		Board:     board,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.store.CreateSession(s); err != nil {
		return nil, fmt.Errorf("session: creating session: %w", err)
	}

	m.logger.Info("game started", "session", s.ID, "owner", owner, "hash", hash, "board", board.Hex())
	return s, nil
}

// SubmitMove validates and applies one move to the session's latest board.
// claimed is the board the caller asserts the move produces; a nil claimed
// lets the manager compute it, which trivially validates. Validation runs
// before any state write, so a rejected move leaves the session untouched.
func (m *Manager) SubmitMove(sessionID string, move game2048.Move, claimed *game2048.Board) (*Session, error) {
	s, err := m.store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if s.Terminal {
		return nil, fmt.Errorf("%w: session %s", ErrSessionTerminal, sessionID)
	}

	seed := MoveSeed(s.GameHash, s.MoveCount)

	var next game2048.Board
	switch {
	case claimed == nil:
		next, err = game2048.ProcessMove(s.Board, move, seed)
		if err != nil {
			return nil, err
		}
	case m.cfg.Mode == ModeLoose:
		if err := game2048.ValidateSpawnShape(s.Board, move, *claimed); err != nil {
			return nil, err
		}
		next = *claimed
	default:
		if err := game2048.ValidateTransformation(s.Board, move, *claimed, seed); err != nil {
			return nil, err
		}
		next = *claimed
	}

	rec := MoveRecord{
		SessionID: s.ID,
		Index:     s.MoveCount,
		Move:      move,
		Seed:      seed,
		Board:     next,
		CreatedAt: time.Now(),
	}
	if err := m.store.AppendMove(rec); err != nil {
		return nil, fmt.Errorf("session: logging move: %w", err)
	}

	s.Board = next
	s.MoveCount++
	s.Terminal = !game2048.HasLegalMove(next)
	if !s.Won {
		s.Won = game2048.IsWinningBoard(next, m.cfg.WinExponent)
	}

	if err := m.store.UpdateBoard(s.ID, s.Board, s.MoveCount, s.Terminal, s.Won); err != nil {
		return nil, fmt.Errorf("session: persisting board: %w", err)
	}

	m.logger.Info("move accepted",
		"session", s.ID, "index", rec.Index, "move", move,
		"board", next.Hex(), "terminal", s.Terminal, "won", s.Won)
	return s, nil
}

// Replay re-verifies a session's whole move log from its public inputs:
// the start board is re-derived from the root seed and every logged move
// is re-validated in order. Returns ErrReplayMismatch naming the first
// failing step, or nil when the full chain checks out.
func (m *Manager) Replay(sessionID string) error {
	s, err := m.store.SessionByID(sessionID)
	if err != nil {
		return err
	}
	recs, err := m.store.MovesBySession(sessionID)
	if err != nil {
		return fmt.Errorf("session: loading move log: %w", err)
	}

	board := game2048.StartBoard(s.Seed)
	if err := game2048.ValidateStartBoard(board); err != nil {
		return fmt.Errorf("%w: start board: %v", ErrReplayMismatch, err)
	}

	for i, rec := range recs {
		if rec.Index != i {
			return fmt.Errorf("%w: move log gap at index %d", ErrReplayMismatch, i)
		}

		seed := MoveSeed(s.GameHash, i)
		switch m.cfg.Mode {
		case ModeLoose:
			err = game2048.ValidateSpawnShape(board, rec.Move, rec.Board)
		default:
			err = game2048.ValidateTransformation(board, rec.Move, rec.Board, seed)
		}
		if err != nil {
			return fmt.Errorf("%w: move %d: %v", ErrReplayMismatch, i, err)
		}
		board = rec.Board
	}

	if len(recs) != s.MoveCount {
		return fmt.Errorf("%w: %d logged moves, session counter %d", ErrReplayMismatch, len(recs), s.MoveCount)
	}
	if board != s.Board {
		return fmt.Errorf("%w: replayed board %s, stored %s", ErrReplayMismatch, board.Hex(), s.Board.Hex())
	}

	m.logger.Debug("replay verified", "session", sessionID, "moves", len(recs))
	return nil
}

// Session returns the current state of one session.
func (m *Manager) Session(sessionID string) (*Session, error) {
	return m.store.SessionByID(sessionID)
}

// Sessions lists all sessions, newest first.
func (m *Manager) Sessions() ([]*Session, error) {
	return m.store.ListSessions()
}

// Moves returns a session's move log in order.
func (m *Manager) Moves(sessionID string) ([]MoveRecord, error) {
	if _, err := m.store.SessionByID(sessionID); err != nil {
		return nil, err
	}
	return m.store.MovesBySession(sessionID)
}

// MarkPrizeDistributed flags a won session's prize as paid out. The payout
// itself happens elsewhere; this only guards against double distribution.
func (m *Manager) MarkPrizeDistributed(sessionID string) error {
	s, err := m.store.SessionByID(sessionID)
	if err != nil {
		return err
	}
	if !s.Won {
		return fmt.Errorf("%w: session %s has not won", ErrPrizeState, sessionID)
	}
	if s.PrizeDistributed {
		return fmt.Errorf("%w: prize already distributed for %s", ErrPrizeState, sessionID)
	}
	if err := m.store.MarkPrizeDistributed(sessionID); err != nil {
		return fmt.Errorf("session: marking prize: %w", err)
	}
	m.logger.Info("prize marked distributed", "session", sessionID)
	return nil
}

// IsTerminal reports whether the session has no legal move left.
func (m *Manager) IsTerminal(sessionID string) (bool, error) {
	s, err := m.store.SessionByID(sessionID)
	if err != nil {
		return false, err
	}
	return s.Terminal, nil
}
