package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provagame/fair2048/internal/game2048"
)

func newTestManager(t *testing.T, cfg ManagerConfig) *Manager {
	t.Helper()
	return NewManager(NewMemoryStore(), nil, cfg)
}

// playOneMove finds a legal direction on the session's board and submits
// the manager-computed result for it.
func playOneMove(t *testing.T, m *Manager, s *Session) *Session {
	t.Helper()
	for _, mv := range []game2048.Move{game2048.MoveUp, game2048.MoveDown, game2048.MoveLeft, game2048.MoveRight} {
		next, err := m.SubmitMove(s.ID, mv, nil)
		if errors.Is(err, game2048.ErrInvalidMove) {
			continue
		}
		require.NoError(t, err)
		return next
	}
	t.Fatal("no legal move on board")
	return nil
}

func TestStartGame(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})

	s, err := m.StartGame("alice", game2048.Seed("start-seed"))
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "alice", s.Owner)
	assert.Equal(t, 0, s.MoveCount)
	assert.False(t, s.Terminal)
	require.NoError(t, game2048.ValidateStartBoard(s.Board))

	loaded, err := m.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Board, loaded.Board)
	assert.Equal(t, s.GameHash, loaded.GameHash)
}

func TestStartGameReplayGuard(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})
	seed := game2048.Seed("guarded-seed")

	_, err := m.StartGame("alice", seed)
	require.NoError(t, err)

	// Same owner + seed is a replay.
	_, err = m.StartGame("alice", seed)
	assert.ErrorIs(t, err, ErrReplayedGame)

	// A different owner hashes differently and is allowed.
	_, err = m.StartGame("bob", seed)
	assert.NoError(t, err)
}

func TestSubmitMoveComputed(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})

	s, err := m.StartGame("alice", game2048.Seed("play"))
	require.NoError(t, err)

	next := playOneMove(t, m, s)
	assert.Equal(t, 1, next.MoveCount)
	assert.NotEqual(t, s.Board, next.Board)

	moves, err := m.Moves(s.ID)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, 0, moves[0].Index)
	assert.Equal(t, next.Board, moves[0].Board)
}

func TestSubmitMoveValidatesClaim(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})

	s, err := m.StartGame("alice", game2048.Seed("claimed"))
	require.NoError(t, err)

	// Find a legal direction and recompute the expected board exactly as
	// an honest client would.
	var mv game2048.Move
	var expected game2048.Board
	found := false
	for _, cand := range []game2048.Move{game2048.MoveUp, game2048.MoveDown, game2048.MoveLeft, game2048.MoveRight} {
		b, err := game2048.ProcessMove(s.Board, cand, MoveSeed(s.GameHash, 0))
		if err == nil {
			mv, expected, found = cand, b, true
			break
		}
	}
	require.True(t, found, "start board must have a legal move")

	// A forged claim is rejected and leaves the session untouched.
	forged := expected.SetTile(expected.EmptyPositions()[0], 5)
	_, err = m.SubmitMove(s.ID, mv, &forged)
	assert.ErrorIs(t, err, game2048.ErrInvalidTransformation)

	unchanged, err := m.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Board, unchanged.Board)
	assert.Equal(t, 0, unchanged.MoveCount)

	// The honest claim is accepted.
	next, err := m.SubmitMove(s.ID, mv, &expected)
	require.NoError(t, err)
	assert.Equal(t, expected, next.Board)
	assert.Equal(t, 1, next.MoveCount)
}

func TestSubmitMoveLooseMode(t *testing.T) {
	m := newTestManager(t, ManagerConfig{Mode: ModeLoose})

	s, err := m.StartGame("alice", game2048.Seed("loose"))
	require.NoError(t, err)

	// In loose mode a prover may place the spawn on any empty cell: build
	// a claim from the slid board plus a 2 on the last empty cell, which
	// strict mode would only accept by coincidence.
	var mv game2048.Move
	var claim game2048.Board
	found := false
	for _, cand := range []game2048.Move{game2048.MoveUp, game2048.MoveDown, game2048.MoveLeft, game2048.MoveRight} {
		slid, err := game2048.Slide(s.Board, cand)
		require.NoError(t, err)
		if slid == s.Board {
			continue
		}
		empty := slid.EmptyPositions()
		claim = slid.SetTile(empty[len(empty)-1], 1)
		mv, found = cand, true
		break
	}
	require.True(t, found)

	next, err := m.SubmitMove(s.ID, mv, &claim)
	require.NoError(t, err)
	assert.Equal(t, claim, next.Board)
	assert.Equal(t, 1, next.MoveCount)
}

func TestSubmitMoveTerminalSession(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, nil, ManagerConfig{})

	s, err := m.StartGame("alice", game2048.Seed("terminal"))
	require.NoError(t, err)

	// Force the session terminal through the store, then submit.
	stuck := game2048.FromExponents([16]uint8{
		1, 2, 1, 2,
		2, 1, 2, 1,
		1, 2, 1, 2,
		2, 1, 2, 1,
	})
	require.NoError(t, store.UpdateBoard(s.ID, stuck, 40, true, false))

	_, err = m.SubmitMove(s.ID, game2048.MoveLeft, nil)
	assert.ErrorIs(t, err, ErrSessionTerminal)
}

func TestSubmitMoveUnknownSession(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})

	_, err := m.SubmitMove("no-such-id", game2048.MoveLeft, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReplayVerifiesFullGame(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})

	s, err := m.StartGame("alice", game2048.Seed("replay-game"))
	require.NoError(t, err)

	cur := s
	for i := 0; i < 25 && !cur.Terminal; i++ {
		cur = playOneMove(t, m, cur)
	}

	require.NoError(t, m.Replay(s.ID))
}

func TestReplayDetectsTamperedLog(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, nil, ManagerConfig{})

	s, err := m.StartGame("alice", game2048.Seed("tamper"))
	require.NoError(t, err)

	cur := s
	for i := 0; i < 5 && !cur.Terminal; i++ {
		cur = playOneMove(t, m, cur)
	}
	require.NoError(t, m.Replay(s.ID))

	// Corrupt one logged board directly in the store.
	recs, err := store.MovesBySession(s.ID)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	tampered := recs[0]
	tampered.Board = tampered.Board.SetTile(0, (tampered.Board.Tile(0)+3)%10)
	store.moves[s.ID][0] = tampered

	err = m.Replay(s.ID)
	assert.ErrorIs(t, err, ErrReplayMismatch)
}

func TestMoveSeedUniquePerIndex(t *testing.T) {
	hash := GameHash("alice", game2048.Seed("unique"))

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		seen[string(MoveSeed(hash, i))] = true
	}
	assert.Len(t, seen, 64, "move seeds must be unique per index")

	other := GameHash("bob", game2048.Seed("unique"))
	assert.NotEqual(t, string(MoveSeed(hash, 0)), string(MoveSeed(other, 0)),
		"move seeds must differ across games")
}

func TestMarkPrizeDistributed(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, nil, ManagerConfig{})

	s, err := m.StartGame("alice", game2048.Seed("prize"))
	require.NoError(t, err)

	// Not won yet.
	err = m.MarkPrizeDistributed(s.ID)
	assert.ErrorIs(t, err, ErrPrizeState)

	// Flag the session won through the store, then distribute once.
	require.NoError(t, store.UpdateBoard(s.ID, s.Board, s.MoveCount, false, true))
	require.NoError(t, m.MarkPrizeDistributed(s.ID))

	// Second distribution is refused.
	err = m.MarkPrizeDistributed(s.ID)
	assert.ErrorIs(t, err, ErrPrizeState)
}

func TestWinDetection(t *testing.T) {
	store := NewMemoryStore()
	// Threshold 3 (tile 8) keeps the test short.
	m := NewManager(store, nil, ManagerConfig{WinExponent: 3})

	s, err := m.StartGame("alice", game2048.Seed(fmt.Sprintf("win-%d", 1)))
	require.NoError(t, err)

	cur := s
	for i := 0; i < 200 && !cur.Won && !cur.Terminal; i++ {
		cur = playOneMove(t, m, cur)
	}

	assert.True(t, cur.Won, "200 moves should build a tile 8")
}
