package session

import (
	"sort"
	"sync"
	"time"

	"github.com/provagame/fair2048/internal/game2048"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	hashes   map[string]string // game hash -> session id
	moves    map[string][]MoveRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		hashes:   make(map[string]string),
		moves:    make(map[string][]MoveRecord),
	}
}

func (m *MemoryStore) CreateSession(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, used := m.hashes[s.GameHash]; used {
		return ErrReplayedGame
	}

	cp := *s
	m.sessions[s.ID] = &cp
	m.hashes[s.GameHash] = s.ID
	return nil
}

func (m *MemoryStore) SessionByID(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) GameHashExists(hash string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.hashes[hash]
	return ok, nil
}

func (m *MemoryStore) UpdateBoard(id string, board game2048.Board, moveCount int, terminal, won bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Board = board
	s.MoveCount = moveCount
	s.Terminal = terminal
	s.Won = won
	s.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) AppendMove(rec MoveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[rec.SessionID]; !ok {
		return ErrSessionNotFound
	}
	m.moves[rec.SessionID] = append(m.moves[rec.SessionID], rec)
	return nil
}

func (m *MemoryStore) MovesBySession(id string) ([]MoveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]MoveRecord, len(m.moves[id]))
	copy(recs, m.moves[id])
	sort.Slice(recs, func(i, j int) bool { return recs[i].Index < recs[j].Index })
	return recs, nil
}

func (m *MemoryStore) ListSessions() ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) MarkPrizeDistributed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.PrizeDistributed = true
	s.UpdatedAt = time.Now()
	return nil
}

var _ Store = (*MemoryStore)(nil)
