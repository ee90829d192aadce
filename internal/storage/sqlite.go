// Package storage provides SQLite-based persistence for game sessions,
// the game-hash replay guard, and per-session move logs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/provagame/fair2048/internal/game2048"
	"github.com/provagame/fair2048/internal/session"
)

// Store manages the SQLite database connection for session persistence.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			game_hash TEXT NOT NULL UNIQUE,
			seed_hex TEXT NOT NULL,
			board_hex TEXT NOT NULL,
			move_count INTEGER NOT NULL DEFAULT 0,
			terminal INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			prize_distributed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(owner);

		CREATE TABLE IF NOT EXISTS game_hashes (
			game_hash TEXT PRIMARY KEY,
			session_id TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS moves (
			session_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			move INTEGER NOT NULL,
			seed_hex TEXT NOT NULL,
			board_hex TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (session_id, idx)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSession inserts the session and registers its game hash in one
// transaction, so a reused hash can never slip in between check and write.
func (s *Store) CreateSession(sess *session.Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow("SELECT session_id FROM game_hashes WHERE game_hash = ?", sess.GameHash).Scan(&existing)
	if err == nil {
		return session.ErrReplayedGame
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("storage: cannot check replay guard: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO sessions (id, owner, game_hash, seed_hex, board_hex, move_count, terminal, won, prize_distributed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Owner, sess.GameHash,
		hex.EncodeToString(sess.Seed), sess.Board.Hex(),
		sess.MoveCount, sess.Terminal, sess.Won, sess.PrizeDistributed,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot insert session: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO game_hashes (game_hash, session_id) VALUES (?, ?)",
		sess.GameHash, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot register game hash: %w", err)
	}

	return tx.Commit()
}

// SessionByID returns the session or session.ErrSessionNotFound.
func (s *Store) SessionByID(id string) (*session.Session, error) {
	var (
		sess                 session.Session
		seedHex, boardHex    string
		createdAt, updatedAt any
	)

	err := s.db.QueryRow(
		`SELECT id, owner, game_hash, seed_hex, board_hex, move_count, terminal, won, prize_distributed, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(
		&sess.ID, &sess.Owner, &sess.GameHash, &seedHex, &boardHex,
		&sess.MoveCount, &sess.Terminal, &sess.Won, &sess.PrizeDistributed,
		&createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}

	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("storage: corrupt seed for session %s: %w", id, err)
	}
	sess.Seed = seed

	board, err := game2048.ParseHex(boardHex)
	if err != nil {
		return nil, fmt.Errorf("storage: corrupt board for session %s: %w", id, err)
	}
	sess.Board = board

	sess.CreatedAt = parseTimestamp(createdAt)
	sess.UpdatedAt = parseTimestamp(updatedAt)
	return &sess, nil
}

// GameHashExists reports whether the hash is registered.
func (s *Store) GameHashExists(hash string) (bool, error) {
	var id string
	err := s.db.QueryRow("SELECT session_id FROM game_hashes WHERE game_hash = ?", hash).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: cannot query game hash: %w", err)
	}
	return true, nil
}

// UpdateBoard persists the result of one validated move.
func (s *Store) UpdateBoard(id string, board game2048.Board, moveCount int, terminal, won bool) error {
	res, err := s.db.Exec(
		`UPDATE sessions SET board_hex = ?, move_count = ?, terminal = ?, won = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		board.Hex(), moveCount, terminal, won, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update board: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// AppendMove adds one record to the session's move log.
func (s *Store) AppendMove(rec session.MoveRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO moves (session_id, idx, move, seed_hex, board_hex) VALUES (?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Index, int(rec.Move),
		hex.EncodeToString(rec.Seed), rec.Board.Hex(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot append move: %w", err)
	}
	return nil
}

// MovesBySession returns the move log in index order.
func (s *Store) MovesBySession(id string) ([]session.MoveRecord, error) {
	rows, err := s.db.Query(
		`SELECT session_id, idx, move, seed_hex, board_hex, created_at
		 FROM moves WHERE session_id = ? ORDER BY idx ASC`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query moves: %w", err)
	}
	defer rows.Close()

	var recs []session.MoveRecord
	for rows.Next() {
		var (
			rec               session.MoveRecord
			move              int
			seedHex, boardHex string
			createdAt         any
		)
		if err := rows.Scan(&rec.SessionID, &rec.Index, &move, &seedHex, &boardHex, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan move row: %w", err)
		}

		rec.Move = game2048.Move(move)

		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return nil, fmt.Errorf("storage: corrupt move seed: %w", err)
		}
		rec.Seed = seed

		board, err := game2048.ParseHex(boardHex)
		if err != nil {
			return nil, fmt.Errorf("storage: corrupt move board: %w", err)
		}
		rec.Board = board

		rec.CreatedAt = parseTimestamp(createdAt)
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return recs, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions() ([]*session.Session, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	sessions := make([]*session.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.SessionByID(id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// MarkPrizeDistributed sets the prize flag for a session.
func (s *Store) MarkPrizeDistributed(id string) error {
	res, err := s.db.Exec(
		"UPDATE sessions SET prize_distributed = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot mark prize: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}

// parseTimestamp handles both time.Time and string datetime columns.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Ensure Store implements session.Store
var _ session.Store = (*Store)(nil)
