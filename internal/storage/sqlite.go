// Package storage provides a SQLite-based journal of settlement sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
	"github.com/vovakirdan/tetris2048/internal/session"
)

// ErrSessionNotFound is returned when a session ID is not in the journal.
var ErrSessionNotFound = errors.New("storage: session not found")

// Store manages the SQLite database connection for the journal.
type Store struct {
	db *sql.DB
}

var _ session.JournalSaver = (*Store)(nil)

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
			scenario_id TEXT NOT NULL DEFAULT '',
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			win_score INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			state TEXT NOT NULL,
			settlements INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_scenario ON sessions(scenario_id);

		CREATE TABLE IF NOT EXISTS settlements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			anchor_row INTEGER NOT NULL,
			anchor_col INTEGER NOT NULL,
			pattern TEXT NOT NULL,
			board TEXT NOT NULL,
			score_before INTEGER NOT NULL,
			score_after INTEGER NOT NULL,
			merges INTEGER NOT NULL DEFAULT 0,
			pruned INTEGER NOT NULL DEFAULT 0,
			rows_cleared INTEGER NOT NULL DEFAULT 0,
			overflow INTEGER NOT NULL DEFAULT 0,
			game_over INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			UNIQUE(session_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_settlements_session ON settlements(session_id, seq);
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

// SaveSession records a new session.
func (s *Store) SaveSession(data session.SessionData) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions
		 (id, scenario_id, width, height, win_score, score, state, settlements, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.ID,
		data.ScenarioID,
		data.Width,
		data.Height,
		data.WinScore,
		data.Score,
		string(data.State),
		data.Settlements,
		formatTime(data.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save session: %w", err)
	}
	return nil
}

// FinishSession updates the final score, state and settlement count of a session.
func (s *Store) FinishSession(data session.SessionData) error {
	finished := data.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	res, err := s.db.Exec(
		`UPDATE sessions
		 SET score = ?, state = ?, settlements = ?, finished_at = ?
		 WHERE id = ?`,
		data.Score,
		string(data.State),
		data.Settlements,
		formatTime(finished),
		data.ID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, data.ID)
	}
	return nil
}

// SaveSettlement records one settlement. Pattern and board are stored as JSON.
func (s *Store) SaveSettlement(data session.SettlementData) error {
	pattern, err := sonic.MarshalString(data.Pattern)
	if err != nil {
		return fmt.Errorf("storage: cannot encode pattern: %w", err)
	}
	board, err := sonic.MarshalString(data.Board)
	if err != nil {
		return fmt.Errorf("storage: cannot encode board: %w", err)
	}

	createdAt := data.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.Exec(
		`INSERT INTO settlements
		 (session_id, seq, anchor_row, anchor_col, pattern, board,
		  score_before, score_after, merges, pruned, rows_cleared, overflow, game_over, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID,
		data.Seq,
		data.AnchorRow,
		data.AnchorCol,
		pattern,
		board,
		data.ScoreBefore,
		data.ScoreAfter,
		data.Merges,
		data.Pruned,
		data.RowsCleared,
		data.Overflow,
		data.GameOver,
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save settlement: %w", err)
	}
	return nil
}

const sessionColumns = `id, scenario_id, width, height, win_score, score, state, settlements, started_at, finished_at`

// SessionByID retrieves a session. Returns ErrSessionNotFound if it does not exist.
func (s *Store) SessionByID(id string) (session.SessionData, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	data, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return session.SessionData{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return session.SessionData{}, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return data, nil
}

// RecentSessions retrieves the most recently started sessions.
func (s *Store) RecentSessions(limit int) ([]session.SessionData, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var results []session.SessionData
	for rows.Next() {
		data, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, data)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Settlements retrieves every settlement of a session in order.
func (s *Store) Settlements(sessionID string) ([]session.SettlementData, error) {
	rows, err := s.db.Query(
		`SELECT session_id, seq, anchor_row, anchor_col, pattern, board,
		        score_before, score_after, merges, pruned, rows_cleared, overflow, game_over, created_at
		 FROM settlements
		 WHERE session_id = ?
		 ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query settlements: %w", err)
	}
	defer rows.Close()

	var results []session.SettlementData
	for rows.Next() {
		var (
			data           session.SettlementData
			pattern, board string
			overflow, over bool
			createdAt      any
		)
		if err := rows.Scan(
			&data.SessionID,
			&data.Seq,
			&data.AnchorRow,
			&data.AnchorCol,
			&pattern,
			&board,
			&data.ScoreBefore,
			&data.ScoreAfter,
			&data.Merges,
			&data.Pruned,
			&data.RowsCleared,
			&overflow,
			&over,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		if err := sonic.UnmarshalString(pattern, &data.Pattern); err != nil {
			return nil, fmt.Errorf("storage: cannot decode pattern of settlement %d: %w", data.Seq, err)
		}
		if err := sonic.UnmarshalString(board, &data.Board); err != nil {
			return nil, fmt.Errorf("storage: cannot decode board of settlement %d: %w", data.Seq, err)
		}
		data.Overflow = overflow
		data.GameOver = over
		data.CreatedAt = parseTime(createdAt)

		results = append(results, data)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// DeleteSession removes a session and all of its settlements.
func (s *Store) DeleteSession(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM settlements WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete settlements: %w", err)
	}
	res, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (session.SessionData, error) {
	var (
		data       session.SessionData
		state      string
		startedAt  any
		finishedAt any
	)
	if err := row.Scan(
		&data.ID,
		&data.ScenarioID,
		&data.Width,
		&data.Height,
		&data.WinScore,
		&data.Score,
		&state,
		&data.Settlements,
		&startedAt,
		&finishedAt,
	); err != nil {
		return session.SessionData{}, err
	}

	data.State = tetris2048.GameStateType(state)
	data.StartedAt = parseTime(startedAt)
	data.FinishedAt = parseTime(finishedAt)
	return data, nil
}

const timeLayout = "2006-01-02 15:04:05.000"

// formatTime stores times in UTC with a fixed layout so they sort as text.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime handles both time.Time and string values from the driver.
// NULL and unparseable values yield the zero time.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
