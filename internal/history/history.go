// Package history persists completed statements to SQLite. The store is
// append-only from the shell's point of view: the parsing core never
// reads it back, only the history command and external tooling do.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/conch-sh/conch/internal/parse"
	"github.com/conch-sh/conch/internal/sqlutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS statements (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	command    TEXT NOT NULL,
	raw        TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_statements_session ON statements(session_id);
CREATE INDEX IF NOT EXISTS idx_statements_command ON statements(command);
`

// Entry is one recorded statement.
type Entry struct {
	ID        int64
	SessionID string
	Command   string
	Raw       string
	CreatedAt time.Time
}

// Store is the SQLite-backed history log for one shell session.
type Store struct {
	db        *sql.DB
	sessionID string
}

// Open opens or creates the history database at path and starts a new
// session.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	s := &Store{db: db, sessionID: uuid.NewString()}
	if _, err := db.Exec(
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)`,
		s.sessionID, time.Now().UTC(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record session: %w", err)
	}
	return s, nil
}

// OpenView opens the history database at path for reading without
// starting a new session. Append is a no-op on a view.
func OpenView(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SessionID returns the identifier of the current session.
func (s *Store) SessionID() string { return s.sessionID }

// Append records one completed statement.
func (s *Store) Append(st *parse.Statement) error {
	if st.Command == "" || s.sessionID == "" {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO statements (session_id, command, raw, created_at) VALUES (?, ?, ?, ?)`,
		s.sessionID, st.Command, st.Raw, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, command, raw, created_at
		 FROM statements ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return scanEntries(rows)
}

// Search returns up to limit entries whose raw text contains term,
// newest first.
func (s *Store) Search(term string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, command, raw, created_at
		 FROM statements WHERE raw LIKE ? ORDER BY id DESC LIMIT ?`,
		"%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	return scanEntries(rows)
}

// CommandCounts returns how many times each command was run, most
// frequent first.
func (s *Store) CommandCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT command, COUNT(*) FROM statements GROUP BY command`)
	if err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var command string
		var n int
		if err := rows.Scan(&command, &n); err != nil {
			return nil, err
		}
		counts[command] = n
	}
	return counts, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (Entry, error) {
		var e Entry
		err := rows.Scan(&e.ID, &e.SessionID, &e.Command, &e.Raw, &e.CreatedAt)
		return e, err
	})
}
