// Package clientstore is the durable per-session key/value state the browser
// keeps between page loads: the wizard draft and the per-run unlock flags.
// Rows are scoped by (session, key) with last-write-wins semantics; there is
// no cross-session coordination, the flags are advisory rather than a
// security boundary.
package clientstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS client_state (
	session_id TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (session_id, key)
);
`

type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Session returns a view of the store scoped to one browser session.
func (s *Store) Session(id string) *Session {
	return &Session{store: s, id: id}
}

func (s *Store) get(session, key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM client_state WHERE session_id = ? AND key = ?`, session, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(session, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO client_state (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		session, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) delete(session, key string) error {
	if _, err := s.db.Exec(`DELETE FROM client_state WHERE session_id = ? AND key = ?`, session, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
