package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store is the SQLite-backed task-query service. It supplies the
// aggregation engine with task records and owns the thin timer/reminder
// collaborator operations.
type Store struct {
	DB *sql.DB
}

func appDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(home, ".local", "share", "taskdeck")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return base, nil
}

// Open opens (and migrates) the database at path. An empty path uses the
// default data directory; ":memory:" gives a throwaway in-memory database.
func Open(path string) (*Store, error) {
	var dsn string
	switch path {
	case ":memory:":
		dsn = "file::memory:?_pragma=foreign_keys(ON)"
	case "":
		dir, err := appDataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "taskdeck.db")
		fallthrough
	default:
		dsn = fmt.Sprintf(
			"file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
			path,
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

func migrate(db *sql.DB) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(b)); err != nil {
		return errors.Join(fmt.Errorf("schema apply failed"), err)
	}
	return nil
}

// Timestamps are stored as UTC strings with a fixed-width fraction so
// lexicographic SQL comparisons match chronological order. RFC3339Nano
// would trim trailing zeros, making "...00.5Z" sort before "...00Z".
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
	}
	return t, err
}
