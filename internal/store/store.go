package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migration upgrades a session log to version.
type migration struct {
	version int
	name    string
	stmt    string
}

// migrations run in order against logs whose user_version is below their
// version. schema.sql always describes version 0.
var migrations = []migration{
	{
		version: 1,
		name:    "index sessions by scenario",
		stmt: `CREATE INDEX IF NOT EXISTS idx_sessions_scenario
			ON sessions(scenario, created_seq)`,
	},
}

// sessionPragmas configure every connection to the log: WAL so `trace`
// can read while `run --db` writes, and a busy timeout for concurrent runs
// recording into the same file.
var sessionPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Store is the session log: one row per recorded loader run, with the
// queue it held and the trace its SDK observed.
type Store struct {
	db *sql.DB
}

// Open opens the session log at path, creating the file and its tables on
// first use and upgrading older logs. Opening an up-to-date log changes
// nothing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session log %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to session log %s: %w", path, err)
	}

	// Sessions are written in a single transaction each; one connection
	// keeps SQLite's single writer from contending with itself.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range sessionPragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure session log: %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session tables: %w", err)
	}
	if err := upgrade(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the session log.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// upgrade applies pending migrations and records the resulting version in
// user_version.
func upgrade(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read session log version: %w", err)
	}

	for _, m := range migrations {
		if version >= m.version {
			continue
		}
		if _, err := db.Exec(m.stmt); err != nil {
			return fmt.Errorf("migrate session log to v%d (%s): %w", m.version, m.name, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("record session log v%d: %w", m.version, err)
		}
		version = m.version
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
