// Package ledger keeps a SQLite history of build runs.
package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS builds (
	id              TEXT PRIMARY KEY,
	started_at      DATETIME NOT NULL,
	duration_ms     INTEGER NOT NULL DEFAULT 0,
	status          TEXT NOT NULL,
	hash            TEXT NOT NULL DEFAULT '',
	subjects        INTEGER NOT NULL DEFAULT 0,
	teachers        INTEGER NOT NULL DEFAULT 0,
	articles        INTEGER NOT NULL DEFAULT 0,
	system_articles INTEGER NOT NULL DEFAULT 0,
	problems        INTEGER NOT NULL DEFAULT 0,
	published       INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
`

// DB wraps a sql.DB with ledger operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
