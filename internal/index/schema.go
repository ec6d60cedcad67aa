// Package index provides SQLite-backed list indexing with optional FTS5 search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS lists (
	slug          TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	checksum      TEXT NOT NULL DEFAULT '',
	item_count    INTEGER NOT NULL DEFAULT 0,
	checked_count INTEGER NOT NULL DEFAULT 0,
	progress      REAL NOT NULL DEFAULT 0,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS nodes (
	slug      TEXT NOT NULL REFERENCES lists(slug) ON DELETE CASCADE,
	node_id   TEXT NOT NULL,
	parent_id TEXT NOT NULL DEFAULT '',
	kind      TEXT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	checked   INTEGER NOT NULL DEFAULT 0,
	depth     INTEGER NOT NULL DEFAULT 0,
	position  INTEGER NOT NULL DEFAULT 0,
	UNIQUE(slug, node_id)
);

CREATE INDEX IF NOT EXISTS idx_nodes_slug ON nodes(slug);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
