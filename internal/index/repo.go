package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/packapp/internal/apperr"
)

// ListRow represents a row in the lists table.
type ListRow struct {
	Slug         string
	Name         string
	Checksum     string
	ItemCount    int
	CheckedCount int
	Progress     float64
	UpdatedAt    time.Time
}

// NodeRow represents one node of a saved list in the nodes table.
type NodeRow struct {
	NodeID   string
	ParentID string
	Kind     string
	Name     string
	Checked  bool
	Depth    int
	Position int
}

// UpsertList inserts or replaces a list and its nodes within a transaction.
func (db *DB) UpsertList(l ListRow, nodes []NodeRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO lists (slug, name, checksum, item_count, checked_count, progress, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name          = excluded.name,
			checksum      = excluded.checksum,
			item_count    = excluded.item_count,
			checked_count = excluded.checked_count,
			progress      = excluded.progress,
			updated_at    = excluded.updated_at
	`, l.Slug, l.Name, l.Checksum, l.ItemCount, l.CheckedCount, l.Progress, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert list: %w", err)
	}

	// Replace nodes: delete old then bulk insert.
	if _, err := tx.Exec(`DELETE FROM nodes WHERE slug = ?`, l.Slug); err != nil {
		return fmt.Errorf("index: clear nodes: %w", err)
	}
	if len(nodes) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO nodes (slug, node_id, parent_id, kind, name, checked, depth, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare node insert: %w", err)
		}
		defer stmt.Close()
		for _, n := range nodes {
			if _, err := stmt.Exec(l.Slug, n.NodeID, n.ParentID, n.Kind, n.Name, n.Checked, n.Depth, n.Position); err != nil {
				return fmt.Errorf("index: insert node: %w", err)
			}
		}
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, l.Slug, l.Name, nodes); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteList removes a list, its nodes, and its FTS entries.
func (db *DB) DeleteList(slug string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, slug)
	_, _ = tx.Exec(`DELETE FROM nodes WHERE slug = ?`, slug)
	_, _ = tx.Exec(`DELETE FROM lists WHERE slug = ?`, slug)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a list, or empty string if not found.
func (db *DB) GetChecksum(slug string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM lists WHERE slug = ?`, slug).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

const listColumns = `slug, name, checksum, item_count, checked_count, progress, updated_at`

func scanList(row interface{ Scan(...any) error }) (ListRow, error) {
	var l ListRow
	err := row.Scan(&l.Slug, &l.Name, &l.Checksum, &l.ItemCount, &l.CheckedCount, &l.Progress, &l.UpdatedAt)
	return l, err
}

// GetList returns the indexed summary of one list.
func (db *DB) GetList(slug string) (*ListRow, error) {
	l, err := scanList(db.conn.QueryRow(`SELECT `+listColumns+` FROM lists WHERE slug = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get list: %w", err)
	}
	return &l, nil
}

// ListLists returns a page of lists and the total count. sort is one of
// "updated_at" (default, newest first), "name" or "progress".
func (db *DB) ListLists(limit, offset int, sort string) ([]ListRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	order := "updated_at DESC, slug"
	switch sort {
	case "name":
		order = "name COLLATE NOCASE, slug"
	case "progress":
		order = "progress DESC, slug"
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM lists`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count lists: %w", err)
	}

	rows, err := db.conn.Query(`SELECT `+listColumns+` FROM lists ORDER BY `+order+` LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list lists: %w", err)
	}
	defer rows.Close()

	var out []ListRow
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

// AllChecksums returns the stored checksum of every indexed list.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT slug, checksum FROM lists`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var slug, cs string
		if err := rows.Scan(&slug, &cs); err != nil {
			return nil, err
		}
		out[slug] = cs
	}
	return out, rows.Err()
}
