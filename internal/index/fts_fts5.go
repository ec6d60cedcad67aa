//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/packapp/internal/models"
	"github.com/starford/packapp/internal/packing"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
			slug UNINDEXED,
			node_id UNINDEXED,
			kind UNINDEXED,
			list_name UNINDEXED,
			name,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, slug, listName string, nodes []NodeRow) error {
	_, _ = tx.Exec(`DELETE FROM nodes_fts WHERE slug = ?`, slug)
	stmt, err := tx.Prepare(`INSERT INTO nodes_fts (slug, node_id, kind, list_name, name) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare fts insert: %w", err)
	}
	defer stmt.Close()
	if _, err := stmt.Exec(slug, packing.RootID, string(packing.KindList), listName, listName); err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	for _, n := range nodes {
		if _, err := stmt.Exec(slug, n.NodeID, n.Kind, listName, n.Name); err != nil {
			return fmt.Errorf("index: upsert fts: %w", err)
		}
	}
	return nil
}

func ftsDelete(tx *sql.Tx, slug string) {
	_, _ = tx.Exec(`DELETE FROM nodes_fts WHERE slug = ?`, slug)
}

// Search performs an FTS5 full-text search over list and node names.
func (db *DB) Search(query string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT slug, list_name, node_id, kind, name,
		       highlight(nodes_fts, 4, '<b>', '</b>')
		FROM nodes_fts
		WHERE nodes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []models.SearchHit
	for rows.Next() {
		var h models.SearchHit
		if err := rows.Scan(&h.Slug, &h.ListName, &h.NodeID, &h.Kind, &h.Name, &h.Snippet); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
