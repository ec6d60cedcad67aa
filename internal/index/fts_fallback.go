//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/packapp/internal/models"
	"github.com/starford/packapp/internal/packing"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE over the lists and nodes tables.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _ string, _ []NodeRow) error {
	// Names are already stored in lists and nodes; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
// List titles match as the list's root node.
func (db *DB) Search(query string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT slug, name, ? AS node_id, 'list' AS kind, name
		FROM lists
		WHERE name LIKE ?
		UNION ALL
		SELECT n.slug, l.name, n.node_id, n.kind, n.name
		FROM nodes n JOIN lists l ON l.slug = n.slug
		WHERE n.name LIKE ?
		LIMIT ?
	`, packing.RootID, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []models.SearchHit
	for rows.Next() {
		var h models.SearchHit
		if err := rows.Scan(&h.Slug, &h.ListName, &h.NodeID, &h.Kind, &h.Name); err != nil {
			return nil, err
		}
		h.Snippet = h.Name
		out = append(out, h)
	}
	return out, rows.Err()
}
