package index

import (
	"time"

	"github.com/starford/packapp/internal/checksum"
	"github.com/starford/packapp/internal/codec"
	"github.com/starford/packapp/internal/packing"
)

// Rows flattens a document into the list summary and node rows stored for slug.
func Rows(slug string, doc packing.Document, sum string, updatedAt time.Time) (ListRow, []NodeRow) {
	root := doc.Root()
	tally := packing.CountItems(root)
	row := ListRow{
		Slug:         slug,
		Name:         doc.Name,
		Checksum:     sum,
		ItemCount:    tally.Items,
		CheckedCount: tally.Checked,
		Progress:     packing.DirectProgressPercent(root),
		UpdatedAt:    updatedAt,
	}

	var nodes []NodeRow
	var visit func(parent packing.Node, depth int)
	visit = func(parent packing.Node, depth int) {
		for i, n := range parent.Items {
			nodes = append(nodes, NodeRow{
				NodeID:   n.ID,
				ParentID: parent.ID,
				Kind:     string(n.Kind),
				Name:     n.Name,
				Checked:  packing.CheckState(n).Checked,
				Depth:    depth,
				Position: i,
			})
			if n.IsList() {
				visit(n, depth+1)
			}
		}
	}
	visit(root, 1)
	return row, nodes
}

// indexFile decodes a saved list and upserts it into the DB.
func indexFile(db *DB, slug string, data []byte) error {
	doc, err := codec.Unmarshal(data)
	if err != nil {
		return err
	}
	row, nodes := Rows(slug, doc, checksum.Sum(data), time.Now())
	return db.UpsertList(row, nodes)
}
