package index

import "github.com/starford/packapp/internal/models"

// ListIndex defines the interface for list indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type ListIndex interface {
	UpsertList(l ListRow, nodes []NodeRow) error
	DeleteList(slug string) error
	GetChecksum(slug string) (string, error)
	GetList(slug string) (*ListRow, error)
	ListLists(limit, offset int, sort string) ([]ListRow, int, error)
	Search(query string, limit int) ([]models.SearchHit, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies ListIndex at compile time.
var _ ListIndex = (*DB)(nil)
