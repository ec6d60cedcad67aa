package index

import (
	"log/slog"

	"github.com/starford/packapp/internal/storage"
)

// Sync walks the shelf and brings the index up to date:
//   - new/changed lists are decoded and upserted
//   - lists removed from disk are deleted from the index
//
// Files that fail to decode are logged and skipped.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Slug] = struct{}{}

		if checksums[m.Slug] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Slug)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("slug", m.Slug), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Slug, data); err != nil {
			logger.Warn("sync: index failed", slog.String("slug", m.Slug), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("slug", m.Slug))
		}
	}

	// Remove stale entries.
	for slug := range checksums {
		if _, ok := disk[slug]; !ok {
			if err := db.DeleteList(slug); err != nil {
				logger.Warn("sync: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("slug", slug))
			}
		}
	}

	return nil
}
