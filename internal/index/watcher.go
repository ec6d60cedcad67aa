package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/packapp/internal/checksum"
	"github.com/starford/packapp/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, slug string)

// Watch starts an fsnotify watcher on the shelf root and processes list file
// changes until ctx is cancelled. It calls cb (if non-nil) after each index
// mutation. Writes whose checksum already matches the index (for example
// those made through the service) are skipped without a callback.
//
// Rename events trigger a reconciliation pass that removes stale index
// entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, shelfRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(shelfRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", shelfRoot))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	notify := func(kind, slug string) {
		if cb != nil {
			cb(kind, slug)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, logger, notify)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !storage.IsListFile(name) {
				continue
			}
			slug := storage.SlugOf(name)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(slug)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("slug", slug), slog.String("error", readErr.Error()))
					continue
				}
				known, _ := db.GetChecksum(slug)
				if known == checksum.Sum(data) {
					continue
				}
				if idxErr := indexFile(db, slug, data); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("slug", slug), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if known == "" {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("slug", slug), slog.String("op", kind))
				notify(kind, slug)

			case ev.Op&fsnotify.Remove != 0:
				if dropIndexed(db, slug, logger) {
					notify("deleted", slug)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only; the new name
				// arrives as a Create if it stays in the shelf.
				if dropIndexed(db, slug, logger) {
					notify("deleted", slug)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// dropIndexed removes slug from the index and reports whether it was there.
func dropIndexed(db *DB, slug string, logger *slog.Logger) bool {
	known, _ := db.GetChecksum(slug)
	if known == "" {
		return false
	}
	if err := db.DeleteList(slug); err != nil {
		logger.Warn("watcher: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
		return false
	}
	logger.Debug("watcher: deleted", slog.String("slug", slug))
	return true
}

// reconcile removes index entries without a file on disk and indexes files
// that are missing or outdated in the index.
func reconcile(db *DB, store storage.Provider, logger *slog.Logger, notify EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := store.List()
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Slug] = m.Checksum
	}

	for slug := range checksums {
		if _, ok := disk[slug]; !ok {
			if delErr := db.DeleteList(slug); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("slug", slug))
				notify("deleted", slug)
			}
		}
	}

	for slug, cs := range disk {
		known, indexed := checksums[slug]
		if known == cs {
			continue
		}
		data, readErr := store.Read(slug)
		if readErr != nil {
			continue
		}
		if idxErr := indexFile(db, slug, data); idxErr == nil {
			kind := "created"
			if indexed {
				kind = "updated"
			}
			logger.Debug("reconcile: indexed", slog.String("slug", slug))
			notify(kind, slug)
		}
	}
}
