package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/packapp/internal/checksum"
	"github.com/starford/packapp/internal/models"
)

// keyDir holds auxiliary key/value files. The leading dot keeps it out of
// List and the watcher.
const keyDir = ".store"

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to shelf directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute shelf directory.
func (f *FS) Root() string { return f.root }

// IsListFile reports whether a directory entry name is a saved list.
func IsListFile(name string) bool {
	return strings.HasSuffix(name, Ext) && !strings.HasPrefix(name, ".")
}

// SlugOf returns the slug for a list file path.
func SlugOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Ext)
}

// safePath resolves a relative path against the shelf root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("storage: empty path")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes shelf root: %s", rel)
	}
	return abs, nil
}

func (f *FS) listPath(slug string) (string, error) {
	if slug == "" || strings.ContainsAny(slug, `/\`) || strings.HasPrefix(slug, ".") {
		return "", fmt.Errorf("storage: invalid slug %q", slug)
	}
	return f.safePath(slug + Ext)
}

// List returns metadata for every list file directly under the root.
func (f *FS) List() ([]models.ListMeta, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.ListMeta
	for _, e := range entries {
		if e.IsDir() || !IsListFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		data, err := os.ReadFile(filepath.Join(f.root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		out = append(out, models.ListMeta{
			Slug:      SlugOf(e.Name()),
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a saved list.
func (f *FS) Read(slug string) ([]byte, error) {
	abs, err := f.listPath(slug)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", slug, err)
	}
	return data, nil
}

// Write atomically writes content for slug.
func (f *FS) Write(slug string, content []byte) error {
	abs, err := f.listPath(slug)
	if err != nil {
		return err
	}
	return writeAtomic(abs, content)
}

// Delete removes a saved list.
func (f *FS) Delete(slug string) error {
	abs, err := f.listPath(slug)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", slug, err)
	}
	return nil
}

// Move renames a saved list. It refuses to overwrite an existing list.
func (f *FS) Move(oldSlug, newSlug string) error {
	absOld, err := f.listPath(oldSlug)
	if err != nil {
		return err
	}
	absNew, err := f.listPath(newSlug)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absNew); err == nil {
		return fmt.Errorf("storage: move %s: %w", newSlug, os.ErrExist)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		return fmt.Errorf("storage: move: %w", err)
	}
	return nil
}

// ReadKey returns the bytes stored under key. A key that was never written
// yields an error wrapping os.ErrNotExist.
func (f *FS) ReadKey(key string) ([]byte, error) {
	abs, err := f.safePath(filepath.Join(keyDir, key+Ext))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read key %s: %w", key, err)
	}
	return data, nil
}

// WriteKey atomically stores content under key.
func (f *FS) WriteKey(key string, content []byte) error {
	abs, err := f.safePath(filepath.Join(keyDir, key+Ext))
	if err != nil {
		return err
	}
	return writeAtomic(abs, content)
}

// writeAtomic writes content: tmp file → fsync → rename.
func writeAtomic(abs string, content []byte) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".packapp-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
