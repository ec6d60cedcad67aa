// Package testutil provides shared test helpers for setting up shelves and databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/packapp/internal/index"
	"github.com/starford/packapp/internal/packing"
	"github.com/starford/packapp/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "packapp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestShelf creates a temporary shelf directory with a filesystem provider.
func TestShelf(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// HolidayDoc is a small nested document: Clothes (T-shirts packed, Swimming
// costume not) and a packed Passport.
func HolidayDoc() packing.Document {
	return packing.Document{
		Name: "Summer Holiday",
		Items: []packing.Node{
			{Kind: packing.KindList, ID: "clothes", Name: "Clothes", Items: []packing.Node{
				{Kind: packing.KindItem, ID: "shirts", Name: "T-shirts", Checked: true},
				{Kind: packing.KindItem, ID: "swimwear", Name: "Swimming costume"},
			}},
			{Kind: packing.KindItem, ID: "passport", Name: "Passport", Checked: true},
		},
	}
}
