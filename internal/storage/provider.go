// Package storage defines the shelf file-system abstraction.
package storage

import "github.com/starford/packapp/internal/models"

// Ext is the file extension of saved lists.
const Ext = ".json"

// Provider is the interface for shelf file operations. Lists are addressed by
// slug and live directly under the shelf root as <slug>.json.
type Provider interface {
	// List returns metadata for every saved list.
	List() ([]models.ListMeta, error)
	// Read returns the raw bytes of the list with slug.
	Read(slug string) ([]byte, error)
	// Write atomically writes content for slug.
	Write(slug string, content []byte) error
	// Delete removes the list with slug.
	Delete(slug string) error
	// Move renames the list oldSlug to newSlug.
	Move(oldSlug, newSlug string) error
	// ReadKey and WriteKey give byte access to auxiliary state kept beside
	// the lists, such as the flat item store.
	ReadKey(key string) ([]byte, error)
	WriteKey(key string, content []byte) error
}
