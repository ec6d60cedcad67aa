package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/starford/packapp/internal/apperr"
	"github.com/starford/packapp/internal/packing"
)

// FlatStoreKey is the fixed key the flat list is stored under.
const FlatStoreKey = "packapp-items"

// FlatItem is an entry of the single-level list variant.
type FlatItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// FlatProgress counts packed entries of the flat list.
type FlatProgress struct {
	PackedCount int `json:"packed_count"`
	TotalCount  int `json:"total_count"`
}

// MarshalFlat writes items as a JSON array; nil becomes [].
func MarshalFlat(items []FlatItem) ([]byte, error) {
	if items == nil {
		items = []FlatItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode flat list: %w", err)
	}
	return data, nil
}

// UnmarshalFlat parses a flat list and rejects entries without an id.
func UnmarshalFlat(data []byte) ([]FlatItem, error) {
	var items []FlatItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &DecodeError{Stage: "json", Err: err}
	}
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return nil, schemaErr("[%d]: id is required", i)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, schemaErr("[%d]: duplicate id %q", i, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	if items == nil {
		items = []FlatItem{}
	}
	return items, nil
}

// KV is the byte store behind FlatStore. ReadKey must return an error wrapping
// os.ErrNotExist for a key that was never written.
type KV interface {
	ReadKey(key string) ([]byte, error)
	WriteKey(key string, data []byte) error
}

// FlatStore persists the flat list under FlatStoreKey. Every mutation is a
// read-modify-write of the whole array, serialized by the store.
type FlatStore struct {
	mu sync.Mutex
	kv KV
}

// NewFlatStore creates a FlatStore on top of kv.
func NewFlatStore(kv KV) *FlatStore {
	return &FlatStore{kv: kv}
}

// Load returns the stored list, or an empty list if nothing was saved yet.
func (s *FlatStore) Load() ([]FlatItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add appends an unchecked entry. The name is trimmed and must not be empty.
func (s *FlatStore) Add(name string) (FlatItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FlatItem{}, packing.ErrInvalidName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return FlatItem{}, err
	}
	it := FlatItem{ID: packing.NewID(), Name: name}
	if err := s.save(append(items, it)); err != nil {
		return FlatItem{}, err
	}
	return it, nil
}

// Toggle flips the checked flag of the entry with id.
func (s *FlatStore) Toggle(id string) (FlatItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return FlatItem{}, err
	}
	for i := range items {
		if items[i].ID == id {
			items[i].Checked = !items[i].Checked
			if err := s.save(items); err != nil {
				return FlatItem{}, err
			}
			return items[i], nil
		}
	}
	return FlatItem{}, &packing.NotFoundError{Kind: "item", ID: id}
}

// Delete removes the entry with id.
func (s *FlatStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	kept := make([]FlatItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return &packing.NotFoundError{Kind: "item", ID: id}
	}
	return s.save(kept)
}

// Progress summarizes items.
func Progress(items []FlatItem) FlatProgress {
	p := FlatProgress{TotalCount: len(items)}
	for _, it := range items {
		if it.Checked {
			p.PackedCount++
		}
	}
	return p
}

func (s *FlatStore) load() ([]FlatItem, error) {
	data, err := s.kv.ReadKey(FlatStoreKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []FlatItem{}, nil
		}
		return nil, err
	}
	return UnmarshalFlat(data)
}

func (s *FlatStore) save(items []FlatItem) error {
	data, err := MarshalFlat(items)
	if err != nil {
		return err
	}
	if err := s.kv.WriteKey(FlatStoreKey, data); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrSaveFailed, err)
	}
	return nil
}
