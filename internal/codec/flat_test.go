package codec

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/starford/packapp/internal/apperr"
	"github.com/starford/packapp/internal/packing"
)

type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failPut bool
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) ReadKey(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", key, os.ErrNotExist)
	}
	return v, nil
}

func (m *memKV) WriteKey(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("disk full")
	}
	m.data[key] = data
	return nil
}

func TestFlatStore_EmptyByDefault(t *testing.T) {
	s := NewFlatStore(newMemKV())
	items, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %#v, want empty slice", items)
	}
}

func TestFlatStore_AddToggleDelete(t *testing.T) {
	kv := newMemKV()
	s := NewFlatStore(kv)

	a, err := s.Add("  Sunscreen ")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "Sunscreen" || a.Checked || a.ID == "" {
		t.Errorf("added = %+v", a)
	}
	b, err := s.Add("Hat")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("   "); !errors.Is(err, packing.ErrInvalidName) {
		t.Errorf("blank add err = %v", err)
	}

	toggled, err := s.Toggle(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !toggled.Checked {
		t.Error("toggle should check")
	}

	items, _ := s.Load()
	if p := Progress(items); p.PackedCount != 1 || p.TotalCount != 2 {
		t.Errorf("progress = %+v", p)
	}

	if err := s.Delete(b.ID); err != nil {
		t.Fatal(err)
	}
	items, _ = s.Load()
	if len(items) != 1 || items[0].ID != a.ID {
		t.Errorf("items after delete = %+v", items)
	}

	// Persisted as a plain array under the fixed key.
	stored, err := UnmarshalFlat(kv.data[FlatStoreKey])
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || !stored[0].Checked {
		t.Errorf("stored = %+v", stored)
	}
}

func TestFlatStore_MissingIDs(t *testing.T) {
	s := NewFlatStore(newMemKV())
	if _, err := s.Toggle("ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("toggle err = %v", err)
	}
	if err := s.Delete("ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("delete err = %v", err)
	}
}

func TestFlatStore_SaveFailure(t *testing.T) {
	kv := newMemKV()
	kv.failPut = true
	s := NewFlatStore(kv)
	if _, err := s.Add("x"); !errors.Is(err, apperr.ErrSaveFailed) {
		t.Errorf("err = %v, want ErrSaveFailed", err)
	}
}

func TestUnmarshalFlat(t *testing.T) {
	items, err := UnmarshalFlat([]byte(`[{"id":"1","name":"a","checked":true},{"id":"2","name":"b"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || !items[0].Checked || items[1].Checked {
		t.Errorf("items = %+v", items)
	}
	for _, bad := range []string{`{}`, `[{"name":"x"}]`, `[{"id":"1","name":"a"},{"id":"1","name":"b"}]`, `nope`} {
		if _, err := UnmarshalFlat([]byte(bad)); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("UnmarshalFlat(%s) err = %v", bad, err)
		}
	}
	empty, err := UnmarshalFlat([]byte(`null`))
	if err != nil || empty == nil {
		t.Errorf("null = %#v, %v", empty, err)
	}
}
