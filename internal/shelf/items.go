package shelf

import (
	"context"

	"github.com/starford/packapp/internal/codec"
)

// ItemList is the flat list together with its progress.
type ItemList struct {
	Items    []codec.FlatItem   `json:"items"`
	Progress codec.FlatProgress `json:"progress"`
}

// Items returns the flat list.
func (s *Service) Items(_ context.Context) (ItemList, error) {
	items, err := s.items.Load()
	if err != nil {
		return ItemList{}, err
	}
	return ItemList{Items: items, Progress: codec.Progress(items)}, nil
}

// AddItem appends an unchecked entry to the flat list.
func (s *Service) AddItem(ctx context.Context, name string) (codec.FlatItem, error) {
	it, err := s.items.Add(name)
	if err != nil {
		return codec.FlatItem{}, err
	}
	s.publishItems(ctx)
	return it, nil
}

// ToggleItem flips a flat entry.
func (s *Service) ToggleItem(ctx context.Context, id string) (codec.FlatItem, error) {
	it, err := s.items.Toggle(id)
	if err != nil {
		return codec.FlatItem{}, err
	}
	s.publishItems(ctx)
	return it, nil
}

// DeleteItem removes a flat entry.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.items.Delete(id); err != nil {
		return err
	}
	s.publishItems(ctx)
	return nil
}

func (s *Service) publishItems(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	list, err := s.Items(ctx)
	if err != nil {
		return
	}
	s.notifier.PublishItemsEvent(list.Progress.PackedCount, list.Progress.TotalCount)
}
