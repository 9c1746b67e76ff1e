package catalog

import (
	"context"

	dommenu "example.com/food-storefront/internal/domain/menu"
)

// MemoryRepository serves a fixed menu, in file order.
type MemoryRepository struct {
	items []*dommenu.Item
	byID  map[int64]*dommenu.Item
}

func NewMemoryRepository(items []*dommenu.Item) *MemoryRepository {
	r := &MemoryRepository{
		items: items,
		byID:  make(map[int64]*dommenu.Item, len(items)),
	}
	for _, it := range items {
		r.byID[it.ID] = it
	}
	return r
}

func (r *MemoryRepository) List(context.Context) ([]*dommenu.Item, error) {
	out := make([]*dommenu.Item, len(r.items))
	for i, it := range r.items {
		cp := *it
		out[i] = &cp
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*dommenu.Item, error) {
	it, ok := r.byID[id]
	if !ok {
		return nil, dommenu.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}
