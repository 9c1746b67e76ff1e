package menu

import (
	"context"

	dommenu "example.com/food-storefront/internal/domain/menu"
)

type Service struct {
	repo dommenu.Repository
}

func NewService(repo dommenu.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter dommenu.Filter) ([]*dommenu.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*dommenu.Item, 0, len(items))
	for _, it := range items {
		if filter.Matches(it) {
			result = append(result, it)
		}
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*dommenu.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// Categories returns "All" followed by each category in the order it first
// appears in the menu.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	categories := []string{dommenu.CategoryAll}
	for _, it := range items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		categories = append(categories, it.Category)
	}
	return categories, nil
}
