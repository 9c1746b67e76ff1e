package favorite

import (
	"context"

	"github.com/google/uuid"

	domfavorite "example.com/food-storefront/internal/domain/favorite"
	dommenu "example.com/food-storefront/internal/domain/menu"
)

type Catalog interface {
	Get(ctx context.Context, id int64) (*dommenu.Item, error)
}

type Service struct {
	repo    domfavorite.Repository
	catalog Catalog
}

func NewService(repo domfavorite.Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*domfavorite.Favorite, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID uuid.UUID, menuItemID int64) error {
	if _, err := s.catalog.Get(ctx, menuItemID); err != nil {
		return err
	}
	return s.repo.Add(ctx, userID, menuItemID)
}

func (s *Service) Remove(ctx context.Context, userID uuid.UUID, menuItemID int64) error {
	return s.repo.Remove(ctx, userID, menuItemID)
}
