package order

import (
	"context"

	"github.com/google/uuid"

	domorder "example.com/food-storefront/internal/domain/order"
)

const DefaultListLimit = 20

type Service struct {
	repo domorder.Repository
}

func NewService(repo domorder.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domorder.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultListLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// Latest returns the user's newest order, the one the tracking page follows.
func (s *Service) Latest(ctx context.Context, userID uuid.UUID) (*domorder.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domorder.ErrOrderNotFound
	}
	return orders[0], nil
}

// GetForUser hides orders that belong to somebody else behind not-found.
func (s *Service) GetForUser(ctx context.Context, userID, id uuid.UUID) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) AdvanceStatus(ctx context.Context, id uuid.UUID, status domorder.Status) (*domorder.Order, error) {
	if !status.IsValid() {
		return nil, domorder.ErrInvalidStatus
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanAdvanceTo(status) {
		return nil, domorder.ErrInvalidTransition
	}
	return s.repo.UpdateStatus(ctx, id, o.Status, status)
}
