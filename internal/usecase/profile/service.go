package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domfavorite "example.com/food-storefront/internal/domain/favorite"
	domorder "example.com/food-storefront/internal/domain/order"
	domprofile "example.com/food-storefront/internal/domain/profile"
)

const RecentOrdersLimit = 5

type OrderLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domorder.Order, error)
}

type FavoriteLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]*domfavorite.Favorite, error)
}

type Service struct {
	profiles  domprofile.Repository
	orders    OrderLister
	favorites FavoriteLister
	now       func() time.Time
}

func NewService(profiles domprofile.Repository, orders OrderLister, favorites FavoriteLister) *Service {
	return &Service{
		profiles:  profiles,
		orders:    orders,
		favorites: favorites,
		now:       time.Now,
	}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domprofile.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// GetAddress returns the stored delivery address, or "" when the profile
// has none.
func (s *Service) GetAddress(ctx context.Context, userID uuid.UUID) (string, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(p.Address), nil
}

type UpdateInput struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (*domprofile.Profile, error) {
	return s.profiles.Upsert(ctx, &domprofile.Profile{
		UserID:    userID,
		FullName:  strings.TrimSpace(in.FullName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		UpdatedAt: s.now().UTC(),
	})
}

type Overview struct {
	Profile      *domprofile.Profile
	RecentOrders []*domorder.Order
	TotalSpent   decimal.Decimal
	Favorites    []*domfavorite.Favorite
}

// Overview gathers what the profile page shows. A user without a stored
// profile gets a nil Profile rather than an error.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domprofile.ErrProfileNotFound) {
		return nil, err
	}

	orders, err := s.orders.ListByUser(ctx, userID, RecentOrdersLimit)
	if err != nil {
		return nil, err
	}
	spent := decimal.Zero
	for _, o := range orders {
		spent = spent.Add(o.TotalAmount)
	}

	favorites, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Profile:      p,
		RecentOrders: orders,
		TotalSpent:   spent,
		Favorites:    favorites,
	}, nil
}
