package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	domorder "example.com/food-storefront/internal/domain/order"
)

type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a probe.
	OpenTimeout time.Duration
}

// OrderRepository guards order inserts with a circuit breaker so a failing
// database rejects checkouts fast. Reads and status updates pass through.
type OrderRepository struct {
	next domorder.Repository
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewOrderRepository(next domorder.Repository, s BreakerSettings, logger *slog.Logger) *OrderRepository {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "order-insert",
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &OrderRepository{next: next, cb: cb}
}

func (r *OrderRepository) Insert(ctx context.Context, o *domorder.Order) error {
	_, err := r.cb.Execute(func() (struct{}, error) {
		return struct{}{}, r.next.Insert(ctx, o)
	})
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domorder.Order, error) {
	return r.next.GetByID(ctx, id)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domorder.Order, error) {
	return r.next.ListByUser(ctx, userID, limit)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domorder.Status) (*domorder.Order, error) {
	return r.next.UpdateStatus(ctx, id, from, to)
}

func (r *OrderRepository) State() gobreaker.State {
	return r.cb.State()
}
