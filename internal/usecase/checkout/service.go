package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	domcart "example.com/food-storefront/internal/domain/cart"
	domorder "example.com/food-storefront/internal/domain/order"
	domprofile "example.com/food-storefront/internal/domain/profile"
	domuser "example.com/food-storefront/internal/domain/user"
)

type IdentityProvider interface {
	CurrentUser(ctx context.Context) (*domuser.Identity, bool)
}

type AddressLookup interface {
	GetAddress(ctx context.Context, userID uuid.UUID) (string, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, o *domorder.Order) error
}

// Notifier is told about every placed order. Its errors never fail a checkout.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *domorder.Order) error
}

type Observer interface {
	ObserveCheckout(outcome string, elapsed time.Duration)
}

type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateResolvingAddress State = "resolving_address"
	StateSubmitting       State = "submitting"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

const (
	OutcomeSucceeded    = "succeeded"
	OutcomeAuthRequired = "auth_required"
	OutcomeFailed       = "repository_error"
)

type Result struct {
	Order *domorder.Order
	State State
	// Shared is set when the call joined a checkout already in flight for
	// the same cart instead of submitting its own.
	Shared bool
}

// DefaultNotifyTimeout bounds how long a successful checkout waits on its
// notifiers.
const DefaultNotifyTimeout = 5 * time.Second

type Dependencies struct {
	Identity      IdentityProvider
	Addresses     AddressLookup
	Orders        OrderRepository
	Notifiers     []Notifier
	Observer      Observer
	DeliveryFee   decimal.Decimal
	NotifyTimeout time.Duration
	Logger        *slog.Logger
}

type Service struct {
	identity  IdentityProvider
	addresses AddressLookup
	orders    OrderRepository
	notifiers []Notifier
	observer  Observer
	fee       decimal.Decimal
	logger    *slog.Logger

	notifyTimeout time.Duration

	now    func() time.Time
	newID  func() uuid.UUID
	flight singleflight.Group
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifyTimeout := deps.NotifyTimeout
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}
	return &Service{
		identity:  deps.Identity,
		addresses: deps.Addresses,
		orders:    deps.Orders,
		notifiers: deps.Notifiers,
		observer:  deps.Observer,
		fee:       deps.DeliveryFee,
		logger:    logger,

		notifyTimeout: notifyTimeout,

		now:   time.Now,
		newID: uuid.New,
	}
}

// Checkout turns the cart into a pending order. Concurrent calls by the same
// user for the same cart share one submission. On success the cart is
// cleared; on any failure it is left as it was.
func (s *Service) Checkout(ctx context.Context, c *domcart.Cart) (*Result, error) {
	started := s.now()
	log := s.logger.With("session", c.Key())
	s.enter(ctx, log, StateIdle)

	s.enter(ctx, log, StateValidating)
	identity, ok := s.identity.CurrentUser(ctx)
	if !ok || identity == nil {
		s.enter(ctx, log, StateFailed)
		s.observe(OutcomeAuthRequired, started)
		log.InfoContext(ctx, "checkout rejected", "reason", "no signed-in user")
		return nil, domorder.ErrAuthRequired
	}

	key := c.Key() + "|" + identity.UserID.String()
	v, err, shared := s.flight.Do(key, func() (any, error) {
		return s.submit(ctx, log.With("user_id", identity.UserID.String()), c, identity, started)
	})
	if err != nil {
		return nil, err
	}
	res := *v.(*Result)
	res.Shared = shared
	return &res, nil
}

func (s *Service) submit(ctx context.Context, log *slog.Logger, c *domcart.Cart, identity *domuser.Identity, started time.Time) (*Result, error) {
	s.enter(ctx, log, StateResolvingAddress)
	address := s.resolveAddress(ctx, log, identity.UserID)

	items := c.Items()
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total())
	}
	fee := domorder.DeliveryFee(s.fee, len(items) > 0)

	order := &domorder.Order{
		ID:              s.newID(),
		UserID:          identity.UserID,
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     fee,
		TotalAmount:     subtotal.Add(fee),
		DeliveryAddress: address,
		Status:          domorder.StatusPending,
		CreatedAt:       s.now().UTC(),
	}

	s.enter(ctx, log, StateSubmitting)
	if err := s.orders.Insert(ctx, order); err != nil {
		s.enter(ctx, log, StateFailed)
		s.observe(OutcomeFailed, started)
		log.ErrorContext(ctx, "order insert failed", "error", err)
		return nil, fmt.Errorf("%w: %w", domorder.ErrCheckoutFailed, err)
	}

	c.Clear()
	s.enter(ctx, log, StateSucceeded)
	s.observe(OutcomeSucceeded, started)
	log.InfoContext(ctx, "order placed",
		"order_id", order.ID.String(),
		"total_amount", order.TotalAmount.String(),
		"items", order.ItemCount(),
	)

	s.notify(ctx, log, order)

	return &Result{Order: order, State: StateSucceeded}, nil
}

// notify fans the order out to every notifier and waits at most
// notifyTimeout. Request cancellation does not reach the notifiers.
func (s *Service) notify(ctx context.Context, log *slog.Logger, order *domorder.Order) {
	if len(s.notifiers) == 0 {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, n := range s.notifiers {
		wg.Add(1)
		go func(n Notifier) {
			defer wg.Done()
			if err := n.OrderPlaced(nctx, order); err != nil {
				log.WarnContext(ctx, "order notification failed", "order_id", order.ID.String(), "error", err)
			}
		}(n)
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-nctx.Done():
		log.WarnContext(ctx, "order notification timed out", "order_id", order.ID.String(), "timeout", s.notifyTimeout.String())
	}
}

// resolveAddress falls back to the placeholder for a missing profile, an
// empty address or a failed lookup.
func (s *Service) resolveAddress(ctx context.Context, log *slog.Logger, userID uuid.UUID) string {
	if s.addresses == nil {
		return domorder.AddressNotSpecified
	}
	address, err := s.addresses.GetAddress(ctx, userID)
	if err != nil {
		if !errors.Is(err, domprofile.ErrProfileNotFound) {
			log.WarnContext(ctx, "address lookup failed", "error", err)
		}
		return domorder.AddressNotSpecified
	}
	if address == "" {
		return domorder.AddressNotSpecified
	}
	return address
}

func (s *Service) enter(ctx context.Context, log *slog.Logger, st State) {
	log.DebugContext(ctx, "checkout state", "state", string(st))
}

func (s *Service) observe(outcome string, started time.Time) {
	if s.observer != nil {
		s.observer.ObserveCheckout(outcome, s.now().Sub(started))
	}
}
