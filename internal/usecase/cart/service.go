package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domcart "example.com/food-storefront/internal/domain/cart"
	dommenu "example.com/food-storefront/internal/domain/menu"
	domorder "example.com/food-storefront/internal/domain/order"
)

type Catalog interface {
	Get(ctx context.Context, id int64) (*dommenu.Item, error)
}

type Summary struct {
	Key         string
	Items       []domcart.LineItem
	TotalItems  int64
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

type session struct {
	cart     *domcart.Cart
	lastSeen time.Time
}

// Service owns the carts of all live sessions. A cart is created (or
// restored from the snapshot store) by Open and torn down by Close or by the
// idle sweep.
type Service struct {
	catalog Catalog
	store   domcart.SnapshotStore
	fee     decimal.Decimal
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewService builds the session registry. store may be nil, in which case
// carts only live in memory.
func NewService(catalog Catalog, store domcart.SnapshotStore, fee decimal.Decimal, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:  catalog,
		store:    store,
		fee:      fee,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *Service) Open(ctx context.Context, key string) *domcart.Cart {
	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		sess.lastSeen = s.now()
		s.mu.Unlock()
		return sess.cart
	}
	s.mu.Unlock()

	c := domcart.New(key)
	if s.store != nil {
		lines, err := s.store.Load(ctx, key)
		switch {
		case err == nil:
			c.Restore(lines)
		case errors.Is(err, domcart.ErrSnapshotNotFound):
		default:
			s.logger.WarnContext(ctx, "cart snapshot load failed", "session", key, "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// another request may have opened the same session meanwhile
	if sess, ok := s.sessions[key]; ok {
		sess.lastSeen = s.now()
		return sess.cart
	}
	s.sessions[key] = &session{cart: c, lastSeen: s.now()}
	return c
}

func (s *Service) Close(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "cart snapshot delete failed", "session", key, "error", err)
		}
	}
}

func (s *Service) Add(ctx context.Context, key string, menuItemID int64) (*Summary, error) {
	item, err := s.catalog.Get(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	c := s.Open(ctx, key)
	c.Add(item.CatalogItem())
	s.Save(ctx, c)
	return s.summarize(c), nil
}

func (s *Service) Remove(ctx context.Context, key string, id int64) *Summary {
	c := s.Open(ctx, key)
	c.Remove(id)
	s.Save(ctx, c)
	return s.summarize(c)
}

func (s *Service) UpdateQuantity(ctx context.Context, key string, id int64, quantity int64) *Summary {
	c := s.Open(ctx, key)
	c.UpdateQuantity(id, quantity)
	s.Save(ctx, c)
	return s.summarize(c)
}

func (s *Service) Clear(ctx context.Context, key string) *Summary {
	c := s.Open(ctx, key)
	c.Clear()
	s.Save(ctx, c)
	return s.summarize(c)
}

func (s *Service) View(ctx context.Context, key string) *Summary {
	return s.summarize(s.Open(ctx, key))
}

// Save writes the cart's current lines to the snapshot store. Failures are
// logged; the in-memory cart stays authoritative.
func (s *Service) Save(ctx context.Context, c *domcart.Cart) {
	if s.store == nil {
		return
	}
	var err error
	if c.IsEmpty() {
		err = s.store.Delete(ctx, c.Key())
	} else {
		err = s.store.Save(ctx, c.Key(), c.Items())
	}
	if err != nil {
		s.logger.WarnContext(ctx, "cart snapshot save failed", "session", c.Key(), "error", err)
	}
}

// Sweep drops sessions idle for longer than maxIdle from memory and returns
// how many were dropped. Snapshots are left to expire in the store.
func (s *Service) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, key)
			n++
		}
	}
	return n
}

func (s *Service) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				s.logger.Info("idle carts released", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) summarize(c *domcart.Cart) *Summary {
	contents := c.Contents()
	fee := domorder.DeliveryFee(s.fee, len(contents.Items) > 0)
	return &Summary{
		Key:         c.Key(),
		Items:       contents.Items,
		TotalItems:  contents.TotalItems,
		Subtotal:    contents.Subtotal,
		DeliveryFee: fee,
		Total:       contents.Subtotal.Add(fee),
	}
}
