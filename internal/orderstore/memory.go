// Package orderstore holds placed orders. The in-memory store is the default;
// the sqlite subpackage persists orders, and Cached / Observed decorate any
// ports.OrderStore.
package orderstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
)

var _ ports.OrderStore = (*Memory)(nil)

type Memory struct {
	mu     sync.RWMutex
	clock  clockwork.Clock
	orders map[string]*domain.Order
	seq    []string
}

func NewMemory(clock clockwork.Clock) *Memory {
	return &Memory{
		clock:  clock,
		orders: make(map[string]*domain.Order),
	}
}

func (s *Memory) Add(ctx context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("orderstore: add %s: %w", order.ID, ports.ErrDuplicateOrder)
	}
	o := order.Clone()
	s.orders[o.ID] = &o
	s.seq = append(s.seq, o.ID)
	return nil
}

func (s *Memory) List(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, len(s.seq))
	for _, id := range s.seq {
		out = append(out, s.orders[id].Clone())
	}
	return out, nil
}

func (s *Memory) Get(ctx context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("orderstore: get %s: %w", id, ports.ErrOrderNotFound)
	}
	return o.Clone(), nil
}

// UpdateStatus sets the status, appends it to the timeline and, when given,
// records the carrier tracking number.
func (s *Memory) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("orderstore: update %s: %w", id, ports.ErrOrderNotFound)
	}
	ApplyStatus(o, status, trackingNumber, s.clock.Now())
	return o.Clone(), nil
}

// ApplyStatus is the status transition shared by every store implementation.
func ApplyStatus(o *domain.Order, status domain.OrderStatus, trackingNumber string, at time.Time) {
	o.Status = status
	if trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	o.Timeline = append(o.Timeline, domain.TimelineEntry{Status: string(status), Date: at})
}
