// Package cart is the in-memory cart the checkout reads from.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
	"github.com/jcmexdev/storefront/internal/checkout/pricing"
)

var (
	ErrLineNotFound     = errors.New("cart line not found")
	ErrInvalidLine      = errors.New("invalid cart line")
	ErrInvalidPromo     = errors.New("invalid promo code")
	ErrPromoNotEligible = errors.New("promo code not eligible for this subtotal")
)

// DefaultMaxQuantity applies to lines added without a stock limit.
const DefaultMaxQuantity = 10

type cart struct {
	lines []domain.CartLine
	promo string
}

type Service struct {
	mu    sync.RWMutex
	carts map[string]*cart
}

var _ ports.CartProvider = (*Service)(nil)

func NewService() *Service {
	return &Service{carts: make(map[string]*cart)}
}

// Create opens an empty cart and returns its id.
func (s *Service) Create(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.carts[id] = &cart{}
	return id
}

func (s *Service) Snapshot(ctx context.Context, cartID string) (domain.CartSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[cartID]
	if !ok {
		return domain.CartSnapshot{}, fmt.Errorf("cart: snapshot %s: %w", cartID, ports.ErrCartNotFound)
	}
	return snapshot(cartID, c), nil
}

// AddLine merges into an existing line with the same product, color and
// size; otherwise it appends a new line. Quantities are clamped to
// [1, MaxQuantity].
func (s *Service) AddLine(ctx context.Context, cartID string, line domain.CartLine) (domain.CartSnapshot, error) {
	if line.ID == "" || line.Price < 0 {
		return domain.CartSnapshot{}, fmt.Errorf("cart: add line: %w", ErrInvalidLine)
	}
	if line.MaxQuantity <= 0 {
		line.MaxQuantity = DefaultMaxQuantity
	}

	return s.mutate(cartID, "add line", func(c *cart) error {
		for i := range c.lines {
			l := &c.lines[i]
			if l.ID == line.ID && l.Color == line.Color && l.Size == line.Size {
				l.Quantity = clamp(l.Quantity+line.Quantity, l.MaxQuantity)
				return nil
			}
		}
		line.LineID = uuid.NewString()
		line.Quantity = clamp(line.Quantity, line.MaxQuantity)
		c.lines = append(c.lines, line)
		return nil
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, cartID, lineID string, quantity int) (domain.CartSnapshot, error) {
	return s.mutate(cartID, "update quantity", func(c *cart) error {
		for i := range c.lines {
			if c.lines[i].LineID == lineID {
				c.lines[i].Quantity = clamp(quantity, c.lines[i].MaxQuantity)
				return nil
			}
		}
		return ErrLineNotFound
	})
}

func (s *Service) RemoveLine(ctx context.Context, cartID, lineID string) (domain.CartSnapshot, error) {
	return s.mutate(cartID, "remove line", func(c *cart) error {
		for i := range c.lines {
			if c.lines[i].LineID == lineID {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
				return nil
			}
		}
		return ErrLineNotFound
	})
}

// ApplyPromo attaches a promo code. An empty code removes the current one.
func (s *Service) ApplyPromo(ctx context.Context, cartID, code string) (domain.CartSnapshot, error) {
	return s.mutate(cartID, "apply promo", func(c *cart) error {
		if code == "" {
			c.promo = ""
			return nil
		}
		p, ok := LookupPromo(code)
		if !ok {
			return ErrInvalidPromo
		}
		if !p.Eligible(subtotal(c.lines)) {
			return ErrPromoNotEligible
		}
		c.promo = p.Code
		return nil
	})
}

// Clear empties the cart and drops its promo code. The cart id stays valid.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	_, err := s.mutate(cartID, "clear", func(c *cart) error {
		c.lines = nil
		c.promo = ""
		return nil
	})
	return err
}

func (s *Service) Delete(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[cartID]; !ok {
		return fmt.Errorf("cart: delete %s: %w", cartID, ports.ErrCartNotFound)
	}
	delete(s.carts, cartID)
	return nil
}

func (s *Service) mutate(cartID, op string, fn func(*cart) error) (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return domain.CartSnapshot{}, fmt.Errorf("cart: %s %s: %w", op, cartID, ports.ErrCartNotFound)
	}
	working := cart{lines: append([]domain.CartLine(nil), c.lines...), promo: c.promo}
	if err := fn(&working); err != nil {
		return domain.CartSnapshot{}, fmt.Errorf("cart: %s %s: %w", op, cartID, err)
	}
	*c = working
	return snapshot(cartID, c), nil
}

// snapshot derives every total from the lines. A promo whose minimum is no
// longer met stays attached but deducts nothing.
func snapshot(cartID string, c *cart) domain.CartSnapshot {
	snap := domain.CartSnapshot{
		CartID:    cartID,
		Lines:     append([]domain.CartLine{}, c.lines...),
		PromoCode: c.promo,
	}
	for _, l := range c.lines {
		snap.Subtotal += l.Subtotal()
		snap.OriginalSubtotal += l.OriginalSubtotal()
	}
	snap.Savings = snap.OriginalSubtotal - snap.Subtotal

	if !snap.Empty() {
		if m, ok := pricing.Lookup(pricing.DefaultMethodID, snap.Subtotal); ok {
			snap.ShippingEstimate = m.Price
		}
	}
	if p, ok := LookupPromo(c.promo); ok && p.Eligible(snap.Subtotal) {
		snap.PromoDiscount = p.Discount
	}
	snap.Total = snap.Subtotal + snap.ShippingEstimate - snap.PromoDiscount
	return snap
}

func subtotal(lines []domain.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func clamp(q, max int) int {
	if q < 1 {
		return 1
	}
	if q > max {
		return max
	}
	return q
}
