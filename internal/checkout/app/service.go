// Package app wires the checkout flow to its collaborators: it prices the
// session, assembles the order and runs the placement pipeline.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/flow"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
	"github.com/jcmexdev/storefront/internal/checkout/pricing"
	"github.com/jcmexdev/storefront/internal/placement"
	"github.com/jcmexdev/storefront/internal/placement/journal"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrPlacementInProgress = errors.New("order placement already in progress")
)

// RedirectPath is where the client goes once an order is placed.
const RedirectPath = "/account/orders"

type Config struct {
	// ProcessingDelay is awaited before the order is committed.
	ProcessingDelay time.Duration
	// RedirectDelay is how long the client should wait before RedirectPath.
	RedirectDelay time.Duration
}

type Service struct {
	sessions  *flow.Sessions
	validator flow.FormValidator
	carts     ports.CartProvider
	orders    ports.OrderStore
	notifier  ports.Notifier
	journal   journal.Repository // nil-safe
	clock     clockwork.Clock
	cfg       Config

	mu      sync.Mutex
	placing map[string]struct{}
}

func NewService(
	sessions *flow.Sessions,
	validator flow.FormValidator,
	carts ports.CartProvider,
	orders ports.OrderStore,
	notifier ports.Notifier,
	repo journal.Repository,
	clock clockwork.Clock,
	cfg Config,
) *Service {
	return &Service{
		sessions:  sessions,
		validator: validator,
		carts:     carts,
		orders:    orders,
		notifier:  notifier,
		journal:   repo,
		clock:     clock,
		cfg:       cfg,
		placing:   make(map[string]struct{}),
	}
}

// Summary is everything the client needs to render a checkout step.
type Summary struct {
	Session         flow.Session        `json:"session"`
	Cart            domain.CartSnapshot `json:"cart"`
	ShippingMethods []pricing.Method    `json:"shippingMethods"`
	SelectedMethod  pricing.Method      `json:"selectedMethod"`
	Pricing         pricing.Breakdown   `json:"pricing"`
}

// Placement is the result of a successful PlaceOrder.
type Placement struct {
	Order         domain.Order
	RedirectTo    string
	RedirectAfter time.Duration
}

func (s *Service) StartCheckout(ctx context.Context, cartID string) (flow.Session, error) {
	snap, err := s.carts.Snapshot(ctx, cartID)
	if err != nil {
		return flow.Session{}, fmt.Errorf("app: start checkout: %w", err)
	}
	if snap.Empty() {
		return flow.Session{}, fmt.Errorf("app: start checkout %s: %w", cartID, ErrEmptyCart)
	}
	sess := s.sessions.Create(cartID)
	slog.InfoContext(ctx, "checkout started", "session_id", sess.ID, "cart_id", cartID)
	return sess, nil
}

func (s *Service) Summary(ctx context.Context, sessionID string) (Summary, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Summary{}, fmt.Errorf("app: summary: %w", err)
	}
	return s.summarize(ctx, sess)
}

func (s *Service) SubmitShipping(ctx context.Context, sessionID string, addr domain.ShippingAddress, methodID string) (Summary, error) {
	return s.update(ctx, sessionID, "submit shipping", func(sess *flow.Session) error {
		return sess.SubmitShipping(s.validator, addr, methodID)
	})
}

func (s *Service) SubmitPayment(ctx context.Context, sessionID string, method domain.PaymentMethod, details domain.PaymentDetails) (Summary, error) {
	return s.update(ctx, sessionID, "submit payment", func(sess *flow.Session) error {
		return sess.SubmitPayment(s.validator, method, details)
	})
}

func (s *Service) SetGift(ctx context.Context, sessionID string, gift bool, message string) (Summary, error) {
	return s.update(ctx, sessionID, "set gift", func(sess *flow.Session) error {
		sess.SetGift(gift, message)
		return nil
	})
}

func (s *Service) Back(ctx context.Context, sessionID string) (Summary, error) {
	return s.update(ctx, sessionID, "back", func(sess *flow.Session) error {
		return sess.Back()
	})
}

// PlaceOrder re-validates the session, waits out the processing delay and
// commits the order through the placement pipeline. Cancelling ctx before
// the delay elapses leaves nothing persisted.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, termsAccepted bool) (Placement, error) {
	if err := s.beginPlacing(sessionID); err != nil {
		return Placement{}, err
	}
	defer s.endPlacing(sessionID)

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Placement{}, fmt.Errorf("app: place order: %w", err)
	}
	if err := sess.ReadyToPlace(s.validator, termsAccepted); err != nil {
		return Placement{}, fmt.Errorf("app: place order: %w", err)
	}

	if _, err := s.cartSnapshot(ctx, sess.CartID); err != nil {
		return Placement{}, fmt.Errorf("app: place order: %w", err)
	}

	if err := s.wait(ctx, s.cfg.ProcessingDelay); err != nil {
		return Placement{}, fmt.Errorf("app: place order: %w", err)
	}

	// The cart may have changed during the delay; order what clear_cart will remove.
	snap, err := s.cartSnapshot(ctx, sess.CartID)
	if err != nil {
		return Placement{}, fmt.Errorf("app: place order: %w", err)
	}
	order := s.assemble(ctx, sess, snap, s.clock.Now())

	var payload string
	if b, err := json.Marshal(order); err != nil {
		slog.WarnContext(ctx, "order payload not journaled", "order_id", order.ID, "error", err)
	} else {
		payload = string(b)
	}
	steps := []placement.Step{
		placement.NewStoreOrderStep(s.orders, order),
		placement.NewClearCartStep(s.carts, sess.CartID),
		placement.NewNotifyStep(s.notifier, domain.NotifySuccess,
			"Order placed successfully!",
			fmt.Sprintf("Your order %s has been confirmed.", order.ID)),
	}
	pipeline := placement.NewOrchestrator(order.ID, payload, steps, s.journal, s.clock)
	if err := pipeline.Start(ctx); err != nil {
		s.notifier.Show(ctx, domain.NotifyError, "Order failed", "We could not place your order. Please try again.")
		return Placement{}, fmt.Errorf("app: place order %s: %w", order.ID, err)
	}

	s.sessions.Delete(sessionID)
	slog.InfoContext(ctx, "order placed", "order_id", order.ID, "total", order.Payment.Total)

	return Placement{
		Order:         order,
		RedirectTo:    RedirectPath,
		RedirectAfter: s.cfg.RedirectDelay,
	}, nil
}

// cartSnapshot returns the current cart, rejecting an empty one.
func (s *Service) cartSnapshot(ctx context.Context, cartID string) (domain.CartSnapshot, error) {
	snap, err := s.carts.Snapshot(ctx, cartID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	if snap.Empty() {
		return domain.CartSnapshot{}, ErrEmptyCart
	}
	return snap, nil
}

// assemble builds the order from the session and cart as they are now.
func (s *Service) assemble(ctx context.Context, sess flow.Session, snap domain.CartSnapshot, now time.Time) domain.Order {
	method := sess.ShippingMethod(snap.Subtotal)
	breakdown := pricing.Quote(pricing.Input{
		Subtotal:      snap.Subtotal,
		ShippingCost:  method.Price,
		PromoDiscount: snap.PromoDiscount,
		GiftOrder:     sess.GiftOrder,
		PaymentType:   sess.Payment.Type,
	})
	if breakdown.Total < 0 {
		slog.WarnContext(ctx, "order total is negative",
			"session_id", sess.ID,
			"total", breakdown.Total,
			"promo_discount", breakdown.PromoDiscount,
		)
	}

	return domain.Order{
		ID:     NewOrderID(now),
		Date:   now,
		Status: domain.StatusProcessing,
		Items:  snap.OrderItems(),
		Shipping: domain.OrderShipping{
			Address:           sess.Address,
			Method:            method.Name,
			Cost:              method.Price,
			EstimatedDelivery: pricing.EstimatedDelivery(method, now),
		},
		Payment:     breakdown.Payment(sess.Payment),
		IsGiftOrder: sess.GiftOrder,
		GiftMessage: sess.GiftMessage,
		Timeline: []domain.TimelineEntry{
			{Status: domain.TimelineOrderPlaced, Date: now},
			{Status: domain.TimelinePaymentConfirmed, Date: now},
		},
	}
}

// NewOrderID is ORD-<year>-<last six digits of epoch milliseconds>.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%06d", now.Year(), now.UnixMilli()%1_000_000)
}

func (s *Service) update(ctx context.Context, sessionID, op string, fn func(*flow.Session) error) (Summary, error) {
	sess, err := s.sessions.Update(sessionID, fn)
	if err != nil {
		return Summary{}, fmt.Errorf("app: %s: %w", op, err)
	}
	return s.summarize(ctx, sess)
}

func (s *Service) summarize(ctx context.Context, sess flow.Session) (Summary, error) {
	snap, err := s.carts.Snapshot(ctx, sess.CartID)
	if err != nil {
		return Summary{}, fmt.Errorf("app: summary: %w", err)
	}
	method := sess.ShippingMethod(snap.Subtotal)
	return Summary{
		Session:         sess,
		Cart:            snap,
		ShippingMethods: pricing.Methods(snap.Subtotal),
		SelectedMethod:  method,
		Pricing: pricing.Quote(pricing.Input{
			Subtotal:      snap.Subtotal,
			ShippingCost:  method.Price,
			PromoDiscount: snap.PromoDiscount,
			GiftOrder:     sess.GiftOrder,
			PaymentType:   sess.Payment.Type,
		}),
	}, nil
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}

func (s *Service) beginPlacing(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.placing[sessionID]; busy {
		return fmt.Errorf("app: place order %s: %w", sessionID, ErrPlacementInProgress)
	}
	s.placing[sessionID] = struct{}{}
	return nil
}

func (s *Service) endPlacing(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.placing, sessionID)
}
