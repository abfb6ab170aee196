package placement

import (
	"context"
	"fmt"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
)

const (
	StepStoreOrder = "store_order"
	StepClearCart  = "clear_cart"
	StepNotify     = "notify"
)

// --- StoreOrderStep ---

type StoreOrderStep struct {
	store ports.OrderStore
	order domain.Order
}

func NewStoreOrderStep(store ports.OrderStore, order domain.Order) *StoreOrderStep {
	return &StoreOrderStep{store: store, order: order}
}

func (s *StoreOrderStep) Name() string { return StepStoreOrder }

func (s *StoreOrderStep) Execute(ctx context.Context) error {
	if err := s.store.Add(ctx, s.order); err != nil {
		return fmt.Errorf("failed to store order: %w", err)
	}
	return nil
}

// Compensate keeps the order on record but marks it cancelled.
func (s *StoreOrderStep) Compensate(ctx context.Context) error {
	_, err := s.store.UpdateStatus(ctx, s.order.ID, domain.StatusCancelled, "")
	return err
}

// --- ClearCartStep ---

type ClearCartStep struct {
	carts  ports.CartProvider
	cartID string
}

func NewClearCartStep(carts ports.CartProvider, cartID string) *ClearCartStep {
	return &ClearCartStep{carts: carts, cartID: cartID}
}

func (s *ClearCartStep) Name() string { return StepClearCart }

func (s *ClearCartStep) Execute(ctx context.Context) error {
	if err := s.carts.Clear(ctx, s.cartID); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", s.cartID, err)
	}
	return nil
}

// Compensate is a no-op: the cleared lines are already captured in the order.
func (s *ClearCartStep) Compensate(ctx context.Context) error { return nil }

// --- NotifyStep ---

type NotifyStep struct {
	notifier ports.Notifier
	kind     domain.NotificationKind
	title    string
	message  string
}

func NewNotifyStep(notifier ports.Notifier, kind domain.NotificationKind, title, message string) *NotifyStep {
	return &NotifyStep{notifier: notifier, kind: kind, title: title, message: message}
}

func (s *NotifyStep) Name() string { return StepNotify }

func (s *NotifyStep) Execute(ctx context.Context) error {
	s.notifier.Show(ctx, s.kind, s.title, s.message)
	return nil
}

func (s *NotifyStep) Compensate(ctx context.Context) error { return nil }
