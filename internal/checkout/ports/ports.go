// Package ports declares the collaborators the checkout depends on. The
// concrete carts, order stores and notification feeds live in their own
// packages and are injected at startup.
package ports

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=ports

import (
	"context"
	"errors"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order id already exists")
	ErrCartNotFound   = errors.New("cart not found")
)

// CartProvider exposes the cart a checkout reads from and clears on success.
type CartProvider interface {
	Snapshot(ctx context.Context, cartID string) (domain.CartSnapshot, error)
	Clear(ctx context.Context, cartID string) error
}

// OrderStore holds placed orders. List returns orders in placement order.
type OrderStore interface {
	Add(ctx context.Context, order domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) (domain.Order, error)
}

// Notifier surfaces transient messages to the customer.
type Notifier interface {
	Show(ctx context.Context, kind domain.NotificationKind, title, message string)
}
