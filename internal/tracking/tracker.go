package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
)

// Tracker looks orders up and follows them while they change.
type Tracker struct {
	store ports.OrderStore
	clock clockwork.Clock
}

func NewTracker(store ports.OrderStore, clock clockwork.Clock) *Tracker {
	return &Tracker{store: store, clock: clock}
}

// Lookup runs Find over every stored order.
func (t *Tracker) Lookup(ctx context.Context, query string) (domain.Order, error) {
	orders, err := t.store.List(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("tracking: lookup: %w", err)
	}
	o, ok := Find(orders, query)
	if !ok {
		return domain.Order{}, fmt.Errorf("tracking: lookup %q: %w", query, ports.ErrOrderNotFound)
	}
	return o, nil
}

// Watch emits the current snapshot of order id, then polls every interval
// and emits again whenever its status or timeline length changes. The
// channel closes when ctx is done or the order disappears. The initial
// lookup error is returned synchronously.
func (t *Tracker) Watch(ctx context.Context, id string, interval time.Duration) (<-chan domain.Order, error) {
	current, err := t.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tracking: watch %s: %w", id, err)
	}

	out := make(chan domain.Order, 1)
	out <- current

	go func() {
		defer close(out)
		ticker := t.clock.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
			}

			next, err := t.store.Get(ctx, id)
			if err != nil {
				slog.WarnContext(ctx, "stopping order watch", "order_id", id, "error", err)
				return
			}
			if !changed(current, next) {
				continue
			}
			current = next
			select {
			case out <- next:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func changed(prev, next domain.Order) bool {
	return prev.Status != next.Status ||
		len(prev.Timeline) != len(next.Timeline) ||
		prev.TrackingNumber != next.TrackingNumber
}
