package orderstore

import (
	"context"
	"sync"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
)

type EventType string

const (
	EventAdded         EventType = "added"
	EventStatusChanged EventType = "status_changed"
)

type Event struct {
	Type    EventType
	OrderID string
	Status  domain.OrderStatus
}

var _ ports.OrderStore = (*Observed)(nil)

// Observed publishes an Event for every successful write to the wrapped
// store. Slow subscribers miss events rather than block writers.
type Observed struct {
	ports.OrderStore

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewObserved(store ports.OrderStore) *Observed {
	return &Observed{
		OrderStore: store,
		subs:       make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel of events that is closed when ctx is done.
func (o *Observed) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)
	o.mu.Lock()
	o.subs[ch] = struct{}{}
	o.mu.Unlock()

	go func() {
		<-ctx.Done()
		o.mu.Lock()
		delete(o.subs, ch)
		close(ch)
		o.mu.Unlock()
	}()
	return ch
}

func (o *Observed) Add(ctx context.Context, order domain.Order) error {
	if err := o.OrderStore.Add(ctx, order); err != nil {
		return err
	}
	o.publish(Event{Type: EventAdded, OrderID: order.ID, Status: order.Status})
	return nil
}

func (o *Observed) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) (domain.Order, error) {
	updated, err := o.OrderStore.UpdateStatus(ctx, id, status, trackingNumber)
	if err != nil {
		return updated, err
	}
	o.publish(Event{Type: EventStatusChanged, OrderID: id, Status: status})
	return updated, nil
}

func (o *Observed) publish(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for ch := range o.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
