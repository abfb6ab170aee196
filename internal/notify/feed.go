// Package notify keeps the transient notifications shown to the customer.
// Entries expire after a TTL; rendering them is up to the client.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID        string                  `json:"id"`
	Kind      domain.NotificationKind `json:"kind"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	CreatedAt time.Time               `json:"createdAt"`
	ExpiresAt time.Time               `json:"expiresAt"`
}

type Feed struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	ttl     time.Duration
	entries []Notification
}

var _ ports.Notifier = (*Feed)(nil)

func NewFeed(clock clockwork.Clock, ttl time.Duration) *Feed {
	return &Feed{clock: clock, ttl: ttl}
}

func (f *Feed) Show(ctx context.Context, kind domain.NotificationKind, title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(f.ttl),
	}
	f.prune(now)
	f.entries = append(f.entries, n)
	slog.InfoContext(ctx, "notification shown", "id", n.ID, "kind", kind, "title", title)
}

// Active returns unexpired notifications, oldest first.
func (f *Feed) Active() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prune(f.clock.Now())
	return append([]Notification{}, f.entries...)
}

func (f *Feed) Dismiss(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, n := range f.entries {
		if n.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (f *Feed) prune(now time.Time) {
	kept := f.entries[:0]
	for _, n := range f.entries {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	f.entries = kept
}
