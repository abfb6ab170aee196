package orderstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
)

const cacheOpOrder = "order"

var _ ports.OrderStore = (*Cached)(nil)

// Cached serves Get from a read-through cache. Cache failures are logged and
// never fail the underlying operation.
type Cached struct {
	ports.OrderStore
	cache cache.Cache
	ttl   time.Duration
}

func NewCached(store ports.OrderStore, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{OrderStore: store, cache: c, ttl: ttl}
}

func (c *Cached) Get(ctx context.Context, id string) (domain.Order, error) {
	key := c.cache.GenerateKey(cacheOpOrder, id)
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "order cache read failed", "order_id", id, "error", err)
	}
	if raw != "" {
		var o domain.Order
		if err := json.Unmarshal([]byte(raw), &o); err == nil {
			return o, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cached order", "order_id", id)
	}

	o, err := c.OrderStore.Get(ctx, id)
	if err != nil {
		return o, err
	}
	c.put(ctx, o)
	return o, nil
}

func (c *Cached) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) (domain.Order, error) {
	o, err := c.OrderStore.UpdateStatus(ctx, id, status, trackingNumber)
	if err != nil {
		if delErr := c.cache.Delete(ctx, c.cache.GenerateKey(cacheOpOrder, id)); delErr != nil {
			slog.WarnContext(ctx, "order cache evict failed", "order_id", id, "error", delErr)
		}
		return o, err
	}
	c.put(ctx, o)
	return o, nil
}

func (c *Cached) put(ctx context.Context, o domain.Order) {
	b, err := json.Marshal(o)
	if err != nil {
		slog.WarnContext(ctx, "order cache encode failed", "order_id", o.ID, "error", err)
		return
	}
	if err := c.cache.Set(ctx, c.cache.GenerateKey(cacheOpOrder, o.ID), string(b), c.ttl); err != nil {
		slog.WarnContext(ctx, "order cache write failed", "order_id", o.ID, "error", err)
	}
}
