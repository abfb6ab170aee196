// Package tracking answers "where is my order" queries over the order store.
package tracking

import (
	"strings"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
)

// Find resolves a free-text query against orders. Rules are tried in order
// and the first order matching the earliest rule wins:
//
//	exact id, id ignoring case, tracking number ignoring case,
//	then id containing the query or the query containing the id.
//
// An empty query matches nothing.
func Find(orders []domain.Order, query string) (domain.Order, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return domain.Order{}, false
	}
	lq := strings.ToLower(q)

	rules := []func(o domain.Order) bool{
		func(o domain.Order) bool { return o.ID == q },
		func(o domain.Order) bool { return strings.EqualFold(o.ID, q) },
		func(o domain.Order) bool {
			return o.TrackingNumber != "" && strings.EqualFold(o.TrackingNumber, q)
		},
		func(o domain.Order) bool {
			id := strings.ToLower(o.ID)
			return id != "" && (strings.Contains(id, lq) || strings.Contains(lq, id))
		},
	}

	for _, match := range rules {
		for _, o := range orders {
			if match(o) {
				return o, true
			}
		}
	}
	return domain.Order{}, false
}
