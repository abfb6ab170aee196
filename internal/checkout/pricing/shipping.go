// Package pricing holds the shipping method table and the price aggregator
// used by checkout. Amounts are whole currency units.
package pricing

const (
	FreeStandardThreshold   = 2000
	ReducedExpressThreshold = 5000

	standardFee       = 100
	expressFee        = 250
	expressReducedFee = 150
	overnightFee      = 500
)

const PickupLocation = "Collect from our flagship store, 12 Market Street, open daily 10:00-21:00"

// Method is a shipping option priced for a given subtotal.
type Method struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	EstimatedDays  string `json:"estimatedDays"`
	Icon           string `json:"icon"`
	PickupLocation string `json:"pickupLocation,omitempty"`
}

type methodRule struct {
	id, name, description, estimatedDays, icon string
	price                                      func(subtotal int64) int64
	pickup                                     bool
}

var methodTable = []methodRule{
	{
		id:            "standard",
		name:          "Standard Delivery",
		description:   "Free on orders over 2000",
		estimatedDays: "5-7 business days",
		icon:          "truck",
		price: func(subtotal int64) int64 {
			if subtotal >= FreeStandardThreshold {
				return 0
			}
			return standardFee
		},
	},
	{
		id:            "express",
		name:          "Express Delivery",
		description:   "Reduced rate on orders over 5000",
		estimatedDays: "2-3 business days",
		icon:          "zap",
		price: func(subtotal int64) int64 {
			if subtotal >= ReducedExpressThreshold {
				return expressReducedFee
			}
			return expressFee
		},
	},
	{
		id:            "overnight",
		name:          "Overnight Delivery",
		description:   "Delivered the next morning",
		estimatedDays: "24 hours",
		icon:          "moon",
		price:         func(int64) int64 { return overnightFee },
	},
	{
		id:            "pickup",
		name:          "Store Pickup",
		description:   "Pick up in store at no cost",
		estimatedDays: "Ready in 2 hours",
		icon:          "store",
		price:         func(int64) int64 { return 0 },
		pickup:        true,
	},
}

// Methods returns every shipping method priced for subtotal, in table order.
func Methods(subtotal int64) []Method {
	out := make([]Method, 0, len(methodTable))
	for _, r := range methodTable {
		out = append(out, r.priced(subtotal))
	}
	return out
}

// Lookup returns the method with the given id priced for subtotal.
func Lookup(id string, subtotal int64) (Method, bool) {
	for _, r := range methodTable {
		if r.id == id {
			return r.priced(subtotal), true
		}
	}
	return Method{}, false
}

// DefaultMethodID is preselected when a checkout starts.
const DefaultMethodID = "standard"

func (r methodRule) priced(subtotal int64) Method {
	m := Method{
		ID:            r.id,
		Name:          r.name,
		Description:   r.description,
		Price:         r.price(subtotal),
		EstimatedDays: r.estimatedDays,
		Icon:          r.icon,
	}
	if r.pickup {
		m.PickupLocation = PickupLocation
	}
	return m
}
