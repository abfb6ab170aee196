package cart

import "strings"

// Promo is a flat deduction unlocked by a minimum subtotal.
type Promo struct {
	Code        string `json:"code"`
	Discount    int64  `json:"discount"`
	MinSubtotal int64  `json:"minSubtotal"`
}

var promos = []Promo{
	{Code: "WELCOME100", Discount: 100, MinSubtotal: 1000},
	{Code: "STYLE250", Discount: 250, MinSubtotal: 3000},
	{Code: "VIP500", Discount: 500, MinSubtotal: 5000},
}

// LookupPromo matches codes ignoring case and surrounding spaces.
func LookupPromo(code string) (Promo, bool) {
	code = strings.TrimSpace(code)
	for _, p := range promos {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	return Promo{}, false
}

func (p Promo) Eligible(subtotal int64) bool {
	return subtotal >= p.MinSubtotal
}
