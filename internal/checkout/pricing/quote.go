package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
)

const (
	GiftWrappingFee = 50
	CODFee          = 50
)

// TaxRate is the flat rate applied to the subtotal.
var TaxRate = decimal.New(5, -2)

type Input struct {
	Subtotal      int64
	ShippingCost  int64
	PromoDiscount int64
	GiftOrder     bool
	PaymentType   domain.PaymentType
}

type Breakdown struct {
	Subtotal      int64 `json:"subtotal"`
	Shipping      int64 `json:"shipping"`
	Tax           int64 `json:"tax"`
	GiftWrapping  int64 `json:"giftWrapping"`
	PaymentFee    int64 `json:"paymentFee"`
	PromoDiscount int64 `json:"promoDiscount"`
	Total         int64 `json:"total"`
}

// Quote combines the checkout charges into a total. It is a pure function of
// in; the total is not floored, so a promo larger than every other charge
// yields a negative value.
func Quote(in Input) Breakdown {
	b := Breakdown{
		Subtotal:      in.Subtotal,
		Shipping:      in.ShippingCost,
		Tax:           Tax(in.Subtotal),
		PromoDiscount: in.PromoDiscount,
	}
	if in.GiftOrder {
		b.GiftWrapping = GiftWrappingFee
	}
	if in.PaymentType == domain.PaymentCOD {
		b.PaymentFee = CODFee
	}
	b.Total = b.Subtotal + b.Shipping + b.Tax + b.GiftWrapping + b.PaymentFee - b.PromoDiscount
	return b
}

// Tax rounds subtotal*TaxRate half away from zero.
func Tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(TaxRate).Round(0).IntPart()
}

// Payment copies the breakdown into the order's payment record.
func (b Breakdown) Payment(method domain.PaymentMethod) domain.OrderPayment {
	return domain.OrderPayment{
		Method:       method.Type,
		CardLast4:    method.CardLast4,
		Subtotal:     b.Subtotal,
		Discount:     b.PromoDiscount,
		Tax:          b.Tax,
		Shipping:     b.Shipping,
		GiftWrapping: b.GiftWrapping,
		PaymentFee:   b.PaymentFee,
		Total:        b.Total,
	}
}
