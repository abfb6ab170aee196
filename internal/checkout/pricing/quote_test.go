package pricing

import (
	"testing"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
)

func TestTax(t *testing.T) {
	tests := []struct {
		subtotal int64
		want     int64
	}{
		{0, 0},
		{1800, 90},
		{5200, 260},
		{9, 0},  // 0.45
		{10, 1}, // 0.5 rounds up
		{30, 2}, // 1.5 rounds up
		{1999, 100},
	}
	for _, tt := range tests {
		if got := Tax(tt.subtotal); got != tt.want {
			t.Errorf("Tax(%d) = %d, want %d", tt.subtotal, got, tt.want)
		}
	}
}

func TestQuote_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		method   string
		gift     bool
		payment  domain.PaymentType
		promo    int64
		want     Breakdown
	}{
		{
			name:     "standard card below free threshold",
			subtotal: 1800,
			method:   "standard",
			payment:  domain.PaymentCard,
			want:     Breakdown{Subtotal: 1800, Shipping: 100, Tax: 90, Total: 1990},
		},
		{
			name:     "express cod gift above reduced threshold",
			subtotal: 5200,
			method:   "express",
			gift:     true,
			payment:  domain.PaymentCOD,
			want:     Breakdown{Subtotal: 5200, Shipping: 150, Tax: 260, GiftWrapping: 50, PaymentFee: 50, Total: 5710},
		},
		{
			name:     "promo discount deducted",
			subtotal: 3000,
			method:   "pickup",
			payment:  domain.PaymentPayPal,
			promo:    250,
			want:     Breakdown{Subtotal: 3000, Shipping: 0, Tax: 150, PromoDiscount: 250, Total: 2900},
		},
		{
			name:     "promo larger than charges goes negative",
			subtotal: 100,
			method:   "pickup",
			payment:  domain.PaymentCard,
			promo:    500,
			want:     Breakdown{Subtotal: 100, Tax: 5, PromoDiscount: 500, Total: -395},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := Lookup(tt.method, tt.subtotal)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.method)
			}
			got := Quote(Input{
				Subtotal:      tt.subtotal,
				ShippingCost:  m.Price,
				PromoDiscount: tt.promo,
				GiftOrder:     tt.gift,
				PaymentType:   tt.payment,
			})
			if got != tt.want {
				t.Errorf("Quote() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQuote_TotalIdentity(t *testing.T) {
	payments := []domain.PaymentType{
		domain.PaymentCard, domain.PaymentMobile, domain.PaymentCOD,
		domain.PaymentPayPal, domain.PaymentApplePay, domain.PaymentGooglePay,
	}
	for _, subtotal := range []int64{0, 1, 1999, 2000, 4999, 5000, 12345} {
		for _, m := range Methods(subtotal) {
			for _, p := range payments {
				for _, gift := range []bool{false, true} {
					in := Input{Subtotal: subtotal, ShippingCost: m.Price, PromoDiscount: 100, GiftOrder: gift, PaymentType: p}
					b := Quote(in)
					want := b.Subtotal + b.Shipping + b.Tax + b.GiftWrapping + b.PaymentFee - b.PromoDiscount
					if b.Total != want {
						t.Fatalf("Quote(%+v).Total = %d, want %d", in, b.Total, want)
					}
					if again := Quote(in); again != b {
						t.Fatalf("Quote(%+v) not deterministic: %+v != %+v", in, again, b)
					}
					if (p == domain.PaymentCOD) != (b.PaymentFee == CODFee) {
						t.Errorf("payment fee for %s = %d", p, b.PaymentFee)
					}
					if gift != (b.GiftWrapping == GiftWrappingFee) {
						t.Errorf("gift wrapping for gift=%v = %d", gift, b.GiftWrapping)
					}
				}
			}
		}
	}
}

func TestBreakdown_Payment(t *testing.T) {
	b := Quote(Input{Subtotal: 5200, ShippingCost: 150, GiftOrder: true, PaymentType: domain.PaymentCard})
	p := b.Payment(domain.PaymentMethod{Type: domain.PaymentCard, CardLast4: "4242"})
	if p.Method != domain.PaymentCard || p.CardLast4 != "4242" {
		t.Errorf("Payment() method = %s/%s", p.Method, p.CardLast4)
	}
	if p.Total != b.Total || p.Tax != b.Tax || p.GiftWrapping != 50 {
		t.Errorf("Payment() = %+v, breakdown %+v", p, b)
	}
}
