package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"
)

func tee(qty int) domain.CartLine {
	return domain.CartLine{ID: "tee-1", Name: "Linen Tee", Price: 900, OriginalPrice: 1200, Color: "Sand", Size: "M", Quantity: qty, MaxQuantity: 5}
}

func TestService_AddLineMergesAndClamps(t *testing.T) {
	ctx := context.Background()
	s := NewService()
	id := s.Create(ctx)

	snap, err := s.AddLine(ctx, id, tee(2))
	if err != nil {
		t.Fatalf("AddLine() error = %v", err)
	}
	lineID := snap.Lines[0].LineID
	if lineID == "" {
		t.Fatal("line id not assigned")
	}

	snap, _ = s.AddLine(ctx, id, tee(2))
	if len(snap.Lines) != 1 || snap.Lines[0].Quantity != 4 {
		t.Errorf("merged lines = %+v", snap.Lines)
	}

	snap, _ = s.AddLine(ctx, id, tee(9))
	if snap.Lines[0].Quantity != 5 {
		t.Errorf("quantity = %d, want clamp to 5", snap.Lines[0].Quantity)
	}

	other := tee(1)
	other.Size = "L"
	snap, _ = s.AddLine(ctx, id, other)
	if len(snap.Lines) != 2 {
		t.Errorf("different size should add a line, got %d lines", len(snap.Lines))
	}

	snap, _ = s.UpdateQuantity(ctx, id, lineID, 0)
	if snap.Lines[0].Quantity != 1 {
		t.Errorf("quantity = %d, want clamp to 1", snap.Lines[0].Quantity)
	}

	snap, _ = s.RemoveLine(ctx, id, lineID)
	if len(snap.Lines) != 1 || snap.Lines[0].Size != "L" {
		t.Errorf("after remove = %+v", snap.Lines)
	}

	if _, err := s.RemoveLine(ctx, id, "nope"); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("RemoveLine(nope) error = %v", err)
	}
	if _, err := s.AddLine(ctx, id, domain.CartLine{Name: "no id"}); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("AddLine(no id) error = %v", err)
	}
}

func TestService_SnapshotTotals(t *testing.T) {
	ctx := context.Background()
	s := NewService()
	id := s.Create(ctx)

	empty, _ := s.Snapshot(ctx, id)
	if !empty.Empty() || empty.ShippingEstimate != 0 || empty.Total != 0 {
		t.Errorf("empty snapshot = %+v", empty)
	}

	snap, _ := s.AddLine(ctx, id, tee(2))
	if snap.Subtotal != 1800 || snap.OriginalSubtotal != 2400 || snap.Savings != 600 {
		t.Errorf("subtotals = %+v", snap)
	}
	if snap.ShippingEstimate != 100 || snap.Total != 1900 {
		t.Errorf("shipping/total = %d/%d, want 100/1900", snap.ShippingEstimate, snap.Total)
	}

	snap, _ = s.AddLine(ctx, id, tee(1))
	if snap.Subtotal != 2700 || snap.ShippingEstimate != 0 {
		t.Errorf("free standard shipping not applied: %+v", snap)
	}
}

func TestService_ApplyPromo(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		qty          int
		code         string
		wantErr      error
		wantDiscount int64
	}{
		{name: "welcome eligible", qty: 2, code: "WELCOME100", wantDiscount: 100},
		{name: "code ignores case", qty: 2, code: " welcome100 ", wantDiscount: 100},
		{name: "style below minimum", qty: 2, code: "STYLE250", wantErr: ErrPromoNotEligible},
		{name: "style eligible", qty: 4, code: "STYLE250", wantDiscount: 250},
		{name: "unknown code", qty: 2, code: "FREESTUFF", wantErr: ErrInvalidPromo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService()
			id := s.Create(ctx)
			_, _ = s.AddLine(ctx, id, tee(tt.qty))

			snap, err := s.ApplyPromo(ctx, id, tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ApplyPromo() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if snap.PromoDiscount != tt.wantDiscount {
				t.Errorf("PromoDiscount = %d, want %d", snap.PromoDiscount, tt.wantDiscount)
			}
			if snap.Total != snap.Subtotal+snap.ShippingEstimate-tt.wantDiscount {
				t.Errorf("Total = %d", snap.Total)
			}
		})
	}
}

func TestService_PromoStopsApplyingBelowMinimum(t *testing.T) {
	ctx := context.Background()
	s := NewService()
	id := s.Create(ctx)
	snap, _ := s.AddLine(ctx, id, tee(2))
	_, _ = s.ApplyPromo(ctx, id, "WELCOME100")

	snap, _ = s.UpdateQuantity(ctx, id, snap.Lines[0].LineID, 1)
	if snap.PromoCode != "WELCOME100" || snap.PromoDiscount != 0 {
		t.Errorf("promo = %s/%d, want attached with no discount", snap.PromoCode, snap.PromoDiscount)
	}

	snap, _ = s.ApplyPromo(ctx, id, "")
	if snap.PromoCode != "" {
		t.Errorf("promo not removed: %q", snap.PromoCode)
	}
}

func TestService_ClearAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewService()
	id := s.Create(ctx)
	_, _ = s.AddLine(ctx, id, tee(2))
	_, _ = s.ApplyPromo(ctx, id, "WELCOME100")

	if err := s.Clear(ctx, id); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	snap, err := s.Snapshot(ctx, id)
	if err != nil || !snap.Empty() || snap.PromoCode != "" {
		t.Errorf("after Clear() = %+v, %v", snap, err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Snapshot(ctx, id); !errors.Is(err, ports.ErrCartNotFound) {
		t.Errorf("Snapshot() after delete error = %v", err)
	}
	if err := s.Clear(ctx, id); !errors.Is(err, ports.ErrCartNotFound) {
		t.Errorf("Clear() after delete error = %v", err)
	}
}
