package flow

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/validation"
)

var (
	address = domain.ShippingAddress{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "01712345678",
		Address: "12 Market Street", City: "Dhaka", PostalCode: "1212", Country: "Bangladesh",
	}
	card = domain.PaymentDetails{CardNumber: "4111 1111 1111 1111", CardHolder: "Ada", CardExpiry: "10/30", CardCVV: "321"}
)

func newSession() *Session {
	return NewSession("sess-1", "cart-1", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
}

func TestSession_HappyPath(t *testing.T) {
	v := validation.New()
	s := newSession()

	if s.Step != domain.StepShipping || s.ShippingMethodID != "standard" {
		t.Fatalf("new session = %s/%s", s.Step, s.ShippingMethodID)
	}
	if err := s.SubmitShipping(v, address, "express"); err != nil {
		t.Fatalf("SubmitShipping() error = %v", err)
	}
	if s.Step != domain.StepPayment || s.ShippingMethodID != "express" {
		t.Fatalf("after shipping = %s/%s", s.Step, s.ShippingMethodID)
	}
	if err := s.SubmitPayment(v, domain.PaymentMethod{Type: domain.PaymentCard, SavePaymentMethod: true}, card); err != nil {
		t.Fatalf("SubmitPayment() error = %v", err)
	}
	if s.Step != domain.StepReview {
		t.Fatalf("after payment step = %s", s.Step)
	}
	if s.Payment.CardLast4 != "1111" || !s.Payment.SavePaymentMethod {
		t.Errorf("payment = %+v", s.Payment)
	}
	if err := s.ReadyToPlace(v, true); err != nil {
		t.Errorf("ReadyToPlace() error = %v", err)
	}
}

func TestSession_GatedTransitions(t *testing.T) {
	v := validation.New()

	t.Run("shipping blocked by missing fields", func(t *testing.T) {
		s := newSession()
		err := s.SubmitShipping(v, domain.ShippingAddress{FirstName: "Ada"}, "")
		if !errors.Is(err, validation.ErrMissingField) {
			t.Fatalf("SubmitShipping() error = %v", err)
		}
		if s.Step != domain.StepShipping {
			t.Errorf("step = %s, want shipping", s.Step)
		}
	})

	t.Run("unknown shipping method", func(t *testing.T) {
		s := newSession()
		if err := s.SubmitShipping(v, address, "teleport"); !errors.Is(err, ErrUnknownShippingMethod) {
			t.Fatalf("SubmitShipping() error = %v", err)
		}
	})

	t.Run("payment before shipping", func(t *testing.T) {
		s := newSession()
		err := s.SubmitPayment(v, domain.PaymentMethod{Type: domain.PaymentCOD}, domain.PaymentDetails{})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("SubmitPayment() error = %v", err)
		}
	})

	t.Run("payment detail missing", func(t *testing.T) {
		s := newSession()
		_ = s.SubmitShipping(v, address, "")
		err := s.SubmitPayment(v, domain.PaymentMethod{Type: domain.PaymentPayPal}, domain.PaymentDetails{})
		if !errors.Is(err, validation.ErrMissingPaymentDetail) {
			t.Fatalf("SubmitPayment() error = %v", err)
		}
		if s.Step != domain.StepPayment {
			t.Errorf("step = %s, want payment", s.Step)
		}
	})

	t.Run("terms not accepted", func(t *testing.T) {
		s := newSession()
		_ = s.SubmitShipping(v, address, "")
		_ = s.SubmitPayment(v, domain.PaymentMethod{Type: domain.PaymentCOD}, domain.PaymentDetails{})
		if err := s.ReadyToPlace(v, false); !errors.Is(err, validation.ErrTermsNotAccepted) {
			t.Fatalf("ReadyToPlace() error = %v", err)
		}
	})

	t.Run("place from payment step", func(t *testing.T) {
		s := newSession()
		_ = s.SubmitShipping(v, address, "")
		if err := s.ReadyToPlace(v, true); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("ReadyToPlace() error = %v", err)
		}
	})
}

func TestSession_Back(t *testing.T) {
	v := validation.New()
	s := newSession()

	if err := s.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Back() at shipping error = %v", err)
	}
	_ = s.SubmitShipping(v, address, "pickup")
	_ = s.SubmitPayment(v, domain.PaymentMethod{Type: domain.PaymentCOD}, domain.PaymentDetails{})

	if err := s.Back(); err != nil || s.Step != domain.StepPayment {
		t.Fatalf("Back() from review = %v, step %s", err, s.Step)
	}
	if err := s.Back(); err != nil || s.Step != domain.StepShipping {
		t.Fatalf("Back() from payment = %v, step %s", err, s.Step)
	}
	if s.Address.City != "Dhaka" || s.ShippingMethodID != "pickup" {
		t.Errorf("editing lost form state: %+v", s)
	}
}

func TestSession_SetGift(t *testing.T) {
	s := newSession()
	s.SetGift(true, "  Happy birthday!  ")
	if !s.GiftOrder || s.GiftMessage != "Happy birthday!" {
		t.Errorf("gift = %v/%q", s.GiftOrder, s.GiftMessage)
	}
	s.SetGift(false, "ignored")
	if s.GiftOrder || s.GiftMessage != "" {
		t.Errorf("gift cleared = %v/%q", s.GiftOrder, s.GiftMessage)
	}
}

func TestSessions_UpdateIsAtomic(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	store := NewSessions(clock)
	v := validation.New()

	sess := store.Create("cart-9")
	if sess.ID == "" || sess.CartID != "cart-9" {
		t.Fatalf("Create() = %+v", sess)
	}

	_, err := store.Update(sess.ID, func(s *Session) error {
		s.SetGift(true, "note")
		return s.SubmitShipping(v, domain.ShippingAddress{}, "")
	})
	if err == nil {
		t.Fatal("Update() expected validation error")
	}
	got, _ := store.Get(sess.ID)
	if got.GiftOrder {
		t.Error("failed update leaked gift flag")
	}

	clock.Advance(time.Minute)
	updated, err := store.Update(sess.ID, func(s *Session) error {
		return s.SubmitShipping(v, address, "")
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Step != domain.StepPayment || !updated.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("Update() = %s at %v", updated.Step, updated.UpdatedAt)
	}

	if _, err := store.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
	store.Delete(sess.ID)
	if _, err := store.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(deleted) error = %v", err)
	}
}
