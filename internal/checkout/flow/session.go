// Package flow is the checkout step machine: shipping → payment → review,
// with edits allowed backwards and forward moves gated by validation.
package flow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/pricing"
)

var (
	ErrInvalidTransition     = errors.New("invalid checkout transition")
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrSessionNotFound       = errors.New("checkout session not found")
)

// FormValidator checks the form of each step.
type FormValidator interface {
	Shipping(addr domain.ShippingAddress) error
	Payment(t domain.PaymentType, d domain.PaymentDetails) error
	Terms(accepted bool) error
}

// Session is the uncommitted form state of one checkout. Nothing in it is
// persisted until the order is placed.
type Session struct {
	ID               string                 `json:"id"`
	CartID           string                 `json:"cartId"`
	Step             domain.Step            `json:"step"`
	Address          domain.ShippingAddress `json:"address"`
	ShippingMethodID string                 `json:"shippingMethod"`
	Payment          domain.PaymentMethod   `json:"payment"`
	PaymentDetails   domain.PaymentDetails  `json:"-"`
	GiftOrder        bool                   `json:"isGiftOrder"`
	GiftMessage      string                 `json:"giftMessage,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

func NewSession(id, cartID string, now time.Time) *Session {
	return &Session{
		ID:               id,
		CartID:           cartID,
		Step:             domain.StepShipping,
		ShippingMethodID: pricing.DefaultMethodID,
		Payment:          domain.PaymentMethod{Type: domain.PaymentCard},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// SubmitShipping validates the address and method and moves to payment.
func (s *Session) SubmitShipping(v FormValidator, addr domain.ShippingAddress, methodID string) error {
	if s.Step != domain.StepShipping {
		return transitionError(s.Step, domain.StepPayment)
	}
	if methodID == "" {
		methodID = s.ShippingMethodID
	}
	if _, ok := pricing.Lookup(methodID, 0); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownShippingMethod, methodID)
	}
	addr = addr.Normalize()
	if err := v.Shipping(addr); err != nil {
		return err
	}
	s.Address = addr
	s.ShippingMethodID = methodID
	s.Step = domain.StepPayment
	return nil
}

// SubmitPayment validates the details required by the payment type and moves
// to review. Only the last four card digits are kept on the method.
func (s *Session) SubmitPayment(v FormValidator, method domain.PaymentMethod, details domain.PaymentDetails) error {
	if s.Step != domain.StepPayment {
		return transitionError(s.Step, domain.StepReview)
	}
	if err := v.Payment(method.Type, details); err != nil {
		return err
	}
	method.CardLast4 = ""
	if method.Type == domain.PaymentCard {
		method.CardLast4 = details.CardLast4()
	}
	s.Payment = method
	s.PaymentDetails = details
	s.Step = domain.StepReview
	return nil
}

// Back returns to the previous step for editing.
func (s *Session) Back() error {
	switch s.Step {
	case domain.StepPayment:
		s.Step = domain.StepShipping
	case domain.StepReview:
		s.Step = domain.StepPayment
	default:
		return transitionError(s.Step, "")
	}
	return nil
}

// SetGift may be changed at any step.
func (s *Session) SetGift(gift bool, message string) {
	s.GiftOrder = gift
	s.GiftMessage = ""
	if gift {
		s.GiftMessage = strings.TrimSpace(message)
	}
}

// ReadyToPlace re-checks every step so a stale session cannot slip through.
func (s *Session) ReadyToPlace(v FormValidator, termsAccepted bool) error {
	if s.Step != domain.StepReview {
		return transitionError(s.Step, "placed")
	}
	if err := v.Shipping(s.Address); err != nil {
		return err
	}
	if err := v.Payment(s.Payment.Type, s.PaymentDetails); err != nil {
		return err
	}
	return v.Terms(termsAccepted)
}

// ShippingMethod prices the selected method for subtotal.
func (s *Session) ShippingMethod(subtotal int64) pricing.Method {
	m, ok := pricing.Lookup(s.ShippingMethodID, subtotal)
	if !ok {
		m, _ = pricing.Lookup(pricing.DefaultMethodID, subtotal)
	}
	return m
}

func transitionError(from domain.Step, to domain.Step) error {
	if to == "" {
		return fmt.Errorf("%w: no step before %s", ErrInvalidTransition, from)
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
