// Package validation checks the checkout form of each step before the flow
// is allowed to move forward.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
)

var cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

type cardForm struct {
	CardNumber string `json:"cardNumber" validate:"required,numeric,min=13,max=19"`
	CardHolder string `json:"cardHolder" validate:"required"`
	CardExpiry string `json:"cardExpiry" validate:"required,card_expiry"`
	CardCVV    string `json:"cardCvv" validate:"required,numeric,min=3,max=4"`
}

type mobileForm struct {
	MobileWallet  string `json:"mobileWallet" validate:"required"`
	MobileAccount string `json:"mobileAccount" validate:"required,numeric,min=6"`
}

type paypalForm struct {
	PayPalEmail string `json:"paypalEmail" validate:"required,email"`
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return cardExpiryRe.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Shipping rejects an address with blank required fields or a malformed email.
func (v *Validator) Shipping(addr domain.ShippingAddress) error {
	return v.check(addr.Normalize(), ErrMissingField)
}

// Payment checks the details required by the chosen payment type. Cash on
// delivery and the wallet buttons need no extra fields.
func (v *Validator) Payment(t domain.PaymentType, d domain.PaymentDetails) error {
	switch t {
	case domain.PaymentCard:
		return v.check(cardForm{
			CardNumber: d.CardDigits(),
			CardHolder: strings.TrimSpace(d.CardHolder),
			CardExpiry: strings.TrimSpace(d.CardExpiry),
			CardCVV:    strings.TrimSpace(d.CardCVV),
		}, ErrMissingPaymentDetail)
	case domain.PaymentMobile:
		return v.check(mobileForm{
			MobileWallet:  strings.TrimSpace(d.MobileWallet),
			MobileAccount: strings.TrimSpace(d.MobileAccount),
		}, ErrMissingPaymentDetail)
	case domain.PaymentPayPal:
		return v.check(paypalForm{PayPalEmail: strings.TrimSpace(d.PayPalEmail)}, ErrMissingPaymentDetail)
	case domain.PaymentCOD, domain.PaymentApplePay, domain.PaymentGooglePay:
		return nil
	}
	return &FieldError{Kind: ErrUnsupportedPayment, Issues: []Issue{{Field: "type", Rule: "oneof"}}}
}

// Terms blocks the review step until the customer accepts the terms.
func (v *Validator) Terms(accepted bool) error {
	if accepted {
		return nil
	}
	return &FieldError{Kind: ErrTermsNotAccepted, Issues: []Issue{{Field: "acceptTerms", Rule: "required"}}}
}

func (v *Validator) check(form any, kind error) error {
	err := v.v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := &FieldError{Kind: kind, Issues: make([]Issue, 0, len(verrs))}
	for _, ve := range verrs {
		fe.Issues = append(fe.Issues, Issue{Field: ve.Field(), Rule: ve.Tag()})
	}
	return fe
}
