package domain

import "strings"

type PaymentType string

const (
	PaymentCard      PaymentType = "card"
	PaymentMobile    PaymentType = "mobile"
	PaymentCOD       PaymentType = "cod"
	PaymentPayPal    PaymentType = "paypal"
	PaymentApplePay  PaymentType = "applepay"
	PaymentGooglePay PaymentType = "googlepay"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentCard, PaymentMobile, PaymentCOD, PaymentPayPal, PaymentApplePay, PaymentGooglePay:
		return true
	}
	return false
}

// PaymentMethod is the selection frozen into the order on submit.
type PaymentMethod struct {
	Type              PaymentType `json:"type"`
	SavePaymentMethod bool        `json:"savePaymentMethod"`
	CardLast4         string      `json:"cardLast4,omitempty"`
}

// PaymentDetails holds the form fields of the payment step. Which fields are
// required depends on the payment type.
type PaymentDetails struct {
	CardNumber    string `json:"cardNumber,omitempty"`
	CardHolder    string `json:"cardHolder,omitempty"`
	CardExpiry    string `json:"cardExpiry,omitempty"`
	CardCVV       string `json:"cardCvv,omitempty"`
	MobileWallet  string `json:"mobileWallet,omitempty"`
	MobileAccount string `json:"mobileAccount,omitempty"`
	PayPalEmail   string `json:"paypalEmail,omitempty"`
}

// CardDigits strips spaces and dashes from the card number.
func (d PaymentDetails) CardDigits() string {
	return strings.NewReplacer(" ", "", "-", "").Replace(d.CardNumber)
}

func (d PaymentDetails) CardLast4() string {
	digits := d.CardDigits()
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
