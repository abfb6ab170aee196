package domain

import "strings"

type ShippingAddress struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	Apartment  string `json:"apartment,omitempty"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// Normalize trims surrounding whitespace so blank input counts as missing.
func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		FirstName:  strings.TrimSpace(a.FirstName),
		LastName:   strings.TrimSpace(a.LastName),
		Email:      strings.TrimSpace(a.Email),
		Phone:      strings.TrimSpace(a.Phone),
		Address:    strings.TrimSpace(a.Address),
		Apartment:  strings.TrimSpace(a.Apartment),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

func (a ShippingAddress) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
