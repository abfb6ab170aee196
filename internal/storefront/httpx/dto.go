package httpx

import (
	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/placement/journal"
)

type AddItemRequest struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Price         int64  `json:"price" validate:"gte=0"`
	OriginalPrice int64  `json:"originalPrice" validate:"gte=0"`
	Image         string `json:"image"`
	Color         string `json:"color"`
	Size          string `json:"size"`
	Quantity      int    `json:"quantity" validate:"gte=1"`
	MaxQuantity   int    `json:"maxQuantity" validate:"gte=0"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type PromoRequest struct {
	Code string `json:"code"`
}

type StartCheckoutRequest struct {
	CartID string `json:"cartId" validate:"required"`
}

// ShippingRequest leaves the address to checkout validation so a missing
// and a blank field report the same error.
type ShippingRequest struct {
	Address        domain.ShippingAddress `json:"address" validate:"-"`
	ShippingMethod string                 `json:"shippingMethod"`
}

type PaymentRequest struct {
	Method            domain.PaymentType    `json:"method" validate:"required"`
	SavePaymentMethod bool                  `json:"savePaymentMethod"`
	Details           domain.PaymentDetails `json:"details"`
}

type GiftRequest struct {
	IsGiftOrder bool   `json:"isGiftOrder"`
	GiftMessage string `json:"giftMessage"`
}

type PlaceOrderRequest struct {
	AcceptTerms bool `json:"acceptTerms"`
}

type PlaceOrderResponse struct {
	Order           domain.Order `json:"order"`
	RedirectTo      string       `json:"redirectTo"`
	RedirectAfterMs int64        `json:"redirectAfterMs"`
}

type UpdateStatusRequest struct {
	Status         string `json:"status" validate:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

// PlacementHistoryResponse reports where a placement ended up and how it got there.
type PlacementHistoryResponse struct {
	PlacementID string          `json:"placementId"`
	Status      journal.Status  `json:"status"`
	Step        string          `json:"step,omitempty"`
	Entries     []journal.Entry `json:"entries"`
}

type CartCreatedResponse struct {
	ID string `json:"id"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}
