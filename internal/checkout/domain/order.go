package domain

import (
	"strings"
	"time"
)

type Order struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	Status         OrderStatus     `json:"status"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	Items          []OrderItem     `json:"items"`
	Shipping       OrderShipping   `json:"shipping"`
	Payment        OrderPayment    `json:"payment"`
	IsGiftOrder    bool            `json:"isGiftOrder"`
	GiftMessage    string          `json:"giftMessage,omitempty"`
	Timeline       []TimelineEntry `json:"timeline"`
}

type OrderItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image,omitempty"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

func (i OrderItem) Subtotal() int64 {
	return int64(i.Quantity) * i.Price
}

type OrderShipping struct {
	Address           ShippingAddress `json:"address"`
	Method            string          `json:"method"`
	Cost              int64           `json:"cost"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
}

type OrderPayment struct {
	Method       PaymentType `json:"method"`
	CardLast4    string      `json:"cardLast4,omitempty"`
	Subtotal     int64       `json:"subtotal"`
	Discount     int64       `json:"discount"`
	Tax          int64       `json:"tax"`
	Shipping     int64       `json:"shipping"`
	GiftWrapping int64       `json:"giftWrapping"`
	PaymentFee   int64       `json:"paymentFee"`
	Total        int64       `json:"total"`
}

type TimelineEntry struct {
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
}

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusPending    OrderStatus = "Pending"
	StatusCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered, StatusPending, StatusCancelled} {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// Timeline labels appended at placement time.
const (
	TimelineOrderPlaced      = "Order Placed"
	TimelinePaymentConfirmed = "Payment Confirmed"
)

// Clone returns a deep copy so stores never hand out shared slices.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	c.Timeline = append([]TimelineEntry(nil), o.Timeline...)
	return c
}
