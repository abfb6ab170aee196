package domain

// CartLine is one product variant pending purchase. Lines are owned by the
// cart collaborator; checkout only reads them. ID names the product, LineID
// the variant line inside one cart.
type CartLine struct {
	LineID        string `json:"lineId"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"originalPrice,omitempty"`
	Image         string `json:"image,omitempty"`
	Color         string `json:"color,omitempty"`
	Size          string `json:"size,omitempty"`
	Quantity      int    `json:"quantity"`
	MaxQuantity   int    `json:"maxQuantity"`
}

func (l CartLine) Subtotal() int64 {
	return int64(l.Quantity) * l.Price
}

// OriginalSubtotal falls back to Price when the line is not discounted.
func (l CartLine) OriginalSubtotal() int64 {
	if l.OriginalPrice > l.Price {
		return int64(l.Quantity) * l.OriginalPrice
	}
	return l.Subtotal()
}

// CartSnapshot is the read-only view of a cart handed to checkout.
type CartSnapshot struct {
	CartID           string     `json:"cartId"`
	Lines            []CartLine `json:"lines"`
	Subtotal         int64      `json:"subtotal"`
	OriginalSubtotal int64      `json:"originalSubtotal"`
	Savings          int64      `json:"savings"`
	ShippingEstimate int64      `json:"shippingEstimate"`
	PromoCode        string     `json:"promoCode,omitempty"`
	PromoDiscount    int64      `json:"promoDiscount"`
	Total            int64      `json:"total"`
}

func (s CartSnapshot) Empty() bool {
	return len(s.Lines) == 0
}

// OrderItems freezes the cart lines into order items.
func (s CartSnapshot) OrderItems() []OrderItem {
	items := make([]OrderItem, len(s.Lines))
	for i, l := range s.Lines {
		items[i] = OrderItem{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Image:    l.Image,
			Color:    l.Color,
			Size:     l.Size,
			Quantity: l.Quantity,
		}
	}
	return items
}
