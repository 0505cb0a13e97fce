package model

import "time"

// Cart represents a shopping cart with its line items and derived totals.
// All monetary fields are integer minor-units (cents); they are converted to
// decimal only at the response boundary.
type Cart struct {
	ID            string     `json:"id" db:"id"`
	UserID        *string    `json:"userId,omitempty" db:"user_id"`
	Status        string     `json:"status" db:"status"`
	Items         []CartItem `json:"items"`
	SubtotalCents int64      `json:"subtotalCents" db:"subtotal_cents"`
	DiscountCents int64      `json:"discountCents" db:"discount_cents"`
	ShippingCents int64      `json:"shippingCents" db:"shipping_cents"`
	TotalCents    int64      `json:"totalCents" db:"total_cents"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem represents a single product line within a cart. The product name
// and unit price are snapshots taken when the product was first added; later
// catalogue changes do not alter existing line items.
type CartItem struct {
	ID              string `json:"id" db:"id"`
	ProductID       string `json:"productId" db:"product_id"`
	ProductName     string `json:"productName" db:"product_name"`
	Quantity        int    `json:"quantity" db:"quantity"`
	UnitPriceCents  int64  `json:"unitPriceCents" db:"unit_price_cents"`
	TotalPriceCents int64  `json:"totalPriceCents" db:"total_price_cents"`
}

// CartResponse is the serialization shape of a cart with money as decimal.
type CartResponse struct {
	ID        string             `json:"id"`
	UserID    *string            `json:"userId,omitempty"`
	Status    string             `json:"status"`
	Items     []CartItemResponse `json:"items"`
	Subtotal  float64            `json:"subtotal"`
	Discount  float64            `json:"discount"`
	Shipping  float64            `json:"shipping"`
	Total     float64            `json:"total"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// CartItemResponse is the serialization shape of a line item with money as decimal.
type CartItemResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// Response converts the cart into its boundary shape, dividing minor-units
// by 100. This is the only place money leaves integer representation.
func (c *Cart) Response() CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = CartItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   Dollars(item.UnitPriceCents),
			TotalPrice:  Dollars(item.TotalPriceCents),
		}
	}

	return CartResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Status:    c.Status,
		Items:     items,
		Subtotal:  Dollars(c.SubtotalCents),
		Discount:  Dollars(c.DiscountCents),
		Shipping:  Dollars(c.ShippingCents),
		Total:     Dollars(c.TotalCents),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Dollars converts integer minor-units into a decimal amount.
func Dollars(cents int64) float64 {
	return float64(cents) / 100
}
