package model

import "time"

// Discount types supported by coupons.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon represents a discount coupon definition. DiscountValue is a percentage
// (0-100) for percentage coupons and a minor-units amount for fixed coupons.
type Coupon struct {
	ID               string     `json:"id" db:"id"`
	Code             string     `json:"code" db:"code"`
	DiscountType     string     `json:"discountType" db:"discount_type"`
	DiscountValue    int64      `json:"discountValue" db:"discount_value"`
	MinAmountCents   int64      `json:"minAmountCents" db:"min_amount_cents"`
	MaxDiscountCents *int64     `json:"maxDiscountCents,omitempty" db:"max_discount_cents"`
	Active           bool       `json:"active" db:"active"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
}
