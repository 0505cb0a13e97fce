package coupon

import (
	"context"
	"fmt"
	"time"

	"shopcart/internal/model"
)

// Definition is one coupon entry in a definitions file. Monetary fields are
// minor-units; DiscountValue is a percentage for percentage coupons.
type Definition struct {
	Code             string     `json:"code"`
	DiscountType     string     `json:"discountType"`
	DiscountValue    int64      `json:"discountValue"`
	MinAmountCents   int64      `json:"minAmountCents"`
	MaxDiscountCents *int64     `json:"maxDiscountCents,omitempty"`
	Active           bool       `json:"active"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
}

// Loader reads a JSON coupon-definitions document from some location
// (a local path or an object key, depending on the implementation).
type Loader interface {
	Load(ctx context.Context, location string) ([]Definition, error)
}

// Store is the subset of the cart repository the seeder needs.
type Store interface {
	UpsertCoupon(ctx context.Context, coupon *model.Coupon) error
}

// Validate checks a definition for internal consistency.
func (d *Definition) Validate() error {
	if d.Code == "" {
		return fmt.Errorf("coupon code is required")
	}

	switch d.DiscountType {
	case model.DiscountTypePercentage:
		if d.DiscountValue < 0 || d.DiscountValue > 100 {
			return fmt.Errorf("percentage discount value must be between 0 and 100, got %d", d.DiscountValue)
		}
	case model.DiscountTypeFixed:
		if d.DiscountValue < 0 {
			return fmt.Errorf("fixed discount value cannot be negative, got %d", d.DiscountValue)
		}
	default:
		return fmt.Errorf("unknown discount type: %s", d.DiscountType)
	}

	if d.MinAmountCents < 0 {
		return fmt.Errorf("minimum order amount cannot be negative, got %d", d.MinAmountCents)
	}

	if d.MaxDiscountCents != nil && *d.MaxDiscountCents < 0 {
		return fmt.Errorf("maximum discount cannot be negative, got %d", *d.MaxDiscountCents)
	}

	return nil
}
