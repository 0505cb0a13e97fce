package pricing

import (
	"fmt"
	"strconv"

	"shopcart/internal/model"
)

// Pricing rules, all in minor-units.
const (
	// FreeShippingThresholdCents is the subtotal at which shipping becomes free.
	FreeShippingThresholdCents int64 = 50000

	// ShippingFeeCents is the flat shipping fee below the free-shipping threshold.
	ShippingFeeCents int64 = 1500

	// VolumeDiscountThresholdCents is the subtotal at which the automatic
	// volume discount kicks in.
	VolumeDiscountThresholdCents int64 = 100000

	// volumeDiscountPercent is the automatic discount rate at or above the
	// volume threshold.
	volumeDiscountPercent int64 = 10
)

// Totals holds the derived monetary fields of a cart.
type Totals struct {
	SubtotalCents int64
	DiscountCents int64
	ShippingCents int64
	TotalCents    int64
}

// Compute derives discount, shipping and total from a subtotal using the
// automatic rules: flat shipping fee below the free-shipping threshold and the
// volume discount at or above its threshold. Coupon discounts are computed
// separately by CouponDiscount and overwrite these values.
func Compute(subtotalCents int64) Totals {
	var discount int64
	if subtotalCents >= VolumeDiscountThresholdCents {
		discount = subtotalCents * volumeDiscountPercent / 100
	}

	shipping := Shipping(subtotalCents)

	return Totals{
		SubtotalCents: subtotalCents,
		DiscountCents: discount,
		ShippingCents: shipping,
		TotalCents:    subtotalCents - discount + shipping,
	}
}

// Shipping returns the shipping fee for a subtotal.
func Shipping(subtotalCents int64) int64 {
	if subtotalCents < FreeShippingThresholdCents {
		return ShippingFeeCents
	}
	return 0
}

// Subtotal sums the line item totals of a cart.
func Subtotal(items []model.CartItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.TotalPriceCents
	}
	return sum
}

// CouponDiscount computes the discount a coupon yields against a subtotal.
// It fails with InvalidArgument when the subtotal is below the coupon's
// minimum order amount. Percentage discounts truncate toward zero and are
// capped at the coupon's maximum when one is set; fixed discounts apply the
// coupon value unconditionally.
func CouponDiscount(subtotalCents int64, coupon *model.Coupon) (int64, error) {
	if subtotalCents < coupon.MinAmountCents {
		return 0, model.NewInvalidArgument(
			fmt.Sprintf("minimum order amount is $%s", formatAmount(coupon.MinAmountCents)),
			"applyCoupon", "cart", "minAmount",
		)
	}

	if coupon.DiscountType == model.DiscountTypePercentage {
		discount := subtotalCents * coupon.DiscountValue / 100
		if coupon.MaxDiscountCents != nil && discount > *coupon.MaxDiscountCents {
			discount = *coupon.MaxDiscountCents
		}
		return discount, nil
	}

	return coupon.DiscountValue, nil
}

// formatAmount renders minor-units as a decimal string without trailing
// zeroes, e.g. 5000 -> "50", 4999 -> "49.99".
func formatAmount(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', -1, 64)
}
