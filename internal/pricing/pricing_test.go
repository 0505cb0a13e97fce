package pricing

import (
	"testing"

	"shopcart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_ShippingThreshold(t *testing.T) {
	tests := []struct {
		name             string
		subtotalCents    int64
		expectedShipping int64
	}{
		{name: "Just below free shipping threshold", subtotalCents: 49999, expectedShipping: 1500},
		{name: "Exactly at free shipping threshold", subtotalCents: 50000, expectedShipping: 0},
		{name: "Above free shipping threshold", subtotalCents: 75000, expectedShipping: 0},
		{name: "Empty cart", subtotalCents: 0, expectedShipping: 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := Compute(tt.subtotalCents)
			assert.Equal(t, tt.expectedShipping, totals.ShippingCents)
		})
	}
}

func TestCompute_VolumeDiscountThreshold(t *testing.T) {
	tests := []struct {
		name             string
		subtotalCents    int64
		expectedDiscount int64
	}{
		{name: "Just below volume threshold", subtotalCents: 99999, expectedDiscount: 0},
		{name: "Exactly at volume threshold", subtotalCents: 100000, expectedDiscount: 10000},
		{name: "Truncates toward zero", subtotalCents: 100005, expectedDiscount: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := Compute(tt.subtotalCents)
			assert.Equal(t, tt.expectedDiscount, totals.DiscountCents)
		})
	}
}

func TestCompute_TotalInvariant(t *testing.T) {
	for _, subtotal := range []int64{0, 2198, 49999, 50000, 99999, 100000, 123456} {
		totals := Compute(subtotal)
		assert.Equal(t, totals.SubtotalCents-totals.DiscountCents+totals.ShippingCents, totals.TotalCents)
	}
}

func TestSubtotal(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "P001", Quantity: 2, UnitPriceCents: 1099, TotalPriceCents: 2198},
		{ProductID: "P002", Quantity: 1, UnitPriceCents: 500, TotalPriceCents: 500},
	}

	assert.Equal(t, int64(2698), Subtotal(items))
	assert.Equal(t, int64(0), Subtotal(nil))
}

func TestCouponDiscount_Percentage(t *testing.T) {
	coupon := &model.Coupon{
		Code:          "SAVE10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
	}

	discount, err := CouponDiscount(10000, coupon)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), discount)

	// Integer truncation, never round-half-up.
	discount, err = CouponDiscount(10005, coupon)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), discount)
}

func TestCouponDiscount_PercentageCap(t *testing.T) {
	maxDiscount := int64(500)
	coupon := &model.Coupon{
		Code:             "SAVE10",
		DiscountType:     model.DiscountTypePercentage,
		DiscountValue:    10,
		MaxDiscountCents: &maxDiscount,
	}

	discount, err := CouponDiscount(10000, coupon)
	require.NoError(t, err)
	assert.Equal(t, int64(500), discount)

	// Below the cap the computed discount wins.
	discount, err = CouponDiscount(4000, coupon)
	require.NoError(t, err)
	assert.Equal(t, int64(400), discount)
}

func TestCouponDiscount_FixedUncapped(t *testing.T) {
	maxDiscount := int64(100)
	coupon := &model.Coupon{
		Code:             "FLAT20",
		DiscountType:     model.DiscountTypeFixed,
		DiscountValue:    2000,
		MaxDiscountCents: &maxDiscount,
	}

	// Fixed discounts ignore the cap.
	discount, err := CouponDiscount(10000, coupon)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), discount)
}

func TestCouponDiscount_BelowMinimum(t *testing.T) {
	coupon := &model.Coupon{
		Code:           "SAVE10",
		DiscountType:   model.DiscountTypePercentage,
		DiscountValue:  10,
		MinAmountCents: 5000,
	}

	_, err := CouponDiscount(4999, coupon)
	require.Error(t, err)

	appErr, ok := model.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, model.KindInvalidArgument, appErr.Kind)
	assert.Equal(t, "minimum order amount is $50", appErr.Message)
}

func TestCouponDiscount_MinimumAmountFormatting(t *testing.T) {
	coupon := &model.Coupon{
		Code:           "SAVE10",
		DiscountType:   model.DiscountTypePercentage,
		DiscountValue:  10,
		MinAmountCents: 4999,
	}

	_, err := CouponDiscount(100, coupon)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$49.99")
}
