package coupon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shopcart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpsertCoupon(ctx context.Context, coupon *model.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func TestDefinition_Validate(t *testing.T) {
	maxDiscount := int64(500)
	negative := int64(-1)

	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{
			name: "valid percentage coupon",
			def:  Definition{Code: "SAVE10", DiscountType: "percentage", DiscountValue: 10, MinAmountCents: 5000, MaxDiscountCents: &maxDiscount, Active: true},
		},
		{
			name: "valid fixed coupon",
			def:  Definition{Code: "FIVE", DiscountType: "fixed", DiscountValue: 500, Active: true},
		},
		{
			name:    "missing code",
			def:     Definition{DiscountType: "percentage", DiscountValue: 10},
			wantErr: true,
		},
		{
			name:    "unknown discount type",
			def:     Definition{Code: "BAD", DiscountType: "bogo", DiscountValue: 10},
			wantErr: true,
		},
		{
			name:    "percentage over 100",
			def:     Definition{Code: "BAD", DiscountType: "percentage", DiscountValue: 101},
			wantErr: true,
		},
		{
			name:    "negative fixed value",
			def:     Definition{Code: "BAD", DiscountType: "fixed", DiscountValue: -500},
			wantErr: true,
		},
		{
			name:    "negative minimum amount",
			def:     Definition{Code: "BAD", DiscountType: "fixed", DiscountValue: 500, MinAmountCents: -1},
			wantErr: true,
		},
		{
			name:    "negative maximum discount",
			def:     Definition{Code: "BAD", DiscountType: "percentage", DiscountValue: 10, MaxDiscountCents: &negative},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coupons.json")
	content := `[
		{"code": "SAVE10", "discountType": "percentage", "discountValue": 10, "minAmountCents": 5000, "maxDiscountCents": 2000, "active": true, "expiresAt": "2027-01-01T00:00:00Z"},
		{"code": "FIVE", "discountType": "fixed", "discountValue": 500, "active": true}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loader := NewFileLoader(zerolog.Nop())
	defs, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, "SAVE10", defs[0].Code)
	assert.Equal(t, int64(5000), defs[0].MinAmountCents)
	require.NotNil(t, defs[0].MaxDiscountCents)
	assert.Equal(t, int64(2000), *defs[0].MaxDiscountCents)
	require.NotNil(t, defs[0].ExpiresAt)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), defs[0].ExpiresAt.UTC())

	assert.Equal(t, "FIVE", defs[1].Code)
	assert.Nil(t, defs[1].MaxDiscountCents)
	assert.Nil(t, defs[1].ExpiresAt)
}

func TestFileLoader_Load_MissingFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestFileLoader_Load_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coupons.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0o600))

	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), path)
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	defs := []Definition{
		{Code: "SAVE10", DiscountType: "percentage", DiscountValue: 10, MinAmountCents: 5000, Active: true},
		{Code: "FIVE", DiscountType: "fixed", DiscountValue: 500, Active: true},
	}

	store := new(MockStore)
	store.On("UpsertCoupon", mock.Anything, mock.MatchedBy(func(c *model.Coupon) bool {
		return c.Code == "SAVE10" && c.DiscountType == model.DiscountTypePercentage && c.MinAmountCents == 5000
	})).Return(nil)
	store.On("UpsertCoupon", mock.Anything, mock.MatchedBy(func(c *model.Coupon) bool {
		return c.Code == "FIVE" && c.DiscountType == model.DiscountTypeFixed && c.DiscountValue == 500
	})).Return(nil)

	err := Seed(context.Background(), defs, store, zerolog.Nop())
	require.NoError(t, err)

	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "UpsertCoupon", 2)
}

func TestSeed_InvalidDefinitionAbortsBeforeWrites(t *testing.T) {
	defs := []Definition{
		{Code: "SAVE10", DiscountType: "percentage", DiscountValue: 10, Active: true},
		{Code: "BROKEN", DiscountType: "bogo", DiscountValue: 10, Active: true},
	}

	store := new(MockStore)

	err := Seed(context.Background(), defs, store, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BROKEN")

	// Validation failure anywhere means nothing is written, including the
	// valid definitions before it.
	store.AssertNotCalled(t, "UpsertCoupon", mock.Anything, mock.Anything)
}

func TestSeed_StoreErrorStopsSeeding(t *testing.T) {
	defs := []Definition{
		{Code: "SAVE10", DiscountType: "percentage", DiscountValue: 10, Active: true},
		{Code: "FIVE", DiscountType: "fixed", DiscountValue: 500, Active: true},
	}

	store := new(MockStore)
	store.On("UpsertCoupon", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	err := Seed(context.Background(), defs, store, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAVE10")

	store.AssertNumberOfCalls(t, "UpsertCoupon", 1)
}
