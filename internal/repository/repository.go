package repository

import (
	"context"
	"time"

	"shopcart/internal/catalog"
	"shopcart/internal/model"
)

// CartRepository defines the persistence contract for carts, their line
// items, coupons and the operation ledger.
//
// Every mutating method runs as a single transaction that locks the cart row,
// mutates line items, recomputes and persists totals, and appends the ledger
// entry. An observer never sees totals out of sync with line items, and
// concurrent mutations of the same cart serialize on the row lock.
type CartRepository interface {
	// CreateCart inserts an empty active cart and returns its identifier.
	CreateCart(ctx context.Context, userID *string) (string, error)

	// FindCartByID retrieves a cart with its line items in insertion order.
	// Returns (nil, nil) when the cart does not exist.
	FindCartByID(ctx context.Context, id string) (*model.Cart, error)

	// AddItem upserts a line item: a product already in the cart has its
	// quantity incremented, otherwise a new line item is inserted with the
	// name and unit price snapshotted from the catalogue product.
	AddItem(ctx context.Context, cartID string, product *catalog.Product, quantity int) error

	// RemoveItem deletes the matching line item. Removing an absent product
	// is a no-op, not an error; totals are recomputed and the operation is
	// logged either way.
	RemoveItem(ctx context.Context, cartID string, productID string) error

	// UpdateItemQuantity sets a line item's quantity and total price
	// directly. Callers handle quantity zero by removing the item instead.
	UpdateItemQuantity(ctx context.Context, cartID string, productID string, quantity int) error

	// ApplyCouponDiscount overwrites the cart's discount and total with the
	// values computed from a coupon, and logs an apply_coupon operation.
	ApplyCouponDiscount(ctx context.Context, cartID string, code string, discountCents, totalCents int64) error

	// FindActiveCouponByCode retrieves a coupon by code, excluding inactive
	// and expired coupons as of now. Returns (nil, nil) when ineligible or
	// absent.
	FindActiveCouponByCode(ctx context.Context, code string, now time.Time) (*model.Coupon, error)

	// UpsertCoupon inserts a coupon definition or updates the existing row
	// with the same code.
	UpsertCoupon(ctx context.Context, coupon *model.Coupon) error

	// ListOperations returns the cart's ledger entries, newest first.
	ListOperations(ctx context.Context, cartID string) ([]model.Operation, error)
}
