package service

import (
	"context"

	"shopcart/internal/model"
)

// CartService defines the cart operations exposed to the request layer.
// Every mutation returns the refreshed cart snapshot with totals consistent
// with its line items.
type CartService interface {
	// Create inserts an empty active cart, optionally owned by a user.
	Create(ctx context.Context, userID string) (*model.Cart, error)

	// Get retrieves a cart by its identifier.
	Get(ctx context.Context, cartID string) (*model.Cart, error)

	// AddProduct adds a product to the cart, incrementing the quantity when
	// the product is already present.
	AddProduct(ctx context.Context, cartID, productID string, quantity int) (*model.Cart, error)

	// RemoveProduct removes a product's line item; absent products are a no-op.
	RemoveProduct(ctx context.Context, cartID, productID string) (*model.Cart, error)

	// UpdateQuantity sets a line item's quantity; zero removes the item.
	UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*model.Cart, error)

	// ApplyCoupon applies an eligible coupon's discount to the cart.
	ApplyCoupon(ctx context.Context, cartID, code string) (*model.Cart, error)

	// Operations returns the cart's ledger entries, newest first.
	Operations(ctx context.Context, cartID string) ([]model.Operation, error)
}
