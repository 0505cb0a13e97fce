package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopcart/internal/catalog"
	"shopcart/internal/events"
	"shopcart/internal/model"
	"shopcart/internal/pricing"
	"shopcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// producerName tags published operation events with their origin.
const producerName = "cart-api"

// cartService implements CartService.
type cartService struct {
	repo      repository.CartRepository
	catalog   catalog.Gateway
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	repo repository.CartRepository,
	gateway catalog.Gateway,
	publisher events.Publisher,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		repo:      repo,
		catalog:   gateway,
		publisher: publisher,
		logger:    logger.With().Str("service", "cart").Logger(),
	}
}

// Create inserts an empty active cart and returns its snapshot.
func (s *cartService) Create(ctx context.Context, userID string) (*model.Cart, error) {
	var owner *string
	if trimmed := strings.TrimSpace(userID); trimmed != "" {
		owner = &trimmed
	}

	cartID, err := s.repo.CreateCart(ctx, owner)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.Info().Str("cart_id", cartID).Msg("cart created")

	return s.snapshot(ctx, cartID, "createCart")
}

// Get retrieves a cart by its identifier.
func (s *cartService) Get(ctx context.Context, cartID string) (*model.Cart, error) {
	if err := requireField(cartID, "cart id is required", "read", "cart", "id"); err != nil {
		return nil, err
	}

	return s.snapshot(ctx, cartID, "read")
}

// AddProduct adds a product to the cart, snapshotting name and unit price
// from the catalogue on first add.
func (s *cartService) AddProduct(ctx context.Context, cartID, productID string, quantity int) (*model.Cart, error) {
	if err := requireField(cartID, "cart id is required", "addProduct", "cart", "id"); err != nil {
		return nil, err
	}
	if err := requireField(productID, "product id is required", "addProduct", "cart", "id"); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, model.NewInvalidArgument("quantity must be greater than 0", "addProduct", "cart", "quantity")
	}

	product, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("catalog lookup failed")
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if product == nil {
		s.logger.Debug().Str("product_id", productID).Msg("product not found")
		return nil, model.NewNotFound("product not found", "addProduct", "product")
	}

	if err := s.repo.AddItem(ctx, cartID, product, quantity); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("cart_id", cartID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("product added to cart")

	s.publish(cartID, model.OpAddItem, map[string]any{
		"productId": productID,
		"quantity":  quantity,
	})

	return s.snapshot(ctx, cartID, "addProduct")
}

// RemoveProduct removes a product's line item; removing an absent product is
// a no-op, not an error.
func (s *cartService) RemoveProduct(ctx context.Context, cartID, productID string) (*model.Cart, error) {
	if err := requireField(cartID, "cart id is required", "removeProduct", "cart", "id"); err != nil {
		return nil, err
	}
	if err := requireField(productID, "product id is required", "removeProduct", "cart", "id"); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveItem(ctx, cartID, productID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("cart_id", cartID).
		Str("product_id", productID).
		Msg("product removed from cart")

	s.publish(cartID, model.OpRemoveItem, map[string]any{
		"productId": productID,
	})

	return s.snapshot(ctx, cartID, "removeProduct")
}

// UpdateQuantity sets a line item's quantity directly; quantity zero is
// equivalent to removing the product.
func (s *cartService) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*model.Cart, error) {
	if err := requireField(cartID, "cart id is required", "updateQuantity", "cart", "id"); err != nil {
		return nil, err
	}
	if err := requireField(productID, "product id is required", "updateQuantity", "cart", "id"); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, model.NewInvalidArgument("quantity cannot be negative", "updateQuantity", "cart", "quantity")
	}

	if quantity == 0 {
		return s.RemoveProduct(ctx, cartID, productID)
	}

	if err := s.repo.UpdateItemQuantity(ctx, cartID, productID, quantity); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("cart_id", cartID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("cart item quantity updated")

	s.publish(cartID, model.OpUpdateQuantity, map[string]any{
		"productId": productID,
		"quantity":  quantity,
	})

	return s.snapshot(ctx, cartID, "updateQuantity")
}

// ApplyCoupon applies an eligible coupon's discount, overwriting the stored
// discount and total with the coupon-derived values.
func (s *cartService) ApplyCoupon(ctx context.Context, cartID, code string) (*model.Cart, error) {
	if err := requireField(cartID, "cart id is required", "applyCoupon", "cart", "id"); err != nil {
		return nil, err
	}
	if err := requireField(code, "coupon code is required", "applyCoupon", "cart", "id"); err != nil {
		return nil, err
	}

	cart, err := s.snapshot(ctx, cartID, "applyCoupon")
	if err != nil {
		return nil, err
	}

	coupon, err := s.repo.FindActiveCouponByCode(ctx, code, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("coupon lookup failed")
		return nil, fmt.Errorf("coupon lookup failed: %w", err)
	}
	if coupon == nil {
		s.logger.Debug().Str("code", code).Msg("coupon not found or ineligible")
		return nil, model.NewNotFound("invalid or expired coupon", "applyCoupon", "cart")
	}

	discount, err := pricing.CouponDiscount(cart.SubtotalCents, coupon)
	if err != nil {
		return nil, err
	}

	// Shipping is recomputed fresh from the subtotal; total comes from the
	// coupon formula alone, never composed with the volume discount.
	total := cart.SubtotalCents - discount + pricing.Shipping(cart.SubtotalCents)

	if err := s.repo.ApplyCouponDiscount(ctx, cartID, code, discount, total); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("cart_id", cartID).
		Str("code", code).
		Int64("discount_cents", discount).
		Msg("coupon applied")

	s.publish(cartID, model.OpApplyCoupon, map[string]any{
		"code": code,
	})

	return s.snapshot(ctx, cartID, "applyCoupon")
}

// Operations returns the cart's ledger entries, newest first.
func (s *cartService) Operations(ctx context.Context, cartID string) ([]model.Operation, error) {
	if err := requireField(cartID, "cart id is required", "getOperations", "cart", "id"); err != nil {
		return nil, err
	}

	operations, err := s.repo.ListOperations(ctx, cartID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to list cart operations")
		return nil, fmt.Errorf("failed to list cart operations: %w", err)
	}

	return operations, nil
}

// snapshot fetches the cart's current state, failing NotFound when absent.
func (s *cartService) snapshot(ctx context.Context, cartID, operation string) (*model.Cart, error) {
	cart, err := s.repo.FindCartByID(ctx, cartID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		s.logger.Debug().Str("cart_id", cartID).Msg("cart not found")
		return nil, model.NewNotFound("cart not found", operation, "cart")
	}

	return cart, nil
}

// publish mirrors a committed ledger append onto the event stream.
func (s *cartService) publish(cartID, operationType string, details map[string]any) {
	s.publisher.Publish(events.OperationEvent{
		EventID:       uuid.New().String(),
		CartID:        cartID,
		OperationType: operationType,
		Details:       details,
		OccurredAt:    time.Now().UTC(),
		Producer:      producerName,
	})
}

// requireField validates a non-empty string argument.
func requireField(value, message, operation, resource, field string) error {
	if strings.TrimSpace(value) == "" {
		return model.NewRequired(message, operation, resource, field)
	}
	return nil
}
