package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopcart/internal/catalog"
	"shopcart/internal/model"
	"shopcart/internal/pricing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// CreateCart inserts an empty active cart and returns its identifier.
func (r *cartRepository) CreateCart(ctx context.Context, userID *string) (string, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO carts (id, user_id, status, subtotal_cents, discount_cents, shipping_cents, total_cents)
		VALUES ($1, $2, 'active', 0, 0, 0, 0)
	`

	if _, err := r.pool.Exec(ctx, query, id, userID); err != nil {
		r.logger.Error().Err(err).Msg("failed to create cart")
		return "", fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", id).Msg("cart created")

	return id, nil
}

// FindCartByID retrieves a cart with its line items in insertion order.
func (r *cartRepository) FindCartByID(ctx context.Context, id string) (*model.Cart, error) {
	cartQuery := `
		SELECT id, user_id, status, subtotal_cents, discount_cents,
		       shipping_cents, total_cents, created_at, updated_at
		FROM carts
		WHERE id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, cartQuery, id).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.Status,
		&cart.SubtotalCents,
		&cart.DiscountCents,
		&cart.ShippingCents,
		&cart.TotalCents,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("cart_id", id).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", id).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, product_id, product_name, quantity, unit_price_cents, total_price_cents
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", id).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.TotalPriceCents,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// AddItem upserts a line item and recomputes totals in one transaction.
// The upsert is an explicit lock-then-insert-or-increment rather than a
// dialect conflict clause, so two concurrent adds of the same product both
// land once the cart row lock serializes them.
func (r *cartRepository) AddItem(ctx context.Context, cartID string, product *catalog.Product, quantity int) error {
	return r.inCartTx(ctx, cartID, "addProduct", func(tx pgx.Tx) error {
		var itemID string
		var currentQty int
		err := tx.QueryRow(ctx,
			`SELECT id, quantity FROM cart_items WHERE cart_id = $1 AND product_id = $2 FOR UPDATE`,
			cartID, product.ID,
		).Scan(&itemID, &currentQty)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			_, err = tx.Exec(ctx, `
				INSERT INTO cart_items (id, cart_id, product_id, product_name, quantity, unit_price_cents, total_price_cents)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.New().String(), cartID, product.ID, product.Name, quantity,
				product.PriceCents, product.PriceCents*int64(quantity),
			)
			if err != nil {
				return fmt.Errorf("failed to insert cart item: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to lock cart item: %w", err)
		default:
			newQty := currentQty + quantity
			// Unit price stays frozen at the original snapshot.
			_, err = tx.Exec(ctx, `
				UPDATE cart_items
				SET quantity = $2,
				    total_price_cents = unit_price_cents * $2,
				    updated_at = NOW()
				WHERE id = $1`,
				itemID, newQty,
			)
			if err != nil {
				return fmt.Errorf("failed to increment cart item: %w", err)
			}
		}

		if err := r.refreshTotals(ctx, tx, cartID); err != nil {
			return err
		}

		return r.appendOperation(ctx, tx, cartID, model.OpAddItem, map[string]any{
			"productId": product.ID,
			"quantity":  quantity,
		})
	})
}

// RemoveItem deletes the matching line item; absent products are a no-op.
func (r *cartRepository) RemoveItem(ctx context.Context, cartID string, productID string) error {
	return r.inCartTx(ctx, cartID, "removeProduct", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
			cartID, productID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete cart item: %w", err)
		}

		if err := r.refreshTotals(ctx, tx, cartID); err != nil {
			return err
		}

		return r.appendOperation(ctx, tx, cartID, model.OpRemoveItem, map[string]any{
			"productId": productID,
		})
	})
}

// UpdateItemQuantity sets a line item's quantity and total price directly.
// A matching row may not exist; totals are still recomputed and the operation
// logged, mirroring the remove no-op semantics.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID string, productID string, quantity int) error {
	return r.inCartTx(ctx, cartID, "updateQuantity", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE cart_items
			SET quantity = $3,
			    total_price_cents = unit_price_cents * $3,
			    updated_at = NOW()
			WHERE cart_id = $1 AND product_id = $2`,
			cartID, productID, quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to update cart item quantity: %w", err)
		}

		if err := r.refreshTotals(ctx, tx, cartID); err != nil {
			return err
		}

		return r.appendOperation(ctx, tx, cartID, model.OpUpdateQuantity, map[string]any{
			"productId": productID,
			"quantity":  quantity,
		})
	})
}

// ApplyCouponDiscount overwrites the cart's discount and total with the
// coupon-derived values. Note: the next non-coupon mutation recomputes the
// discount from the volume rule and silently reverts this value; the
// behaviour is inherited from the original pricing design.
func (r *cartRepository) ApplyCouponDiscount(ctx context.Context, cartID string, code string, discountCents, totalCents int64) error {
	return r.inCartTx(ctx, cartID, "applyCoupon", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE carts
			SET discount_cents = $2, total_cents = $3, updated_at = NOW()
			WHERE id = $1`,
			cartID, discountCents, totalCents,
		)
		if err != nil {
			return fmt.Errorf("failed to update cart discount: %w", err)
		}

		return r.appendOperation(ctx, tx, cartID, model.OpApplyCoupon, map[string]any{
			"code": code,
		})
	})
}

// FindActiveCouponByCode retrieves a coupon by code, excluding inactive and
// expired coupons as of now.
func (r *cartRepository) FindActiveCouponByCode(ctx context.Context, code string, now time.Time) (*model.Coupon, error) {
	query := `
		SELECT id, code, discount_type, discount_value, min_amount_cents,
		       max_discount_cents, active, expires_at
		FROM coupons
		WHERE code = $1 AND active = TRUE
		AND (expires_at IS NULL OR expires_at > $2)
	`

	var coupon model.Coupon
	err := r.pool.QueryRow(ctx, query, code, now).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.DiscountType,
		&coupon.DiscountValue,
		&coupon.MinAmountCents,
		&coupon.MaxDiscountCents,
		&coupon.Active,
		&coupon.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("coupon not found or ineligible")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &coupon, nil
}

// UpsertCoupon inserts a coupon definition or updates the row with the same
// code. Runs at startup seeding, so a plain update-then-insert suffices.
func (r *cartRepository) UpsertCoupon(ctx context.Context, coupon *model.Coupon) error {
	updateQuery := `
		UPDATE coupons
		SET discount_type = $2, discount_value = $3, min_amount_cents = $4,
		    max_discount_cents = $5, active = $6, expires_at = $7
		WHERE code = $1
	`

	tag, err := r.pool.Exec(ctx, updateQuery,
		coupon.Code,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinAmountCents,
		coupon.MaxDiscountCents,
		coupon.Active,
		coupon.ExpiresAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to update coupon")
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	insertQuery := `
		INSERT INTO coupons (id, code, discount_type, discount_value, min_amount_cents,
		                     max_discount_cents, active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	id := coupon.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err = r.pool.Exec(ctx, insertQuery,
		id,
		coupon.Code,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinAmountCents,
		coupon.MaxDiscountCents,
		coupon.Active,
		coupon.ExpiresAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to insert coupon")
		return fmt.Errorf("failed to insert coupon: %w", err)
	}

	return nil
}

// ListOperations returns the cart's ledger entries, newest first.
func (r *cartRepository) ListOperations(ctx context.Context, cartID string) ([]model.Operation, error) {
	query := `
		SELECT id, cart_id, operation_type, details, created_at
		FROM cart_operations
		WHERE cart_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to query cart operations")
		return nil, fmt.Errorf("failed to query cart operations: %w", err)
	}
	defer rows.Close()

	operations := []model.Operation{}
	for rows.Next() {
		var op model.Operation
		err := rows.Scan(&op.ID, &op.CartID, &op.OperationType, &op.Details, &op.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart operation row")
			return nil, fmt.Errorf("failed to scan cart operation: %w", err)
		}
		operations = append(operations, op)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart operation rows")
		return nil, fmt.Errorf("error iterating cart operations: %w", err)
	}

	return operations, nil
}

// inCartTx runs fn in a transaction holding the cart's row lock. The lock
// serializes all read-modify-write sequences against one cart while leaving
// other carts uncontended. A missing cart surfaces as NotFound before any
// write happens.
func (r *cartRepository) inCartTx(ctx context.Context, cartID, operation string, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var lockedID string
	err = tx.QueryRow(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("cart_id", cartID).Str("operation", operation).Msg("cart not found")
			return model.NewNotFound("cart not found", operation, "cart")
		}
		return fmt.Errorf("failed to lock cart: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// refreshTotals recomputes the cart's stored totals from its line items
// within the caller's transaction. This is where the automatic volume
// discount applies, clobbering any previously applied coupon discount.
func (r *cartRepository) refreshTotals(ctx context.Context, tx pgx.Tx, cartID string) error {
	var subtotal int64
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_price_cents), 0) FROM cart_items WHERE cart_id = $1`,
		cartID,
	).Scan(&subtotal)
	if err != nil {
		return fmt.Errorf("failed to sum cart items: %w", err)
	}

	totals := pricing.Compute(subtotal)

	_, err = tx.Exec(ctx, `
		UPDATE carts
		SET subtotal_cents = $2, discount_cents = $3, shipping_cents = $4,
		    total_cents = $5, updated_at = NOW()
		WHERE id = $1`,
		cartID, totals.SubtotalCents, totals.DiscountCents, totals.ShippingCents, totals.TotalCents,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart totals: %w", err)
	}

	return nil
}

// appendOperation writes an immutable ledger entry within the caller's
// transaction.
func (r *cartRepository) appendOperation(ctx context.Context, tx pgx.Tx, cartID, operationType string, details map[string]any) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO cart_operations (id, cart_id, operation_type, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), cartID, operationType, details, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append cart operation: %w", err)
	}

	return nil
}
