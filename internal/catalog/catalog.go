package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Product is the catalogue snapshot of a product: identifier, display name
// and current unit price in minor-units.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// Gateway looks up products in the catalogue. Lookup returns (nil, nil) when
// the product does not exist.
type Gateway interface {
	Lookup(ctx context.Context, productID string) (*Product, error)
}

// pgGateway implements Gateway against the products table.
type pgGateway struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresGateway creates a PostgreSQL-backed catalogue gateway.
func NewPostgresGateway(pool *pgxpool.Pool, logger zerolog.Logger) Gateway {
	return &pgGateway{
		pool:   pool,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Lookup retrieves a product's name and current unit price.
func (g *pgGateway) Lookup(ctx context.Context, productID string) (*Product, error) {
	query := `
		SELECT id, name, price_cents
		FROM products
		WHERE id = $1
	`

	var p Product
	err := g.pool.QueryRow(ctx, query, productID).Scan(&p.ID, &p.Name, &p.PriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			g.logger.Debug().Str("product_id", productID).Msg("product not found")
			return nil, nil
		}
		g.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}
