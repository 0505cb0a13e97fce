package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache key for product snapshots: catalog:product:{product_id}
const productKeyFmt = "catalog:product:%s"

// TTLProduct bounds how stale a cached product snapshot may be.
var TTLProduct = 5 * time.Minute

// cachedGateway decorates a Gateway with a Redis read-through cache.
// Cache failures degrade to the underlying gateway and never fail a lookup.
type cachedGateway struct {
	next   Gateway
	rdb    *redis.Client
	logger zerolog.Logger
}

// NewCachedGateway wraps a gateway with a Redis cache. Only found products are
// cached; not-found results always hit the underlying gateway.
func NewCachedGateway(next Gateway, rdb *redis.Client, logger zerolog.Logger) Gateway {
	return &cachedGateway{
		next:   next,
		rdb:    rdb,
		logger: logger.With().Str("component", "catalog-cache").Logger(),
	}
}

func (g *cachedGateway) Lookup(ctx context.Context, productID string) (*Product, error) {
	key := fmt.Sprintf(productKeyFmt, productID)

	payload, err := g.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var p Product
		if unmarshalErr := json.Unmarshal(payload, &p); unmarshalErr == nil {
			return &p, nil
		}
		g.logger.Warn().Str("key", key).Msg("discarding malformed cached product")
	} else if !errors.Is(err, redis.Nil) {
		g.logger.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	}

	product, err := g.next.Lookup(ctx, productID)
	if err != nil || product == nil {
		return product, err
	}

	if payload, marshalErr := json.Marshal(product); marshalErr == nil {
		if setErr := g.rdb.Set(ctx, key, payload, TTLProduct).Err(); setErr != nil {
			g.logger.Warn().Err(setErr).Str("key", key).Msg("catalog cache write failed")
		}
	}

	return product, nil
}
