package coupon

import (
	"context"
	"fmt"

	"shopcart/internal/model"

	"github.com/rs/zerolog"
)

// Seed validates the loaded definitions and upserts each into the store.
// Seeding is all-or-nothing on validation: a malformed definition aborts
// before any write.
func Seed(ctx context.Context, defs []Definition, store Store, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "coupon-seeder").Logger()

	for i, def := range defs {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("invalid coupon definition %d (%s): %w", i, def.Code, err)
		}
	}

	for _, def := range defs {
		coupon := &model.Coupon{
			Code:             def.Code,
			DiscountType:     def.DiscountType,
			DiscountValue:    def.DiscountValue,
			MinAmountCents:   def.MinAmountCents,
			MaxDiscountCents: def.MaxDiscountCents,
			Active:           def.Active,
			ExpiresAt:        def.ExpiresAt,
		}

		if err := store.UpsertCoupon(ctx, coupon); err != nil {
			return fmt.Errorf("failed to seed coupon %s: %w", def.Code, err)
		}

		logger.Debug().Str("code", def.Code).Msg("coupon seeded")
	}

	logger.Info().Int("count", len(defs)).Msg("coupon definitions seeded")

	return nil
}
