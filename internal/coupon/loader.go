package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for local JSON definition files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon definitions loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a JSON array of coupon definitions from a local file.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]Definition, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon definitions")

	data, err := os.ReadFile(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read coupon file")
		return nil, fmt.Errorf("failed to read coupon file %s: %w", filePath, err)
	}

	var defs []Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to parse coupon file")
		return nil, fmt.Errorf("failed to parse coupon file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons_loaded", len(defs)).
		Msg("coupon definitions loaded")

	return defs, nil
}
