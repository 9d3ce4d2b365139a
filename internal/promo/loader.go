package promo

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader that reads code lists from the local file system.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "promo-file-loader").Logger(),
	}
}

// Load reads a gzipped code list from path.
func (l *fileLoader) Load(ctx context.Context, path string) (CodeSet, error) {
	f, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open promo file")
		return nil, fmt.Errorf("failed to open promo file %s: %w", path, err)
	}
	defer f.Close()

	set, err := readCodes(ctx, f)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to load promo file")
		return nil, fmt.Errorf("promo file %s: %w", path, err)
	}

	l.logger.Info().Str("file", path).Int("codes", set.Size()).Msg("promo file loaded")
	return set, nil
}
