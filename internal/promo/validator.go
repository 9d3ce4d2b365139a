package promo

import (
	"context"
	"fmt"

	"dealer-kart/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	minCodeLength = 8
	maxCodeLength = 10
)

// Config controls which code lists are loaded and how a code qualifies.
type Config struct {
	Files        []string
	MinMatches   int
	DiscountRate float64
}

type validator struct {
	sets         []CodeSet
	minMatches   int
	discountRate float64
	logger       zerolog.Logger
}

// NewValidator loads every code list concurrently. A code is valid when it appears in at least
// cfg.MinMatches of them.
func NewValidator(ctx context.Context, cfg Config, loader Loader, logger zerolog.Logger) (Validator, error) {
	logger = logger.With().Str("component", "promo-validator").Logger()

	if cfg.MinMatches < 1 || cfg.MinMatches > len(cfg.Files) {
		return nil, fmt.Errorf("min matches %d out of range for %d files", cfg.MinMatches, len(cfg.Files))
	}

	sets := make([]CodeSet, len(cfg.Files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range cfg.Files {
		i, path := i, path
		g.Go(func() error {
			set, err := loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load promo file %s: %w", path, err)
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("failed to initialise promo validator")
		return nil, err
	}

	total := 0
	for _, s := range sets {
		total += s.Size()
	}
	logger.Info().
		Int("files", len(sets)).
		Int("codes", total).
		Int("min_matches", cfg.MinMatches).
		Msg("promo validator initialised")

	return &validator{
		sets:         sets,
		minMatches:   cfg.MinMatches,
		discountRate: cfg.DiscountRate,
		logger:       logger,
	}, nil
}

// DiscountRate validates code and returns the configured discount rate.
func (v *validator) DiscountRate(ctx context.Context, code string) (float64, error) {
	code = normalize(code)
	if len(code) < minCodeLength || len(code) > maxCodeLength {
		return 0, model.ErrInvalidPromoLength
	}

	matches := 0
	for i, set := range v.sets {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if set.Contains(code) {
			matches++
		}
		if matches >= v.minMatches {
			v.logger.Debug().Str("promo_code", code).Msg("promo code accepted")
			return v.discountRate, nil
		}
		// not enough lists left to reach the threshold
		if matches+len(v.sets)-i-1 < v.minMatches {
			break
		}
	}

	v.logger.Debug().Str("promo_code", code).Int("matches", matches).Msg("promo code rejected")
	return 0, model.ErrInvalidPromoCode
}

func (v *validator) Close() error {
	v.sets = nil
	return nil
}

type disabled struct{}

// NewDisabled returns a validator that rejects every code.
func NewDisabled() Validator {
	return disabled{}
}

func (disabled) DiscountRate(context.Context, string) (float64, error) {
	return 0, model.ErrInvalidPromoCode
}

func (disabled) Close() error { return nil }
