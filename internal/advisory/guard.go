package advisory

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"cargo-broker/internal/config"
	"cargo-broker/internal/logger"
	"cargo-broker/internal/pricing"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Guard wraps an Oracle so that every lookup resolves to a value. Rate
// limits are retried with exponential backoff; any other failure, or the
// offline flag, yields the documented fallback immediately.
type Guard struct {
	oracle     Oracle
	offline    atomic.Bool
	maxRetries int
	initial    time.Duration
	factor     float64
}

func NewGuard(oracle Oracle, cfg config.AdvisoryConfig) *Guard {
	g := &Guard{
		oracle:     oracle,
		maxRetries: cfg.MaxRetries,
		initial:    cfg.InitialBackoff,
		factor:     cfg.BackoffFactor,
	}
	if g.initial <= 0 {
		g.initial = 2 * time.Second
	}
	if g.factor < 1 {
		g.factor = 2.5
	}
	if g.maxRetries < 0 {
		g.maxRetries = 0
	}
	g.offline.Store(cfg.Offline)
	return g
}

func (g *Guard) SetOffline(offline bool) {
	g.offline.Store(offline)
}

func (g *Guard) Offline() bool {
	return g.offline.Load()
}

// newBackOff yields waits in [1.0, 1.5] x the current delay.
func (g *Guard) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.initial * 5 / 4
	b.RandomizationFactor = 0.2
	b.Multiplier = g.factor
	b.MaxInterval = 5 * time.Minute
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(g.maxRetries)), ctx)
}

func guarded[T any](ctx context.Context, g *Guard, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if g.Offline() {
		var zero T
		return zero, ErrOffline
	}

	v, err := backoff.RetryNotifyWithData(func() (T, error) {
		v, err := fn(ctx)
		if err != nil && !errors.Is(err, ErrRateLimited) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, g.newBackOff(ctx), func(err error, wait time.Duration) {
		logger.Debug("Advisory rate limited, backing off",
			zap.String("op", op),
			zap.Duration("wait", wait),
		)
	})
	if err != nil {
		logger.Warn("Advisory lookup failed, using fallback",
			zap.String("op", op),
			zap.String("event", "advisory_fallback"),
			zap.Error(err),
		)
	}
	return v, err
}

// SuggestPrice returns nil when no suggestion is available.
func (g *Guard) SuggestPrice(ctx context.Context, facts CargoFacts) *PriceSuggestion {
	v, err := guarded(ctx, g, "price-suggestion", func(ctx context.Context) (*PriceSuggestion, error) {
		return g.oracle.SuggestPrice(ctx, facts)
	})
	if err != nil || v == nil || v.Price <= 0 {
		return nil
	}
	return v
}

func (g *Guard) CurrencyForLocation(ctx context.Context, location string) pricing.CurrencyInfo {
	v, err := guarded(ctx, g, "currency", func(ctx context.Context) (pricing.CurrencyInfo, error) {
		return g.oracle.CurrencyForLocation(ctx, location)
	})
	if err != nil || v.Code == "" {
		return pricing.USD
	}
	if v.RateToUSD <= 0 {
		v.RateToUSD = 1
	}
	return v
}

func (g *Guard) CurrencyForCoords(ctx context.Context, at Coordinates) CurrencyCode {
	v, err := guarded(ctx, g, "currency-coords", func(ctx context.Context) (CurrencyCode, error) {
		return g.oracle.CurrencyForCoords(ctx, at)
	})
	if err != nil || v.Code == "" {
		return FallbackCoordsCurrency
	}
	return v
}

// Geocode returns nil when the location cannot be resolved.
func (g *Guard) Geocode(ctx context.Context, location string) *Coordinates {
	v, err := guarded(ctx, g, "geocode", func(ctx context.Context) (*Coordinates, error) {
		return g.oracle.Geocode(ctx, location)
	})
	if err != nil {
		return nil
	}
	return v
}

func (g *Guard) SimulateTracking(ctx context.Context, origin, destination, trackingID string) TrackingPosition {
	v, err := guarded(ctx, g, "tracking", func(ctx context.Context) (TrackingPosition, error) {
		return g.oracle.SimulateTracking(ctx, origin, destination, trackingID)
	})
	if err != nil {
		return FallbackTracking
	}
	return v
}

func (g *Guard) Summarize(ctx context.Context, lines []string) string {
	if len(lines) == 0 {
		return EmptySummary
	}
	v, err := guarded(ctx, g, "summary", func(ctx context.Context) (string, error) {
		return g.oracle.Summarize(ctx, lines)
	})
	if err != nil || v == "" {
		return FallbackSummary
	}
	return v
}

func (g *Guard) AnalyzeCargo(ctx context.Context, facts CargoFacts) string {
	v, err := guarded(ctx, g, "analysis", func(ctx context.Context) (string, error) {
		return g.oracle.AnalyzeCargo(ctx, facts)
	})
	if err != nil || v == "" {
		return FallbackAnalysis
	}
	return v
}

// PreflightRoute returns nil when either end of the route is missing.
func (g *Guard) PreflightRoute(ctx context.Context, origin, destination string) *RoutePreflight {
	if origin == "" || destination == "" {
		return nil
	}
	v, err := guarded(ctx, g, "preflight", func(ctx context.Context) (RoutePreflight, error) {
		return g.oracle.PreflightRoute(ctx, origin, destination)
	})
	if err != nil {
		fallback := FallbackPreflight
		return &fallback
	}
	return &v
}
