package advisory

import (
	"context"
	"errors"
	"fmt"

	"cargo-broker/internal/domain/quote"
	"cargo-broker/internal/pricing"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var ErrNoActiveTracking = errors.New("request has no active tracking")

// Currency sources reported with a resolved currency.
const (
	SourceStatic  = "static"
	SourceOracle  = "oracle"
	SourceDefault = "default"
)

type LocalCurrency struct {
	Currency pricing.CurrencyInfo `json:"currency"`
	Source   string               `json:"source"`
	// Stale is set when a newer lookup for the same client superseded this one.
	Stale bool `json:"stale"`
	// Amount is the requested USD amount converted for display, if any.
	Amount *pricing.Money `json:"amount,omitempty"`
}

type TrackingSnapshot struct {
	RequestID   string           `json:"requestId"`
	TrackingID  string           `json:"trackingId"`
	Position    TrackingPosition `json:"position"`
	Origin      *Coordinates     `json:"origin,omitempty"`
	Destination *Coordinates     `json:"destination,omitempty"`
}

type QuoteSuggestion struct {
	Suggestion *PriceSuggestion   `json:"suggestion,omitempty"`
	Breakdown  *pricing.Breakdown `json:"breakdown,omitempty"`
	Preflight  *RoutePreflight    `json:"preflight,omitempty"`
}

// Service composes guarded oracle lookups for the presentation layer. None of
// its results are authoritative and none of them mutate requests.
type Service struct {
	guard   *Guard
	tracker *Tracker
	lookups singleflight.Group
}

func NewService(guard *Guard) *Service {
	return &Service{
		guard:   guard,
		tracker: NewTracker(),
	}
}

func (s *Service) Guard() *Guard {
	return s.guard
}

// LocalCurrency resolves the display currency for a destination: static
// table first, then the oracle, then USD.
func (s *Service) LocalCurrency(ctx context.Context, clientID, destination string) LocalCurrency {
	ticket := s.tracker.Begin("currency:"+clientID, pricing.NormalizeLocation(destination))

	result := s.resolveCurrency(ctx, destination)
	result.Stale = !ticket.Current()
	return result
}

// LocalizeAmount converts a USD amount into the resolved currency for display.
// Stored amounts are never converted.
func (r *LocalCurrency) LocalizeAmount(amountUSD float64) {
	localized := pricing.Localize(pricing.FromFloat(amountUSD), r.Currency)
	r.Amount = &localized
}

// CurrencyAt resolves the currency used at a coordinate pair, USD when unknown.
func (s *Service) CurrencyAt(ctx context.Context, at Coordinates) CurrencyCode {
	return s.guard.CurrencyForCoords(ctx, at)
}

func (s *Service) resolveCurrency(ctx context.Context, destination string) LocalCurrency {
	if info, ok := pricing.StaticCurrency(destination); ok {
		return LocalCurrency{Currency: info, Source: SourceStatic}
	}

	key := pricing.NormalizeLocation(destination)
	if key == "" {
		return LocalCurrency{Currency: pricing.USD, Source: SourceDefault}
	}

	// The shared lookup runs detached so one caller leaving does not fail the
	// others waiting on the same flight.
	flight := s.lookups.DoChan(key, func() (interface{}, error) {
		return s.guard.CurrencyForLocation(context.WithoutCancel(ctx), destination), nil
	})

	var info pricing.CurrencyInfo
	select {
	case res := <-flight:
		info = res.Val.(pricing.CurrencyInfo)
	case <-ctx.Done():
		return LocalCurrency{Currency: pricing.USD, Source: SourceDefault}
	}
	if info.Code == pricing.USD.Code && info.RateToUSD == pricing.USD.RateToUSD {
		return LocalCurrency{Currency: info, Source: SourceDefault}
	}
	return LocalCurrency{Currency: info, Source: SourceOracle}
}

// TrackingSnapshot fetches the simulated position and both route endpoints
// concurrently.
func (s *Service) TrackingSnapshot(ctx context.Context, req *quote.Request) (*TrackingSnapshot, error) {
	if req == nil || !req.HasActiveTracking() {
		return nil, ErrNoActiveTracking
	}

	snap := &TrackingSnapshot{RequestID: req.ID, TrackingID: req.TrackingID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Position = s.guard.SimulateTracking(gctx, req.Origin, req.Destination, req.TrackingID)
		return nil
	})
	g.Go(func() error {
		snap.Origin = s.guard.Geocode(gctx, req.Origin)
		return nil
	})
	g.Go(func() error {
		snap.Destination = s.guard.Geocode(gctx, req.Destination)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tracking snapshot: %w", err)
	}
	return snap, nil
}

// SuggestQuote proposes a total for a pending request and splits it with the
// given fee percent. The suggestion is advisory only.
func (s *Service) SuggestQuote(ctx context.Context, req *quote.Request, ratePercent float64) (*QuoteSuggestion, error) {
	facts := CargoFacts{
		Origin:      req.Origin,
		Destination: req.Destination,
		CargoType:   req.CargoType,
		WeightKg:    req.WeightKg(),
	}

	out := &QuoteSuggestion{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Suggestion = s.guard.SuggestPrice(gctx, facts)
		return nil
	})
	g.Go(func() error {
		out.Preflight = s.guard.PreflightRoute(gctx, req.Origin, req.Destination)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("quote suggestion: %w", err)
	}

	if out.Suggestion != nil {
		b := pricing.Compute(pricing.FromFloat(out.Suggestion.Price), ratePercent)
		out.Breakdown = &b
	}
	return out, nil
}

// AnalyzeCargo returns a short operational note for a submission.
func (s *Service) AnalyzeCargo(ctx context.Context, facts CargoFacts) string {
	return s.guard.AnalyzeCargo(ctx, facts)
}

// OperationsSummary condenses the request collection into a short note.
func (s *Service) OperationsSummary(ctx context.Context, requests []*quote.Request) string {
	lines := make([]string, 0, len(requests))
	for _, r := range requests {
		lines = append(lines, fmt.Sprintf("%s: %s->%s", r.Status, r.Origin, r.Destination))
	}
	return s.guard.Summarize(ctx, lines)
}
