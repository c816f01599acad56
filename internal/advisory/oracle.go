package advisory

import (
	"context"
	"errors"

	"cargo-broker/internal/pricing"
)

var (
	ErrOffline     = errors.New("advisory service offline")
	ErrRateLimited = errors.New("advisory service rate limited")
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CurrencyCode struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

type PriceSuggestion struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type TrackingPosition struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Status string  `json:"status"`
}

type RoutePreflight struct {
	Difficulty    int    `json:"difficulty"`
	EstimatedDays string `json:"estimatedDays"`
	Warning       string `json:"warning"`
}

// CargoFacts describes a shipment for price and route lookups.
type CargoFacts struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	CargoType   string  `json:"cargoType"`
	WeightKg    float64 `json:"weight"`
}

// Oracle is a non-authoritative lookup service. Any call may fail or be slow.
type Oracle interface {
	SuggestPrice(ctx context.Context, facts CargoFacts) (*PriceSuggestion, error)
	CurrencyForLocation(ctx context.Context, location string) (pricing.CurrencyInfo, error)
	CurrencyForCoords(ctx context.Context, at Coordinates) (CurrencyCode, error)
	Geocode(ctx context.Context, location string) (*Coordinates, error)
	SimulateTracking(ctx context.Context, origin, destination, trackingID string) (TrackingPosition, error)
	Summarize(ctx context.Context, lines []string) (string, error)
	AnalyzeCargo(ctx context.Context, facts CargoFacts) (string, error)
	PreflightRoute(ctx context.Context, origin, destination string) (RoutePreflight, error)
}

// Fallback values returned when the oracle cannot answer.
const (
	FallbackSummary  = "Pipeline status locally cached. All current loads are accounted for in local storage."
	FallbackAnalysis = "• Standard routing via local hubs active.\n• Estimated transit follows cached benchmarks."
	EmptySummary     = "Standby."
)

var (
	FallbackCoordsCurrency = CurrencyCode{Code: "USD", Symbol: "$"}
	FallbackTracking       = TrackingPosition{Lat: 0, Lng: 0, Status: "Offline - Waiting for signal"}
	FallbackPreflight      = RoutePreflight{Difficulty: 25, EstimatedDays: "Check when online", Warning: "Offline Mode: Route analysis simplified."}
)
