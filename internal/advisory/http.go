package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cargo-broker/internal/config"
	"cargo-broker/internal/pricing"
)

// HTTPOracle calls a JSON-over-HTTP lookup service at {BaseURL}/{operation}.
type HTTPOracle struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPOracle(cfg config.AdvisoryConfig) *HTTPOracle {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPOracle{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (o *HTTPOracle) call(ctx context.Context, op string, in, out any) error {
	if o.baseURL == "" {
		return ErrOffline
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/"+op, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", op, ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (o *HTTPOracle) SuggestPrice(ctx context.Context, facts CargoFacts) (*PriceSuggestion, error) {
	var out PriceSuggestion
	if err := o.call(ctx, "price-suggestion", facts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *HTTPOracle) CurrencyForLocation(ctx context.Context, location string) (pricing.CurrencyInfo, error) {
	var out pricing.CurrencyInfo
	err := o.call(ctx, "currency", map[string]string{"location": location}, &out)
	if err == nil && out.Code == "" {
		err = fmt.Errorf("currency: empty code for %q", location)
	}
	return out, err
}

func (o *HTTPOracle) CurrencyForCoords(ctx context.Context, at Coordinates) (CurrencyCode, error) {
	var out CurrencyCode
	err := o.call(ctx, "currency-coords", at, &out)
	return out, err
}

func (o *HTTPOracle) Geocode(ctx context.Context, location string) (*Coordinates, error) {
	var out Coordinates
	if err := o.call(ctx, "geocode", map[string]string{"location": location}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *HTTPOracle) SimulateTracking(ctx context.Context, origin, destination, trackingID string) (TrackingPosition, error) {
	var out TrackingPosition
	err := o.call(ctx, "tracking", map[string]string{
		"origin":      origin,
		"destination": destination,
		"trackingId":  trackingID,
	}, &out)
	return out, err
}

func (o *HTTPOracle) Summarize(ctx context.Context, lines []string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	err := o.call(ctx, "summary", map[string][]string{"lines": lines}, &out)
	return out.Text, err
}

func (o *HTTPOracle) AnalyzeCargo(ctx context.Context, facts CargoFacts) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	err := o.call(ctx, "analysis", facts, &out)
	return out.Text, err
}

func (o *HTTPOracle) PreflightRoute(ctx context.Context, origin, destination string) (RoutePreflight, error) {
	var out RoutePreflight
	err := o.call(ctx, "preflight", map[string]string{"origin": origin, "destination": destination}, &out)
	return out, err
}
