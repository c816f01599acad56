package store

import (
	"context"
	"encoding/json"

	"cargo-broker/internal/domain/partner"
	"cargo-broker/internal/domain/quote"
	"cargo-broker/internal/domain/settings"
	"cargo-broker/internal/logger"

	"go.uber.org/zap"
)

const (
	KeyRequests        = "cb_db_requests"
	KeyPartners        = "cb_db_partners"
	KeyPaymentMethods  = "cb_payment_methods"
	KeyDefaultFee      = "cb_default_fee"
	KeyBlockedPartners = "cb_blocked_partners"
)

// Collections exposes typed accessors for each persisted collection.
type Collections struct {
	store *Store
}

func NewCollections(s *Store) *Collections {
	return &Collections{store: s}
}

func (c *Collections) Store() *Store {
	return c.store
}

func (c *Collections) SaveRequests(ctx context.Context, requests []*quote.Request) error {
	if requests == nil {
		requests = []*quote.Request{}
	}
	return c.store.Save(ctx, KeyRequests, requests)
}

// LoadRequests applies both expiry checks: the blob timestamp, then each
// request's own creation time. Undecodable items are dropped.
func (c *Collections) LoadRequests(ctx context.Context) []*quote.Request {
	items, ok := Load[[]json.RawMessage](ctx, c.store, KeyRequests)
	if !ok {
		return []*quote.Request{}
	}

	now := c.store.Now()
	requests := make([]*quote.Request, 0, len(items))
	for _, item := range items {
		var r quote.Request
		if err := json.Unmarshal(item, &r); err != nil {
			logger.Warn("Dropping undecodable request", zap.Error(err))
			continue
		}
		if IsItemExpired(r.CreatedAt, now, c.store.TTL()) {
			continue
		}
		requests = append(requests, &r)
	}
	return requests
}

func (c *Collections) SavePartners(ctx context.Context, partners []*partner.Partner) error {
	return c.store.Save(ctx, KeyPartners, partners)
}

func (c *Collections) LoadPartners(ctx context.Context) ([]*partner.Partner, bool) {
	partners, ok := Load[[]*partner.Partner](ctx, c.store, KeyPartners)
	if !ok || len(partners) == 0 {
		return nil, false
	}
	return partners, true
}

func (c *Collections) SavePaymentMethods(ctx context.Context, methods []settings.PaymentMethod) error {
	return c.store.Save(ctx, KeyPaymentMethods, methods)
}

func (c *Collections) LoadPaymentMethods(ctx context.Context) ([]settings.PaymentMethod, bool) {
	return Load[[]settings.PaymentMethod](ctx, c.store, KeyPaymentMethods)
}

func (c *Collections) SaveDefaultFee(ctx context.Context, percent float64) error {
	return c.store.Save(ctx, KeyDefaultFee, percent)
}

func (c *Collections) LoadDefaultFee(ctx context.Context) (float64, bool) {
	return Load[float64](ctx, c.store, KeyDefaultFee)
}

// SaveBlocked persists the blocked partner IDs keyed by client ID.
func (c *Collections) SaveBlocked(ctx context.Context, blocked map[string][]string) error {
	return c.store.Save(ctx, KeyBlockedPartners, blocked)
}

func (c *Collections) LoadBlocked(ctx context.Context) (map[string][]string, bool) {
	return Load[map[string][]string](ctx, c.store, KeyBlockedPartners)
}
