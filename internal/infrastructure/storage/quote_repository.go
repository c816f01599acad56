package storage

import (
	"context"
	"strings"
	"sync"

	"cargo-broker/internal/domain/quote"
	"cargo-broker/internal/store"
)

// QuoteRepository keeps the request collection in memory and flushes the
// whole collection to the expiring store after every change. The in-memory
// copy stays authoritative when a flush fails.
type QuoteRepository struct {
	mu          sync.Mutex
	requests    []*quote.Request // newest first
	collections *store.Collections
}

func NewQuoteRepository(ctx context.Context, collections *store.Collections) *QuoteRepository {
	return &QuoteRepository{
		requests:    collections.LoadRequests(ctx),
		collections: collections,
	}
}

func (r *QuoteRepository) persist(ctx context.Context) {
	// Save logs its own failures
	_ = r.collections.SaveRequests(ctx, r.requests)
}

func (r *QuoteRepository) indexOf(requestID string) int {
	for i, req := range r.requests {
		if req.ID == requestID {
			return i
		}
	}
	return -1
}

func (r *QuoteRepository) Create(ctx context.Context, request *quote.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(request.ID) >= 0 {
		return quote.ErrRequestAlreadyExists
	}

	r.requests = append([]*quote.Request{request.Clone()}, r.requests...)
	r.persist(ctx)
	return nil
}

func (r *QuoteRepository) GetByID(ctx context.Context, requestID string) (*quote.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(requestID)
	if i < 0 {
		return nil, quote.ErrRequestNotFound
	}
	return r.requests[i].Clone(), nil
}

func (r *QuoteRepository) List(ctx context.Context, filter *quote.Filter) ([]*quote.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*quote.Request, 0, len(r.requests))
	for _, req := range r.requests {
		if matches(req, filter) {
			result = append(result, req.Clone())
		}
	}
	return result, nil
}

func matches(req *quote.Request, filter *quote.Filter) bool {
	if filter == nil {
		return true
	}
	if filter.Status != nil && req.Status != *filter.Status {
		return false
	}
	if filter.PartnerID != "" && req.PartnerID != filter.PartnerID {
		return false
	}
	if filter.ClientID != "" && req.ClientID != filter.ClientID {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		haystack := strings.ToLower(strings.Join([]string{
			req.ID, req.ClientName, req.Origin, req.Destination, req.CargoType,
		}, " "))
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func (r *QuoteRepository) Modify(ctx context.Context, requestID string, fn func(req *quote.Request) error) (*quote.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(requestID)
	if i < 0 {
		return nil, quote.ErrRequestNotFound
	}

	working := r.requests[i].Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	r.requests[i] = working
	r.persist(ctx)
	return working.Clone(), nil
}

func (r *QuoteRepository) Retain(ctx context.Context, keep func(req *quote.Request) bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.requests[:0:0]
	for _, req := range r.requests {
		if keep(req) {
			kept = append(kept, req)
		}
	}

	removed := len(r.requests) - len(kept)
	if removed > 0 {
		r.requests = kept
		r.persist(ctx)
	}
	return removed, nil
}
