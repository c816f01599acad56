package quote

import "context"

// Repository defines the interface for quote request storage
type Repository interface {
	Create(ctx context.Context, request *Request) error
	GetByID(ctx context.Context, requestID string) (*Request, error)
	List(ctx context.Context, filter *Filter) ([]*Request, error)

	// Modify applies fn to the stored request atomically and persists the
	// result. An error from fn leaves the request unchanged.
	Modify(ctx context.Context, requestID string, fn func(r *Request) error) (*Request, error)

	// Retain drops every request for which keep returns false and reports
	// how many were removed.
	Retain(ctx context.Context, keep func(r *Request) bool) (int, error)
}

// Filter represents filtering options for listing requests
type Filter struct {
	Status    *Status
	PartnerID string
	ClientID  string

	// Search matches id, client name, origin, destination or cargo type
	Search string
}
