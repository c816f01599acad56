package partner

import "context"

// Repository defines the interface for the partner directory
type Repository interface {
	List(ctx context.Context) ([]*Partner, error)
	GetByID(ctx context.Context, partnerID string) (*Partner, error)
	Modify(ctx context.Context, partnerID string, fn func(p *Partner) error) (*Partner, error)
}

// BlockList is the per-client set of excluded partners.
type BlockList interface {
	IsBlocked(ctx context.Context, clientID, partnerID string) (bool, error)
	Blocked(ctx context.Context, clientID string) ([]string, error)

	// Toggle flips membership and returns the new state.
	Toggle(ctx context.Context, clientID, partnerID string) (bool, error)
}
