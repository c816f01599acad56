package storage

import (
	"context"
	"sort"
	"sync"

	"cargo-broker/internal/domain/partner"
	"cargo-broker/internal/logger"
	"cargo-broker/internal/store"

	"go.uber.org/zap"
)

type PartnerRepository struct {
	mu          sync.Mutex
	partners    []*partner.Partner
	collections *store.Collections
}

// NewPartnerRepository loads the directory, seeding it when the store is empty.
func NewPartnerRepository(ctx context.Context, collections *store.Collections) *PartnerRepository {
	partners, ok := collections.LoadPartners(ctx)
	if !ok {
		partners = partner.Seed()
		logger.Info("Seeding partner directory",
			zap.Int("partners", len(partners)),
			zap.String("event", "partners_seeded"),
		)
		_ = collections.SavePartners(ctx, partners)
	}

	return &PartnerRepository{
		partners:    partners,
		collections: collections,
	}
}

func (r *PartnerRepository) List(ctx context.Context) ([]*partner.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*partner.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		result = append(result, p.Clone())
	}
	return result, nil
}

func (r *PartnerRepository) GetByID(ctx context.Context, partnerID string) (*partner.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.partners {
		if p.ID == partnerID {
			return p.Clone(), nil
		}
	}
	return nil, partner.ErrPartnerNotFound
}

func (r *PartnerRepository) Modify(ctx context.Context, partnerID string, fn func(p *partner.Partner) error) (*partner.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.partners {
		if p.ID != partnerID {
			continue
		}
		working := p.Clone()
		if err := fn(working); err != nil {
			return nil, err
		}
		r.partners[i] = working
		_ = r.collections.SavePartners(ctx, r.partners)
		return working.Clone(), nil
	}
	return nil, partner.ErrPartnerNotFound
}

// BlockListRepository stores each client's blocked partner IDs.
type BlockListRepository struct {
	mu          sync.Mutex
	blocked     map[string]map[string]struct{}
	collections *store.Collections
}

func NewBlockListRepository(ctx context.Context, collections *store.Collections) *BlockListRepository {
	blocked := make(map[string]map[string]struct{})
	if saved, ok := collections.LoadBlocked(ctx); ok {
		for clientID, ids := range saved {
			set := make(map[string]struct{}, len(ids))
			for _, id := range ids {
				set[id] = struct{}{}
			}
			blocked[clientID] = set
		}
	}

	return &BlockListRepository{
		blocked:     blocked,
		collections: collections,
	}
}

func (r *BlockListRepository) IsBlocked(ctx context.Context, clientID, partnerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.blocked[clientID][partnerID]
	return ok, nil
}

func (r *BlockListRepository) Blocked(ctx context.Context, clientID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sortedKeys(r.blocked[clientID]), nil
}

func (r *BlockListRepository) Toggle(ctx context.Context, clientID, partnerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.blocked[clientID]
	if !ok {
		set = make(map[string]struct{})
		r.blocked[clientID] = set
	}

	_, wasBlocked := set[partnerID]
	if wasBlocked {
		delete(set, partnerID)
		if len(set) == 0 {
			delete(r.blocked, clientID)
		}
	} else {
		set[partnerID] = struct{}{}
	}

	snapshot := make(map[string][]string, len(r.blocked))
	for id, s := range r.blocked {
		snapshot[id] = sortedKeys(s)
	}
	_ = r.collections.SaveBlocked(ctx, snapshot)

	return !wasBlocked, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
