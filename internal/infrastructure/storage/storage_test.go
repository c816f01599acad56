package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"cargo-broker/internal/domain/partner"
	"cargo-broker/internal/domain/quote"
	"cargo-broker/internal/domain/settings"
	"cargo-broker/internal/infrastructure/kv"
	"cargo-broker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollections(backend store.Backend) *store.Collections {
	return store.NewCollections(store.New(backend))
}

func TestQuoteRepositoryPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()

	repo := NewQuoteRepository(ctx, newCollections(backend))
	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-a", Status: quote.StatusPending, CreatedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-b", Status: quote.StatusPending, CreatedAt: time.Now()}))
	assert.ErrorIs(t, repo.Create(ctx, &quote.Request{ID: "req-a"}), quote.ErrRequestAlreadyExists)

	_, err := repo.Modify(ctx, "req-a", func(r *quote.Request) error {
		r.Status = quote.StatusDenied
		return nil
	})
	require.NoError(t, err)

	reloaded := NewQuoteRepository(ctx, newCollections(backend))
	all, err := reloaded.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "req-b", all[0].ID)
	assert.Equal(t, quote.StatusDenied, all[1].Status)
}

func TestQuoteRepositoryModifyErrorLeavesRequestUntouched(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(ctx, newCollections(kv.NewMemoryBackend()))
	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-a", Status: quote.StatusPending, CreatedAt: time.Now()}))

	boom := errors.New("boom")
	_, err := repo.Modify(ctx, "req-a", func(r *quote.Request) error {
		r.Status = quote.StatusAccepted
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, "req-a")
	require.NoError(t, err)
	assert.Equal(t, quote.StatusPending, got.Status)

	_, err = repo.Modify(ctx, "req-missing", func(*quote.Request) error { return nil })
	assert.ErrorIs(t, err, quote.ErrRequestNotFound)
}

type brokenBackend struct {
	*kv.MemoryBackend
}

func (brokenBackend) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestQuoteRepositoryKeepsStateWhenFlushFails(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(ctx, newCollections(brokenBackend{kv.NewMemoryBackend()}))

	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-a", Status: quote.StatusPending, CreatedAt: time.Now()}))

	got, err := repo.GetByID(ctx, "req-a")
	require.NoError(t, err)
	assert.Equal(t, "req-a", got.ID)
}

func TestRepositoriesPersistAfterCallerCancels(t *testing.T) {
	backend := kv.NewMemoryBackend()
	collections := newCollections(backend)
	setup := context.Background()

	quotes := NewQuoteRepository(setup, collections)
	partners := NewPartnerRepository(setup, collections)
	blocked := NewBlockListRepository(setup, collections)
	settingsRepo := NewSettingsRepository(setup, collections, 10)
	require.NoError(t, quotes.Create(setup, &quote.Request{ID: "req-a", Status: quote.StatusPending, CreatedAt: time.Now()}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quotes.Modify(ctx, "req-a", func(r *quote.Request) error {
		r.Status = quote.StatusAccepted
		return nil
	})
	require.NoError(t, err)
	_, err = partners.Modify(ctx, "p1", func(p *partner.Partner) error {
		p.Availability = partner.AvailabilityLimited
		return nil
	})
	require.NoError(t, err)
	_, err = blocked.Toggle(ctx, "client-001", "p2")
	require.NoError(t, err)
	require.NoError(t, settingsRepo.SetDefaultFeePercent(ctx, 12.5))

	fresh := newCollections(backend)
	reloaded, err := NewQuoteRepository(setup, fresh).GetByID(setup, "req-a")
	require.NoError(t, err)
	assert.Equal(t, quote.StatusAccepted, reloaded.Status)

	p1, err := NewPartnerRepository(setup, fresh).GetByID(setup, "p1")
	require.NoError(t, err)
	assert.Equal(t, partner.AvailabilityLimited, p1.Availability)

	isBlocked, _ := NewBlockListRepository(setup, fresh).IsBlocked(setup, "client-001", "p2")
	assert.True(t, isBlocked)

	fee, _ := NewSettingsRepository(setup, fresh, 10).DefaultFeePercent(setup)
	assert.Equal(t, 12.5, fee)
}

func TestQuoteRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(ctx, newCollections(kv.NewMemoryBackend()))
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-1", ClientID: "c1", PartnerID: "p1", Origin: "Nairobi", Status: quote.StatusPending, CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-2", ClientID: "c2", PartnerID: "p2", Origin: "Hamburg", Status: quote.StatusAccepted, CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-3", ClientID: "c1", PartnerID: "p2", Origin: "Lagos", Status: quote.StatusPending, CreatedAt: now}))

	pending := quote.StatusPending
	byStatus, _ := repo.List(ctx, &quote.Filter{Status: &pending})
	assert.Len(t, byStatus, 2)

	byPartner, _ := repo.List(ctx, &quote.Filter{PartnerID: "p2"})
	assert.Len(t, byPartner, 2)

	byClient, _ := repo.List(ctx, &quote.Filter{ClientID: "c1", PartnerID: "p2"})
	require.Len(t, byClient, 1)
	assert.Equal(t, "req-3", byClient[0].ID)

	bySearch, _ := repo.List(ctx, &quote.Filter{Search: "hamb"})
	require.Len(t, bySearch, 1)
	assert.Equal(t, "req-2", bySearch[0].ID)
}

func TestQuoteRepositoryRetain(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(ctx, newCollections(kv.NewMemoryBackend()))
	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-1", CreatedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &quote.Request{ID: "req-2", CreatedAt: time.Now()}))

	removed, err := repo.Retain(ctx, func(r *quote.Request) bool { return r.ID == "req-2" })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.GetByID(ctx, "req-1")
	assert.ErrorIs(t, err, quote.ErrRequestNotFound)
}

func TestPartnerRepositorySeedsAndPersists(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()

	repo := NewPartnerRepository(ctx, newCollections(backend))
	partners, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, partners, 3)

	_, err = repo.Modify(ctx, "p2", func(p *partner.Partner) error {
		p.Availability = partner.AvailabilityUnavailable
		return nil
	})
	require.NoError(t, err)

	reloaded := NewPartnerRepository(ctx, newCollections(backend))
	p2, err := reloaded.GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, partner.AvailabilityUnavailable, p2.Availability)

	_, err = reloaded.GetByID(ctx, "p404")
	assert.ErrorIs(t, err, partner.ErrPartnerNotFound)
}

func TestBlockListToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	repo := NewBlockListRepository(ctx, newCollections(backend))

	blocked, err := repo.Toggle(ctx, "client-1", "p1")
	require.NoError(t, err)
	assert.True(t, blocked)

	isBlocked, _ := repo.IsBlocked(ctx, "client-1", "p1")
	assert.True(t, isBlocked)
	otherClient, _ := repo.IsBlocked(ctx, "client-2", "p1")
	assert.False(t, otherClient)

	reloaded := NewBlockListRepository(ctx, newCollections(backend))
	ids, _ := reloaded.Blocked(ctx, "client-1")
	assert.Equal(t, []string{"p1"}, ids)

	blocked, err = reloaded.Toggle(ctx, "client-1", "p1")
	require.NoError(t, err)
	assert.False(t, blocked)
	ids, _ = reloaded.Blocked(ctx, "client-1")
	assert.Empty(t, ids)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	repo := NewSettingsRepository(ctx, newCollections(backend), 10)

	methods, _ := repo.PaymentMethods(ctx)
	assert.Len(t, methods, 3)

	require.NoError(t, repo.AddPaymentMethod(ctx, settings.PaymentMethod{ID: "paypal", Name: "PayPal", Icon: "🅿"}))
	assert.ErrorIs(t, repo.AddPaymentMethod(ctx, settings.PaymentMethod{ID: "paypal"}), settings.ErrPaymentMethodExists)
	require.NoError(t, repo.RemovePaymentMethod(ctx, "visa"))
	assert.ErrorIs(t, repo.RemovePaymentMethod(ctx, "visa"), settings.ErrPaymentMethodNotFound)
	require.NoError(t, repo.SetDefaultFeePercent(ctx, 15))

	reloaded := NewSettingsRepository(ctx, newCollections(backend), 10)
	methods, _ = reloaded.PaymentMethods(ctx)
	ids := make([]string, 0, len(methods))
	for _, m := range methods {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"bank", "m-pesa", "paypal"}, ids)

	fee, _ := reloaded.DefaultFeePercent(ctx)
	assert.Equal(t, 15.0, fee)
}
