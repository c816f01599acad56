package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"cargo-broker/internal/domain/partner"
	"cargo-broker/internal/domain/quote"
	"cargo-broker/internal/infrastructure/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *kv.MemoryBackend, *clock) {
	t.Helper()
	backend := kv.NewMemoryBackend()
	clk := &clock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return New(backend, WithClock(clk.Now)), backend, clk
}

func TestIsBlobExpired(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsBlobExpired(now.Add(-6*day), now, DefaultTTL))
	assert.False(t, IsBlobExpired(now.Add(-DefaultTTL), now, DefaultTTL))
	assert.True(t, IsBlobExpired(now.Add(-DefaultTTL-time.Millisecond), now, DefaultTTL))
	assert.True(t, IsBlobExpired(now.Add(-8*day), now, DefaultTTL))
}

func TestIsItemExpired(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsItemExpired(now.Add(-6*day), now, DefaultTTL))
	assert.False(t, IsItemExpired(now.Add(-DefaultTTL+time.Millisecond), now, DefaultTTL))
	assert.True(t, IsItemExpired(now.Add(-DefaultTTL), now, DefaultTTL))
	assert.True(t, IsItemExpired(now.Add(-8*day), now, DefaultTTL))
	assert.True(t, IsItemExpired(time.Time{}, now, DefaultTTL))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	require.NoError(t, s.Save(ctx, "numbers", []int{1, 2, 3}))

	got, ok := Load[[]int](ctx, s, "numbers")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSaveOutlivesCancelledCaller(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Save(ctx, "k", []string{"a"}))

	got, ok := Load[[]string](context.Background(), s, "k")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got)
}

func TestLoadMissingKey(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, ok := Load[[]int](context.Background(), s, "absent")
	assert.False(t, ok)
}

func TestLoadExpiredBlobIsPurged(t *testing.T) {
	ctx := context.Background()
	s, backend, clk := newTestStore(t)

	require.NoError(t, s.Save(ctx, "numbers", []int{1}))
	clk.Advance(8 * day)

	_, ok := Load[[]int](ctx, s, "numbers")
	assert.False(t, ok)

	_, exists, err := backend.Get(ctx, "numbers")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadMalformedPayload(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := newTestStore(t)

	require.NoError(t, backend.Put(ctx, "broken", []byte("{not json")))
	_, ok := Load[[]int](ctx, s, "broken")
	assert.False(t, ok)

	require.NoError(t, backend.Put(ctx, "no-timestamp", []byte(`{"data":[1]}`)))
	_, ok = Load[[]int](ctx, s, "no-timestamp")
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "wrong-shape", map[string]string{"a": "b"}))
	_, ok = Load[[]int](ctx, s, "wrong-shape")
	assert.False(t, ok)
}

type failingBackend struct {
	*kv.MemoryBackend
}

func (failingBackend) Put(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func TestSaveFailureIsReturnedNotPanicked(t *testing.T) {
	s := New(failingBackend{kv.NewMemoryBackend()})

	err := s.Save(context.Background(), "numbers", []int{1})
	assert.EqualError(t, err, "quota exceeded")

	err = s.Save(context.Background(), "bad", make(chan int))
	assert.Error(t, err)
}

func TestLoadRequestsFiltersStaleItems(t *testing.T) {
	ctx := context.Background()
	s, _, clk := newTestStore(t)
	c := NewCollections(s)
	now := clk.Now()

	requests := []*quote.Request{
		{ID: "req-old", Status: quote.StatusPending, CreatedAt: now.Add(-8 * day)},
		{ID: "req-recent", Status: quote.StatusPending, CreatedAt: now.Add(-6 * day)},
		{ID: "req-new", Status: quote.StatusPending, CreatedAt: now},
	}
	require.NoError(t, c.SaveRequests(ctx, requests))

	loaded := c.LoadRequests(ctx)

	ids := make([]string, 0, len(loaded))
	for _, r := range loaded {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"req-recent", "req-new"}, ids)
}

func TestLoadRequestsDropsUndecodableItems(t *testing.T) {
	ctx := context.Background()
	s, _, clk := newTestStore(t)
	c := NewCollections(s)

	require.NoError(t, s.Save(ctx, KeyRequests, []any{
		map[string]any{"id": "req-ok", "createdAt": clk.Now().Format(time.RFC3339)},
		map[string]any{"id": "req-bad", "createdAt": "yesterday-ish"},
		map[string]any{"id": "req-missing"},
	}))

	loaded := c.LoadRequests(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, "req-ok", loaded[0].ID)
}

func TestCollectionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	c := NewCollections(s)

	_, ok := c.LoadPartners(ctx)
	assert.False(t, ok)

	require.NoError(t, c.SavePartners(ctx, partner.Seed()))
	partners, ok := c.LoadPartners(ctx)
	require.True(t, ok)
	assert.Len(t, partners, 3)
	assert.Equal(t, "Blue Horizon Logistics", partners[0].Name)

	require.NoError(t, c.SaveDefaultFee(ctx, 12.5))
	fee, ok := c.LoadDefaultFee(ctx)
	require.True(t, ok)
	assert.Equal(t, 12.5, fee)

	require.NoError(t, c.SaveBlocked(ctx, map[string][]string{"client-1": {"p2"}}))
	blocked, ok := c.LoadBlocked(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"p2"}, blocked["client-1"])
}
