package watch

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cargo-broker/internal/domain/quote"
	"cargo-broker/internal/events"
	"cargo-broker/internal/logger"

	"go.uber.org/zap"
)

// RequestSource lists the current request collection.
type RequestSource interface {
	List(ctx context.Context, filter *quote.Filter) ([]*quote.Request, error)
}

// Sweeper removes requests that aged past the store retention.
type Sweeper interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Watcher recomputes the expiring set on a ticker and announces changes. It
// also drives the periodic retention sweep.
type Watcher struct {
	source        RequestSource
	sweeper       Sweeper
	events        events.Emitter
	policy        Policy
	interval      time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	mu   sync.Mutex
	last string
}

func NewWatcher(source RequestSource, sweeper Sweeper, emitter events.Emitter, policy Policy, interval, sweepInterval time.Duration) *Watcher {
	if emitter == nil {
		emitter = events.Discard{}
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &Watcher{
		source:        source,
		sweeper:       sweeper,
		events:        emitter,
		policy:        policy,
		interval:      interval,
		sweepInterval: sweepInterval,
		now:           time.Now,
	}
}

// WithClock replaces the time source.
func (w *Watcher) WithClock(now func() time.Time) *Watcher {
	w.now = now
	return w
}

// Badge derives the current notification badge.
func (w *Watcher) Badge(ctx context.Context) (*Badge, error) {
	requests, err := w.source.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	badge := w.policy.Badge(requests, w.now())
	return &badge, nil
}

// Start runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	sweepTicker := time.NewTicker(w.sweepInterval)
	defer sweepTicker.Stop()

	logger.Info("Expiry watcher started",
		zap.Duration("interval", w.interval),
		zap.Duration("sweep_interval", w.sweepInterval),
	)

	w.Sweep(ctx)
	w.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Expiry watcher stopped")
			return
		case <-ticker.C:
			w.Check(ctx)
		case <-sweepTicker.C:
			w.Sweep(ctx)
			w.Check(ctx)
		}
	}
}

// Check recomputes the expiring set and emits an event when its membership
// changed since the previous check. It reports whether an event was emitted.
func (w *Watcher) Check(ctx context.Context) bool {
	badge, err := w.Badge(ctx)
	if err != nil {
		logger.Error("Failed to compute expiring quotes", zap.Error(err))
		return false
	}

	ids := make([]string, 0, badge.Count)
	for _, r := range badge.Requests {
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)
	key := strings.Join(ids, ",")

	w.mu.Lock()
	changed := key != w.last
	w.last = key
	w.mu.Unlock()

	if !changed {
		return false
	}

	logger.Info("Expiring quotes changed",
		zap.Int("count", badge.Count),
		zap.String("event", "quotes_expiring"),
	)
	w.events.Emit(events.Event{
		Type:       events.TypeQuotesExpiring,
		OccurredAt: badge.ComputedAt.UTC(),
		Payload: map[string]any{
			"count":      badge.Count,
			"requestIds": ids,
		},
	})
	return true
}

func (w *Watcher) Sweep(ctx context.Context) {
	if w.sweeper == nil {
		return
	}
	if _, err := w.sweeper.PurgeExpired(ctx); err != nil {
		logger.Error("Failed to purge expired requests", zap.Error(err))
	}
}
