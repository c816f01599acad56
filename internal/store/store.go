package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cargo-broker/internal/logger"

	"go.uber.org/zap"
)

// DefaultTTL is the retention horizon for persisted collections.
const DefaultTTL = 7 * 24 * time.Hour

// Backend is the raw persistent key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type envelope struct {
	Data      any   `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

type rawEnvelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp *int64          `json:"timestamp"`
}

// Store wraps values with a write timestamp and drops them once they age
// past the TTL.
type Store struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// IsBlobExpired reports whether a value written at ts is older than ttl.
func IsBlobExpired(ts, now time.Time, ttl time.Duration) bool {
	return now.Sub(ts) > ttl
}

// IsItemExpired reports whether an item created at createdAt has reached ttl.
// A zero creation time counts as expired.
func IsItemExpired(createdAt, now time.Time, ttl time.Duration) bool {
	if createdAt.IsZero() {
		return true
	}
	return !(now.Sub(createdAt) < ttl)
}

// Save overwrites key with data stamped at the current time. Failures are
// logged and returned; callers treat them as non-fatal.
func (s *Store) Save(ctx context.Context, key string, data any) error {
	payload, err := json.Marshal(envelope{Data: data, Timestamp: s.now().UnixMilli()})
	if err != nil {
		logger.Error("Store save failed",
			zap.String("key", key),
			zap.String("event", "store_save_failed"),
			zap.Error(err),
		)
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	// Applied changes are written even if the caller has gone away
	if err := s.backend.Put(context.WithoutCancel(ctx), key, payload); err != nil {
		logger.Error("Store save failed",
			zap.String("key", key),
			zap.String("event", "store_save_failed"),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// raw returns the unwrapped data for key, or false when the key is absent,
// malformed or expired. Expired entries are deleted.
func (s *Store) raw(ctx context.Context, key string) (json.RawMessage, bool) {
	value, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		logger.Error("Store load failed",
			zap.String("key", key),
			zap.String("event", "store_load_failed"),
			zap.Error(err),
		)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var env rawEnvelope
	if err := json.Unmarshal(value, &env); err != nil || env.Timestamp == nil || len(env.Data) == 0 {
		logger.Warn("Store entry malformed",
			zap.String("key", key),
			zap.String("event", "store_entry_malformed"),
		)
		return nil, false
	}

	if IsBlobExpired(time.UnixMilli(*env.Timestamp), s.now(), s.ttl) {
		logger.Info("Store entry expired, purging",
			zap.String("key", key),
			zap.String("event", "store_entry_expired"),
		)
		if err := s.backend.Delete(ctx, key); err != nil {
			logger.Error("Store purge failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	return env.Data, true
}

// Load reads key into T. It returns false for absent, malformed or expired
// entries; none of these are errors.
func Load[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var out T
	data, ok := s.raw(ctx, key)
	if !ok {
		return out, false
	}
	if string(data) == "null" {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn("Store entry malformed",
			zap.String("key", key),
			zap.String("event", "store_entry_malformed"),
			zap.Error(err),
		)
		var zero T
		return zero, false
	}
	return out, true
}
