package events

import (
	"sync"
	"time"
)

// DispatchMetrics tracks event delivery
type DispatchMetrics struct {
	EventsQueued       int64         `json:"events_queued"`
	EventsPublished    int64         `json:"events_published"`
	EventsFailed       int64         `json:"events_failed"`
	EventsDropped      int64         `json:"events_dropped"`
	LastPublishedAt    time.Time     `json:"last_published_at"`
	AveragePublishTime time.Duration `json:"average_publish_time"`
	BufferSize         int           `json:"buffer_size"`
}

// MetricsTracker provides a goroutine-safe wrapper around DispatchMetrics.
type MetricsTracker struct {
	mu      sync.RWMutex
	metrics DispatchMetrics
}

func NewMetricsTracker() *MetricsTracker {
	return &MetricsTracker{}
}

// Update applies a mutation in a thread-safe way.
func (t *MetricsTracker) Update(fn func(*DispatchMetrics)) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fn(&t.metrics)
}

func (t *MetricsTracker) Snapshot() DispatchMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.metrics
}
