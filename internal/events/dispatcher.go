package events

import (
	"context"
	"sync"
	"time"

	"cargo-broker/internal/logger"

	"go.uber.org/zap"
)

// Dispatcher queues events and publishes them from a background worker so a
// slow or failing broker never holds up a lifecycle transition.
type Dispatcher struct {
	publisher Publisher
	timeout   time.Duration
	queue     chan Event

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup

	metrics *MetricsTracker
}

func NewDispatcher(publisher Publisher, bufferSize int, timeout time.Duration) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		publisher: publisher,
		timeout:   timeout,
		queue:     make(chan Event, bufferSize),
		metrics:   NewMetricsTracker(),
	}
}

// Start launches the single publishing worker; one worker keeps event order.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.worker()

	logger.Info("Event dispatcher started", zap.Int("buffer_size", cap(d.queue)))
}

// Stop drains queued events, then closes the publisher.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()

	if err := d.publisher.Close(); err != nil {
		logger.Warn("Event publisher close failed", zap.Error(err))
	}
	logger.Info("Event dispatcher stopped")
}

// Emit queues event, dropping it when the buffer is full or the dispatcher
// has stopped.
func (d *Dispatcher) Emit(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return
	}

	select {
	case d.queue <- event:
		d.metrics.Update(func(m *DispatchMetrics) {
			m.EventsQueued++
			m.BufferSize = len(d.queue)
		})
	default:
		logger.Warn("Event buffer full, dropping event",
			zap.String("event", event.Type),
			zap.String("request_id", event.RequestID),
		)
		d.metrics.Update(func(m *DispatchMetrics) {
			m.EventsDropped++
		})
	}
}

func (d *Dispatcher) Metrics() DispatchMetrics {
	return d.metrics.Snapshot()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for event := range d.queue {
		start := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.publisher.Publish(ctx, event)
		cancel()

		if err != nil {
			logger.Error("Failed to publish event",
				zap.String("event", event.Type),
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			d.metrics.Update(func(m *DispatchMetrics) {
				m.EventsFailed++
				m.BufferSize = len(d.queue)
			})
			continue
		}

		d.metrics.Update(func(m *DispatchMetrics) {
			m.EventsPublished++
			m.LastPublishedAt = time.Now()
			m.BufferSize = len(d.queue)

			elapsed := time.Since(start)
			if m.AveragePublishTime == 0 {
				m.AveragePublishTime = elapsed
			} else {
				m.AveragePublishTime = (m.AveragePublishTime + elapsed) / 2
			}
		})
	}
}
