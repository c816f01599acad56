package events

import (
	"context"
	"time"
)

// Event types emitted by the quote lifecycle
const (
	TypeQuoteSubmitted   = "quote.submitted"
	TypeQuoteAccepted    = "quote.accepted"
	TypeQuoteDenied      = "quote.denied"
	TypeQuoteDelivered   = "quote.delivered"
	TypeQuoteCancelled   = "quote.cancelled"
	TypeFeedbackReceived = "quote.feedback"
	TypeQuotesExpiring   = "quote.expiring"
	TypePartnerUpdated   = "partner.availability"
)

type Event struct {
	Type       string         `json:"type"`
	RequestID  string         `json:"request_id,omitempty"`
	PartnerID  string         `json:"partner_id,omitempty"`
	Status     string         `json:"status,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Key is used for partitioning and routing.
func (e Event) Key() string {
	if e.RequestID != "" {
		return e.RequestID
	}
	return e.PartnerID
}

// Publisher delivers lifecycle events to an external channel.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Emitter is what the core depends on; it must never block a transition.
type Emitter interface {
	Emit(event Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(Event) {}
