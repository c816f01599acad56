package watch

import (
	"sort"
	"time"

	"cargo-broker/internal/domain/quote"
	"cargo-broker/internal/store"
)

// DefaultWindow is how close to the horizon an accepted quote must be to count
// as expiring soon.
const DefaultWindow = 48 * time.Hour

// Badge is the notification count shown for expiring quotes. It is derived
// from the request collection on every call and never cached.
type Badge struct {
	Count      int              `json:"count"`
	Requests   []*quote.Request `json:"requests"`
	ComputedAt time.Time        `json:"computedAt"`
}

// Policy fixes the validity horizon of an accepted quote and the warning
// window before it.
type Policy struct {
	Horizon time.Duration
	Window  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Horizon: store.DefaultTTL, Window: DefaultWindow}
}

// Remaining is the time left before an accepted request reaches the horizon.
func (p Policy) Remaining(r *quote.Request, now time.Time) (time.Duration, bool) {
	if r.Status != quote.StatusAccepted || r.AcceptedAt == nil {
		return 0, false
	}
	return r.AcceptedAt.Add(p.Horizon).Sub(now), true
}

// ExpiringSoon returns the ACCEPTED requests whose remaining validity is at
// most the window, soonest first. Inputs are not modified.
func (p Policy) ExpiringSoon(requests []*quote.Request, now time.Time) []*quote.Request {
	result := make([]*quote.Request, 0)
	for _, r := range requests {
		remaining, ok := p.Remaining(r, now)
		if ok && remaining <= p.Window {
			result = append(result, r)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AcceptedAt.Before(*result[j].AcceptedAt)
	})
	return result
}

func (p Policy) Badge(requests []*quote.Request, now time.Time) Badge {
	expiring := p.ExpiringSoon(requests, now)
	return Badge{Count: len(expiring), Requests: expiring, ComputedAt: now}
}

// ExpiringSoon applies the default policy.
func ExpiringSoon(requests []*quote.Request, now time.Time) []*quote.Request {
	return DefaultPolicy().ExpiringSoon(requests, now)
}
