package advisory

import "sync"

// Tracker discards lookups that were superseded before they finished.
// Each slot (for example one client's currency widget) remembers the latest
// lookup; an older ticket for the same slot is no longer current.
type Tracker struct {
	mu     sync.Mutex
	latest map[string]Ticket
}

type Ticket struct {
	tracker  *Tracker
	slot     string
	inputKey string
	seq      uint64
}

func NewTracker() *Tracker {
	return &Tracker{latest: make(map[string]Ticket)}
}

// Begin records a new lookup for slot keyed by its input.
func (t *Tracker) Begin(slot, inputKey string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	ticket := Ticket{
		tracker:  t,
		slot:     slot,
		inputKey: inputKey,
		seq:      t.latest[slot].seq + 1,
	}
	t.latest[slot] = ticket
	return ticket
}

// Current reports whether no newer lookup has started for the slot.
func (tk Ticket) Current() bool {
	if tk.tracker == nil {
		return false
	}
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()

	latest := tk.tracker.latest[tk.slot]
	return latest.seq == tk.seq && latest.inputKey == tk.inputKey
}
