package tradeoffer

import (
	"time"
)

// Summary is the current view of received active trade offers. Mutated
// only by the trade offer polling cycle.
type Summary struct {
	LastFullUpdateAt    time.Time
	ReceivedActiveCount int
}

// Clone returns a copy of a Summary
func (s *Summary) Clone() *Summary {
	clone := *s
	return &clone
}

type EventType string

const (
	// EventReceived marks a newly observed incoming offer.
	EventReceived EventType = "received"

	// EventResolved marks an offer that left the active set between
	// polls.
	EventResolved EventType = "resolved"
)

// Event is a single observed change in the active offer set.
type Event struct {
	Type      EventType
	OfferID   string
	CreatedAt time.Time
}

// Clone returns a copy of an Event
func (e *Event) Clone() *Event {
	clone := *e
	return &clone
}
