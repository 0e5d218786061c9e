package invite

import (
	"time"
)

// Summary is the current view of pending friend requests and group
// invites. Mutated only by the friend request polling cycle.
type Summary struct {
	LastUpdatedAt   time.Time
	Inviters        []string
	InvitedToGroups []string
}

// Clone returns a copy of a Summary
func (s *Summary) Clone() *Summary {
	return &Summary{
		LastUpdatedAt:   s.LastUpdatedAt,
		Inviters:        append([]string{}, s.Inviters...),
		InvitedToGroups: append([]string{}, s.InvitedToGroups...),
	}
}

type EventType string

const (
	// EventReceived marks a new incoming friend request or group invite.
	EventReceived EventType = "received"

	// EventResolved marks an invite that disappeared between polls,
	// either accepted, declined or retracted.
	EventResolved EventType = "resolved"
)

// Event is a single observed change in the invite ledger.
type Event struct {
	Type      EventType
	SteamID   string
	CreatedAt time.Time
}

// Clone returns a copy of an Event
func (e *Event) Clone() *Event {
	clone := *e
	return &clone
}
