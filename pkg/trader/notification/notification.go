// Package notification creates, deduplicates and routes user-visible
// alerts.
package notification

import (
	"context"
)

// Notification is a single user-visible alert. Re-sending an ID
// replaces the prior notification rather than stacking a duplicate.
type Notification struct {
	ID      ID
	Title   string
	Message string
	IconURL string
}

type Notifier interface {
	// Send creates or replaces the platform notification for the given
	// ID.
	Send(ctx context.Context, n *Notification) error

	// PlaySound triggers the audio cue
	PlaySound(ctx context.Context) error
}
