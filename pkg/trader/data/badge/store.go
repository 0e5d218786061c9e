package badge

import (
	"context"
)

// Store holds the icon badge text. Concurrent updates are
// last-writer-wins.
type Store interface {
	// Get gets the current badge text. A never-set badge reads as
	// empty.
	Get(ctx context.Context) (string, error)

	// Set replaces the badge text
	Set(ctx context.Context, text string) error

	// Increment advances the badge text per NextText and returns the
	// new value.
	Increment(ctx context.Context) (string, error)
}
