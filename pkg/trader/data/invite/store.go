package invite

import (
	"context"
	"time"
)

type Store interface {
	// GetSummary gets the current invite summary. A zero-valued Summary
	// is returned when nothing has been recorded yet.
	GetSummary(ctx context.Context) (*Summary, error)

	// SaveSummary replaces the current invite summary
	SaveSummary(ctx context.Context, summary *Summary) error

	// AddEvents appends observed changes to the event history
	AddEvents(ctx context.Context, events ...*Event) error

	// GetEvents gets the event history, ordered by creation time
	GetEvents(ctx context.Context) ([]*Event, error)

	// RemoveOldEvents prunes events created before the provided time,
	// returning the number removed.
	RemoveOldEvents(ctx context.Context, before time.Time) (int, error)
}
