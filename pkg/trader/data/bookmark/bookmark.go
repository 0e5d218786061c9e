package bookmark

import (
	"time"

	"github.com/pkg/errors"
)

// NotifyType selects how the owner is told that a bookmarked item became
// tradable.
type NotifyType string

const (
	// NotifyChrome sends a platform notification.
	NotifyChrome NotifyType = "chrome"

	// NotifyAlert navigates to the bookmarks view and raises an in-page
	// alert.
	NotifyAlert NotifyType = "alert"
)

// Record is a tracked item with a future tradability date.
type Record struct {
	AssetID    string
	Name       string
	IconURL    string
	NotifyType NotifyType
	TradableAt time.Time

	CreatedAt time.Time
}

// Validate validates a Record
func (r *Record) Validate() error {
	if len(r.AssetID) == 0 {
		return errors.New("asset id is required")
	}

	if r.NotifyType != NotifyChrome && r.NotifyType != NotifyAlert {
		return errors.Errorf("invalid notify type: %s", r.NotifyType)
	}

	return nil
}

// Clone returns a copy of a Record
func (r *Record) Clone() *Record {
	return &Record{
		AssetID:    r.AssetID,
		Name:       r.Name,
		IconURL:    r.IconURL,
		NotifyType: r.NotifyType,
		TradableAt: r.TradableAt,
		CreatedAt:  r.CreatedAt,
	}
}
