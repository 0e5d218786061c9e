package floatcache

import (
	"time"

	"github.com/pkg/errors"
)

// Record is cached wear metadata for a single asset, keyed by asset id.
// Entries are evicted by age once per day.
type Record struct {
	AssetID    string
	FloatValue float64
	Paintseed  int64
	Paintindex int64

	UpdatedAt time.Time
}

// Validate validates a Record
func (r *Record) Validate() error {
	if len(r.AssetID) == 0 {
		return errors.New("asset id is required")
	}

	// Zero is a valid cached result: the item has no wear float
	if r.FloatValue < 0 {
		return errors.New("float value cannot be negative")
	}

	return nil
}

// Clone returns a copy of a Record
func (r *Record) Clone() *Record {
	clone := *r
	return &clone
}
