package floatcache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrFloatNotCached = errors.New("no cached float for asset")
)

type Store interface {
	// Put saves a cached float record, replacing any previous entry for
	// the asset and refreshing its age.
	Put(ctx context.Context, record *Record) error

	// Get gets a cached float record by asset id
	//
	// Returns ErrFloatNotCached if no entry exists.
	Get(ctx context.Context, assetID string) (*Record, error)

	// TrimAged evicts entries older than maxAge, returning the number
	// removed.
	TrimAged(ctx context.Context, maxAge time.Duration) (int, error)
}
