package bookmark

import (
	"context"
	"errors"
)

var (
	ErrBookmarkNotFound = errors.New("bookmark not found")
)

type Store interface {
	// Add saves a bookmark. Re-adding an asset id replaces the previous
	// record.
	Add(ctx context.Context, record *Record) error

	// GetByAssetID gets a bookmark by its asset id
	//
	// Returns ErrBookmarkNotFound if no record exists.
	GetByAssetID(ctx context.Context, assetID string) (*Record, error)

	// GetAll gets every bookmark, ordered by creation time
	GetAll(ctx context.Context) ([]*Record, error)

	// Remove deletes a bookmark by its asset id
	//
	// Returns ErrBookmarkNotFound if no record exists.
	Remove(ctx context.Context, assetID string) error
}
