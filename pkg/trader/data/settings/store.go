package settings

import (
	"context"
	"errors"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
)

type Store interface {
	// Seed writes every default, overwriting anything already present.
	// Used on first install only.
	Seed(ctx context.Context, defaults map[string]interface{}) error

	// Backfill writes only the defaults whose names are not yet present.
	// Existing values are never overwritten. Used on update.
	Backfill(ctx context.Context, defaults map[string]interface{}) error

	// Get gets a single setting value by name
	Get(ctx context.Context, key string) (interface{}, error)

	// Set sets a single setting value by name
	Set(ctx context.Context, key string, value interface{}) error
}
