package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed settings.Store
func New(db *sql.DB) settings.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Seed implements settings.Store.Seed
func (s *store) Seed(ctx context.Context, defaults map[string]interface{}) error {
	for key, value := range defaults {
		m, err := toModel(key, value)
		if err != nil {
			return err
		}

		if err := m.dbSave(ctx, s.db); err != nil {
			return err
		}
	}
	return nil
}

// Backfill implements settings.Store.Backfill
func (s *store) Backfill(ctx context.Context, defaults map[string]interface{}) error {
	for key, value := range defaults {
		m, err := toModel(key, value)
		if err != nil {
			return err
		}

		if err := m.dbSaveIfMissing(ctx, s.db); err != nil {
			return err
		}
	}
	return nil
}

// Get implements settings.Store.Get
func (s *store) Get(ctx context.Context, key string) (interface{}, error) {
	m, err := dbGet(ctx, s.db, key)
	if err != nil {
		return nil, err
	}

	return fromModel(m)
}

// Set implements settings.Store.Set
func (s *store) Set(ctx context.Context, key string, value interface{}) error {
	m, err := toModel(key, value)
	if err != nil {
		return err
	}

	return m.dbSave(ctx, s.db)
}
