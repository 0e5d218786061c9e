package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/csgotrader/trader-server/pkg/trader/data/floatcache"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed floatcache.Store
func New(db *sql.DB) floatcache.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements floatcache.Store.Put
func (s *store) Put(ctx context.Context, record *floatcache.Record) error {
	m, err := toModel(record)
	if err != nil {
		return err
	}

	return m.dbSave(ctx, s.db)
}

// Get implements floatcache.Store.Get
func (s *store) Get(ctx context.Context, assetID string) (*floatcache.Record, error) {
	m, err := dbGet(ctx, s.db, assetID)
	if err != nil {
		return nil, err
	}

	return fromModel(m), nil
}

// TrimAged implements floatcache.Store.TrimAged
func (s *store) TrimAged(ctx context.Context, maxAge time.Duration) (int, error) {
	return dbTrimAged(ctx, s.db, time.Now().Add(-maxAge))
}
