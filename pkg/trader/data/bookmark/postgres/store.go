package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/csgotrader/trader-server/pkg/trader/data/bookmark"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed bookmark.Store
func New(db *sql.DB) bookmark.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Add implements bookmark.Store.Add
func (s *store) Add(ctx context.Context, record *bookmark.Record) error {
	m, err := toModel(record)
	if err != nil {
		return err
	}

	return m.dbSave(ctx, s.db)
}

// GetByAssetID implements bookmark.Store.GetByAssetID
func (s *store) GetByAssetID(ctx context.Context, assetID string) (*bookmark.Record, error) {
	m, err := dbGetByAssetID(ctx, s.db, assetID)
	if err != nil {
		return nil, err
	}

	return fromModel(m), nil
}

// GetAll implements bookmark.Store.GetAll
func (s *store) GetAll(ctx context.Context) ([]*bookmark.Record, error) {
	models, err := dbGetAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	res := make([]*bookmark.Record, len(models))
	for i, m := range models {
		res[i] = fromModel(m)
	}
	return res, nil
}

// Remove implements bookmark.Store.Remove
func (s *store) Remove(ctx context.Context, assetID string) error {
	return dbRemove(ctx, s.db, assetID)
}
