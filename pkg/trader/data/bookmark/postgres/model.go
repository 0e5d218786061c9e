package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/csgotrader/trader-server/pkg/database/postgres"
	"github.com/csgotrader/trader-server/pkg/trader/data/bookmark"
)

const (
	tableName = "trader__corebookmark"
)

type model struct {
	Id         sql.NullInt64 `db:"id"`
	AssetID    string        `db:"asset_id"`
	Name       string        `db:"name"`
	IconURL    string        `db:"icon_url"`
	NotifyType string        `db:"notify_type"`
	TradableAt time.Time     `db:"tradable_at"`
	CreatedAt  time.Time     `db:"created_at"`
}

func toModel(obj *bookmark.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		AssetID:    obj.AssetID,
		Name:       obj.Name,
		IconURL:    obj.IconURL,
		NotifyType: string(obj.NotifyType),
		TradableAt: obj.TradableAt.UTC(),
		CreatedAt:  obj.CreatedAt.UTC(),
	}, nil
}

func fromModel(obj *model) *bookmark.Record {
	return &bookmark.Record{
		AssetID:    obj.AssetID,
		Name:       obj.Name,
		IconURL:    obj.IconURL,
		NotifyType: bookmark.NotifyType(obj.NotifyType),
		TradableAt: obj.TradableAt.UTC(),
		CreatedAt:  obj.CreatedAt.UTC(),
	}
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB) error {
	query := `INSERT INTO ` + tableName + `
		(asset_id, name, icon_url, notify_type, tradable_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)

		ON CONFLICT (asset_id)
		DO UPDATE
			SET name = $2, icon_url = $3, notify_type = $4, tradable_at = $5
			WHERE ` + tableName + `.asset_id = $1

		RETURNING id, asset_id, name, icon_url, notify_type, tradable_at, created_at
	`

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return db.QueryRowxContext(
		ctx,
		query,
		m.AssetID,
		m.Name,
		m.IconURL,
		m.NotifyType,
		m.TradableAt,
		m.CreatedAt,
	).StructScan(m)
}

func dbGetByAssetID(ctx context.Context, db *sqlx.DB, assetID string) (*model, error) {
	res := &model{}

	query := `SELECT id, asset_id, name, icon_url, notify_type, tradable_at, created_at
		FROM ` + tableName + `
		WHERE asset_id = $1`

	err := db.GetContext(
		ctx,
		res,
		query,
		assetID,
	)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, bookmark.ErrBookmarkNotFound)
	}

	return res, nil
}

func dbGetAll(ctx context.Context, db *sqlx.DB) ([]*model, error) {
	res := []*model{}

	query := `SELECT id, asset_id, name, icon_url, notify_type, tradable_at, created_at
		FROM ` + tableName + `
		ORDER BY created_at ASC`

	err := db.SelectContext(
		ctx,
		&res,
		query,
	)
	if err != nil {
		return nil, err
	}

	return res, nil
}

func dbRemove(ctx context.Context, db *sqlx.DB, assetID string) error {
	query := `DELETE FROM ` + tableName + ` WHERE asset_id = $1`

	result, err := db.ExecContext(ctx, query, assetID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return bookmark.ErrBookmarkNotFound
	}

	return nil
}
