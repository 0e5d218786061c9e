package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/csgotrader/trader-server/pkg/database/postgres"
	"github.com/csgotrader/trader-server/pkg/trader/data/floatcache"
)

const (
	tableName = "trader__corefloatcache"
)

type model struct {
	Id         sql.NullInt64 `db:"id"`
	AssetID    string        `db:"asset_id"`
	FloatValue float64       `db:"float_value"`
	Paintseed  int64         `db:"paintseed"`
	Paintindex int64         `db:"paintindex"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

func toModel(obj *floatcache.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		AssetID:    obj.AssetID,
		FloatValue: obj.FloatValue,
		Paintseed:  obj.Paintseed,
		Paintindex: obj.Paintindex,
		UpdatedAt:  obj.UpdatedAt.UTC(),
	}, nil
}

func fromModel(obj *model) *floatcache.Record {
	return &floatcache.Record{
		AssetID:    obj.AssetID,
		FloatValue: obj.FloatValue,
		Paintseed:  obj.Paintseed,
		Paintindex: obj.Paintindex,
		UpdatedAt:  obj.UpdatedAt.UTC(),
	}
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB) error {
	query := `INSERT INTO ` + tableName + `
		(asset_id, float_value, paintseed, paintindex, updated_at)
		VALUES ($1, $2, $3, $4, $5)

		ON CONFLICT (asset_id)
		DO UPDATE
			SET float_value = $2, paintseed = $3, paintindex = $4, updated_at = $5
			WHERE ` + tableName + `.asset_id = $1

		RETURNING id, asset_id, float_value, paintseed, paintindex, updated_at
	`

	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}

	return db.QueryRowxContext(
		ctx,
		query,
		m.AssetID,
		m.FloatValue,
		m.Paintseed,
		m.Paintindex,
		m.UpdatedAt,
	).StructScan(m)
}

func dbGet(ctx context.Context, db *sqlx.DB, assetID string) (*model, error) {
	res := &model{}

	query := `SELECT id, asset_id, float_value, paintseed, paintindex, updated_at
		FROM ` + tableName + `
		WHERE asset_id = $1`

	err := db.GetContext(
		ctx,
		res,
		query,
		assetID,
	)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, floatcache.ErrFloatNotCached)
	}

	return res, nil
}

func dbTrimAged(ctx context.Context, db *sqlx.DB, cutoff time.Time) (int, error) {
	query := `DELETE FROM ` + tableName + ` WHERE updated_at < $1`

	result, err := db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}
