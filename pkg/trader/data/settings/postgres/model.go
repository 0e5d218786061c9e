package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/csgotrader/trader-server/pkg/database/postgres"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
)

const (
	tableName = "trader__coresettings"
)

type model struct {
	Id            sql.NullInt64 `db:"id"`
	Name          string        `db:"name"`
	Value         []byte        `db:"value"`
	LastUpdatedAt time.Time     `db:"last_updated_at"`
}

func toModel(name string, value interface{}) (*model, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return &model{
		Name:  name,
		Value: encoded,
	}, nil
}

func fromModel(obj *model) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal(obj.Value, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB) error {
	query := `INSERT INTO ` + tableName + `
		(name, value, last_updated_at)
		VALUES ($1, $2, $3)

		ON CONFLICT (name)
		DO UPDATE
			SET value = $2, last_updated_at = $3
			WHERE ` + tableName + `.name = $1

		RETURNING id, name, value, last_updated_at
	`

	m.LastUpdatedAt = time.Now()

	return db.QueryRowxContext(
		ctx,
		query,
		m.Name,
		m.Value,
		m.LastUpdatedAt.UTC(),
	).StructScan(m)
}

func (m *model) dbSaveIfMissing(ctx context.Context, db *sqlx.DB) error {
	query := `INSERT INTO ` + tableName + `
		(name, value, last_updated_at)
		VALUES ($1, $2, $3)

		ON CONFLICT (name) DO NOTHING
	`

	m.LastUpdatedAt = time.Now()

	_, err := db.ExecContext(
		ctx,
		query,
		m.Name,
		m.Value,
		m.LastUpdatedAt.UTC(),
	)
	return err
}

func dbGet(ctx context.Context, db *sqlx.DB, name string) (*model, error) {
	res := &model{}

	query := `SELECT id, name, value, last_updated_at FROM ` + tableName + `
			WHERE name = $1`

	err := db.GetContext(
		ctx,
		res,
		query,
		name,
	)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, settings.ErrSettingNotFound)
	}

	return res, nil
}
