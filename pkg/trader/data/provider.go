package data

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	pg "github.com/csgotrader/trader-server/pkg/database/postgres"

	"github.com/csgotrader/trader-server/pkg/trader/data/badge"
	"github.com/csgotrader/trader-server/pkg/trader/data/bookmark"
	"github.com/csgotrader/trader-server/pkg/trader/data/floatcache"
	"github.com/csgotrader/trader-server/pkg/trader/data/invite"
	"github.com/csgotrader/trader-server/pkg/trader/data/price"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
	"github.com/csgotrader/trader-server/pkg/trader/data/tradeoffer"

	badge_memory_client "github.com/csgotrader/trader-server/pkg/trader/data/badge/memory"
	bookmark_memory_client "github.com/csgotrader/trader-server/pkg/trader/data/bookmark/memory"
	floatcache_memory_client "github.com/csgotrader/trader-server/pkg/trader/data/floatcache/memory"
	invite_memory_client "github.com/csgotrader/trader-server/pkg/trader/data/invite/memory"
	price_memory_client "github.com/csgotrader/trader-server/pkg/trader/data/price/memory"
	settings_memory_client "github.com/csgotrader/trader-server/pkg/trader/data/settings/memory"
	tradeoffer_memory_client "github.com/csgotrader/trader-server/pkg/trader/data/tradeoffer/memory"

	bookmark_postgres_client "github.com/csgotrader/trader-server/pkg/trader/data/bookmark/postgres"
	floatcache_postgres_client "github.com/csgotrader/trader-server/pkg/trader/data/floatcache/postgres"
	settings_postgres_client "github.com/csgotrader/trader-server/pkg/trader/data/settings/postgres"
)

type Provider interface {
	// Settings
	// --------------------------------------------------------------------------------
	SeedSettings(ctx context.Context, defaults map[string]interface{}) error
	BackfillSettings(ctx context.Context, defaults map[string]interface{}) error
	GetSetting(ctx context.Context, key string) (interface{}, error)
	GetBoolSetting(ctx context.Context, key string) (bool, error)
	GetStringSetting(ctx context.Context, key string) (string, error)
	GetFloat64Setting(ctx context.Context, key string) (float64, error)
	GetIntSetting(ctx context.Context, key string) (int, error)
	SetSetting(ctx context.Context, key string, value interface{}) error

	// Bookmarks
	// --------------------------------------------------------------------------------
	AddBookmark(ctx context.Context, record *bookmark.Record) error
	GetBookmarkByAssetID(ctx context.Context, assetID string) (*bookmark.Record, error)
	GetAllBookmarks(ctx context.Context) ([]*bookmark.Record, error)
	RemoveBookmark(ctx context.Context, assetID string) error

	// Friend and group invites
	// --------------------------------------------------------------------------------
	GetInviteSummary(ctx context.Context) (*invite.Summary, error)
	SaveInviteSummary(ctx context.Context, summary *invite.Summary) error
	AddInviteEvents(ctx context.Context, events ...*invite.Event) error
	GetInviteEvents(ctx context.Context) ([]*invite.Event, error)
	RemoveOldInviteEvents(ctx context.Context, before time.Time) (int, error)

	// Trade offers
	// --------------------------------------------------------------------------------
	GetOfferSummary(ctx context.Context) (*tradeoffer.Summary, error)
	SaveOfferSummary(ctx context.Context, summary *tradeoffer.Summary) error
	AddOfferEvents(ctx context.Context, events ...*tradeoffer.Event) error
	GetOfferEvents(ctx context.Context) ([]*tradeoffer.Event, error)
	RemoveOldOfferEvents(ctx context.Context, before time.Time) (int, error)

	// Float cache
	// --------------------------------------------------------------------------------
	PutFloat(ctx context.Context, record *floatcache.Record) error
	GetFloat(ctx context.Context, assetID string) (*floatcache.Record, error)
	TrimAgedFloats(ctx context.Context, maxAge time.Duration) (int, error)

	// Prices and exchange rates
	// --------------------------------------------------------------------------------
	SavePrices(ctx context.Context, prices map[string]float64) error
	GetPrices(ctx context.Context) (map[string]float64, error)
	SaveExchangeRates(ctx context.Context, rates map[string]float64) error
	GetExchangeRates(ctx context.Context) (map[string]float64, error)

	// Badge
	// --------------------------------------------------------------------------------
	GetBadgeText(ctx context.Context) (string, error)
	SetBadgeText(ctx context.Context, text string) error
	IncrementBadge(ctx context.Context) (string, error)
}

type DatabaseProvider struct {
	settings    settings.Store
	bookmarks   bookmark.Store
	invites     invite.Store
	tradeoffers tradeoffer.Store
	floats      floatcache.Store
	prices      price.Store
	badge       badge.Store

	db *sqlx.DB
}

// NewDatabaseProvider returns a Provider persisting durable entities
// (settings, bookmarks, float cache) to postgres. Poll ledgers, price
// snapshots and the badge are process-local state rebuilt by the next
// polling cycle, so they stay in memory.
func NewDatabaseProvider(dbConfig *pg.Config) (Provider, error) {
	db, err := pg.New(dbConfig)
	if err != nil {
		return nil, err
	}

	return &DatabaseProvider{
		settings:  settings_postgres_client.New(db),
		bookmarks: bookmark_postgres_client.New(db),
		floats:    floatcache_postgres_client.New(db),

		invites:     invite_memory_client.New(),
		tradeoffers: tradeoffer_memory_client.New(),
		prices:      price_memory_client.New(),
		badge:       badge_memory_client.New(),

		db: sqlx.NewDb(db, "pgx"),
	}, nil
}

// NewTestDataProvider returns a fully in memory Provider
func NewTestDataProvider() Provider {
	return &DatabaseProvider{
		settings:    settings_memory_client.New(),
		bookmarks:   bookmark_memory_client.New(),
		invites:     invite_memory_client.New(),
		tradeoffers: tradeoffer_memory_client.New(),
		floats:      floatcache_memory_client.New(),
		prices:      price_memory_client.New(),
		badge:       badge_memory_client.New(),
	}
}

// Settings
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) SeedSettings(ctx context.Context, defaults map[string]interface{}) error {
	return dp.settings.Seed(ctx, defaults)
}
func (dp *DatabaseProvider) BackfillSettings(ctx context.Context, defaults map[string]interface{}) error {
	return dp.settings.Backfill(ctx, defaults)
}
func (dp *DatabaseProvider) GetSetting(ctx context.Context, key string) (interface{}, error) {
	return dp.settings.Get(ctx, key)
}
func (dp *DatabaseProvider) GetBoolSetting(ctx context.Context, key string) (bool, error) {
	return settings.GetBool(ctx, dp.settings, key)
}
func (dp *DatabaseProvider) GetStringSetting(ctx context.Context, key string) (string, error) {
	return settings.GetString(ctx, dp.settings, key)
}
func (dp *DatabaseProvider) GetFloat64Setting(ctx context.Context, key string) (float64, error) {
	return settings.GetFloat64(ctx, dp.settings, key)
}
func (dp *DatabaseProvider) GetIntSetting(ctx context.Context, key string) (int, error) {
	return settings.GetInt(ctx, dp.settings, key)
}
func (dp *DatabaseProvider) SetSetting(ctx context.Context, key string, value interface{}) error {
	return dp.settings.Set(ctx, key, value)
}

// Bookmarks
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) AddBookmark(ctx context.Context, record *bookmark.Record) error {
	return dp.bookmarks.Add(ctx, record)
}
func (dp *DatabaseProvider) GetBookmarkByAssetID(ctx context.Context, assetID string) (*bookmark.Record, error) {
	return dp.bookmarks.GetByAssetID(ctx, assetID)
}
func (dp *DatabaseProvider) GetAllBookmarks(ctx context.Context) ([]*bookmark.Record, error) {
	return dp.bookmarks.GetAll(ctx)
}
func (dp *DatabaseProvider) RemoveBookmark(ctx context.Context, assetID string) error {
	return dp.bookmarks.Remove(ctx, assetID)
}

// Friend and group invites
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) GetInviteSummary(ctx context.Context) (*invite.Summary, error) {
	return dp.invites.GetSummary(ctx)
}
func (dp *DatabaseProvider) SaveInviteSummary(ctx context.Context, summary *invite.Summary) error {
	return dp.invites.SaveSummary(ctx, summary)
}
func (dp *DatabaseProvider) AddInviteEvents(ctx context.Context, events ...*invite.Event) error {
	return dp.invites.AddEvents(ctx, events...)
}
func (dp *DatabaseProvider) GetInviteEvents(ctx context.Context) ([]*invite.Event, error) {
	return dp.invites.GetEvents(ctx)
}
func (dp *DatabaseProvider) RemoveOldInviteEvents(ctx context.Context, before time.Time) (int, error) {
	return dp.invites.RemoveOldEvents(ctx, before)
}

// Trade offers
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) GetOfferSummary(ctx context.Context) (*tradeoffer.Summary, error) {
	return dp.tradeoffers.GetSummary(ctx)
}
func (dp *DatabaseProvider) SaveOfferSummary(ctx context.Context, summary *tradeoffer.Summary) error {
	return dp.tradeoffers.SaveSummary(ctx, summary)
}
func (dp *DatabaseProvider) AddOfferEvents(ctx context.Context, events ...*tradeoffer.Event) error {
	return dp.tradeoffers.AddEvents(ctx, events...)
}
func (dp *DatabaseProvider) GetOfferEvents(ctx context.Context) ([]*tradeoffer.Event, error) {
	return dp.tradeoffers.GetEvents(ctx)
}
func (dp *DatabaseProvider) RemoveOldOfferEvents(ctx context.Context, before time.Time) (int, error) {
	return dp.tradeoffers.RemoveOldEvents(ctx, before)
}

// Float cache
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) PutFloat(ctx context.Context, record *floatcache.Record) error {
	return dp.floats.Put(ctx, record)
}
func (dp *DatabaseProvider) GetFloat(ctx context.Context, assetID string) (*floatcache.Record, error) {
	return dp.floats.Get(ctx, assetID)
}
func (dp *DatabaseProvider) TrimAgedFloats(ctx context.Context, maxAge time.Duration) (int, error) {
	return dp.floats.TrimAged(ctx, maxAge)
}

// Prices and exchange rates
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) SavePrices(ctx context.Context, prices map[string]float64) error {
	return dp.prices.SavePrices(ctx, prices)
}
func (dp *DatabaseProvider) GetPrices(ctx context.Context) (map[string]float64, error) {
	return dp.prices.GetPrices(ctx)
}
func (dp *DatabaseProvider) SaveExchangeRates(ctx context.Context, rates map[string]float64) error {
	return dp.prices.SaveExchangeRates(ctx, rates)
}
func (dp *DatabaseProvider) GetExchangeRates(ctx context.Context) (map[string]float64, error) {
	return dp.prices.GetExchangeRates(ctx)
}

// Badge
// --------------------------------------------------------------------------------

func (dp *DatabaseProvider) GetBadgeText(ctx context.Context) (string, error) {
	return dp.badge.Get(ctx)
}
func (dp *DatabaseProvider) SetBadgeText(ctx context.Context, text string) error {
	return dp.badge.Set(ctx, text)
}
func (dp *DatabaseProvider) IncrementBadge(ctx context.Context) (string, error) {
	return dp.badge.Increment(ctx)
}
