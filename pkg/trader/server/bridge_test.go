package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/float"
	float_memory "github.com/csgotrader/trader-server/pkg/float/memory"
	"github.com/csgotrader/trader-server/pkg/pricing"
	pricing_memory "github.com/csgotrader/trader-server/pkg/pricing/memory"
	"github.com/csgotrader/trader-server/pkg/reputation"
	reputation_memory "github.com/csgotrader/trader-server/pkg/reputation/memory"
	"github.com/csgotrader/trader-server/pkg/steam"
	steam_memory "github.com/csgotrader/trader-server/pkg/steam/memory"
	"github.com/csgotrader/trader-server/pkg/trader/alarm"
	alarm_memory "github.com/csgotrader/trader-server/pkg/trader/alarm/memory"
	browser_memory "github.com/csgotrader/trader-server/pkg/trader/browser/memory"
	"github.com/csgotrader/trader-server/pkg/trader/coordinator"
	"github.com/csgotrader/trader-server/pkg/trader/data"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
	"github.com/csgotrader/trader-server/pkg/trader/notification"
	notification_memory "github.com/csgotrader/trader-server/pkg/trader/notification/memory"
)

const testInspectLink = "S76561198084000000A31480000000D143829"

type testEnv struct {
	ctx        context.Context
	data       data.Provider
	steam      *steam_memory.Client
	pricing    *pricing_memory.Client
	float      *float_memory.Client
	reputation *reputation_memory.Client
	scheduler  *alarm_memory.Scheduler
	browser    *browser_memory.Browser
	bridge     *Bridge
}

func setup(t *testing.T) *testEnv {
	ctx := context.Background()

	env := &testEnv{
		ctx:        ctx,
		data:       data.NewTestDataProvider(),
		steam:      steam_memory.NewClient(),
		pricing:    pricing_memory.NewClient(),
		float:      float_memory.NewClient(),
		reputation: reputation_memory.NewClient(),
		scheduler:  alarm_memory.NewScheduler(),
		browser:    browser_memory.New(),
	}

	coordinatorService := coordinator.New(
		env.data,
		env.steam,
		env.pricing,
		env.scheduler,
		notification.NewDispatcher(env.data, notification_memory.New()),
		env.browser,
		coordinator.WithEnvConfigs(),
	)

	env.bridge = NewBridge(
		env.data,
		env.steam,
		env.float,
		env.reputation,
		coordinatorService,
		env.scheduler,
		env.browser,
	)

	require.NoError(t, env.data.SeedSettings(ctx, settings.Defaults()))
	return env
}

func TestHandle_UnrecognizedRequests(t *testing.T) {
	env := setup(t)

	for _, raw := range []string{
		`not json`,
		`{}`,
		`{"inventory": "1", "closeTab": "tab-1"}`,
		`{"doSomethingNew": true}`,
	} {
		reply := env.bridge.Handle(env.ctx, []byte(raw))
		unsupported, ok := reply.(*UnsupportedReply)
		require.True(t, ok, "raw: %s", raw)
		assert.True(t, unsupported.Unsupported)
	}
}

func TestInventory_TotalUsesPriceSnapshotAndRate(t *testing.T) {
	env := setup(t)

	env.steam.Inventory = steam.Inventory{
		Items: []steam.InventoryItem{
			{AssetID: "1", MarketHashName: "AK-47 | Redline (Field-Tested)"},
			{AssetID: "2", MarketHashName: "AK-47 | Redline (Field-Tested)"},
			{AssetID: "3", MarketHashName: "AWP | Asiimov (Field-Tested)"},
		},
	}
	require.NoError(t, env.data.SavePrices(env.ctx, map[string]float64{
		"AK-47 | Redline (Field-Tested)": 10.0,
		"AWP | Asiimov (Field-Tested)":   25.0,
	}))
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyExchangeRate, 0.9))

	reply := env.bridge.Handle(env.ctx, []byte(`{"inventory": "76561198084000000"}`))
	inventory, ok := reply.(*steam.Inventory)
	require.True(t, ok)
	assert.Len(t, inventory.Items, 3)
	assert.InDelta(t, 40.5, inventory.Total, 0.0001)
}

func TestInventory_NoPriceSnapshotLeavesTotalZero(t *testing.T) {
	env := setup(t)

	env.steam.Inventory = steam.Inventory{
		Items: []steam.InventoryItem{{AssetID: "1", MarketHashName: "AK-47 | Redline (Field-Tested)"}},
	}

	reply := env.bridge.Handle(env.ctx, []byte(`{"inventory": "76561198084000000"}`))
	inventory, ok := reply.(*steam.Inventory)
	require.True(t, ok)
	assert.Zero(t, inventory.Total)
}

func TestInventory_FetchFailure(t *testing.T) {
	env := setup(t)

	env.steam.InventoryErr = steam.ErrAccessDenied

	reply := env.bridge.Handle(env.ctx, []byte(`{"inventory": "76561198084000000"}`))
	assert.Equal(t, ReplyError, reply)
}

func TestOtherInventory(t *testing.T) {
	env := setup(t)

	env.steam.Inventory = steam.Inventory{
		Items: []steam.InventoryItem{{AssetID: "9", MarketHashName: "Mann Co. Supply Crate Key"}},
	}

	reply := env.bridge.Handle(env.ctx, []byte(`{"getOtherInventory": {"appId": 440, "steamId": "76561198084000000"}}`))
	inventory, ok := reply.(*steam.Inventory)
	require.True(t, ok)
	require.Len(t, inventory.Items, 1)
	assert.Equal(t, "9", inventory.Items[0].AssetID)
}

func TestValidateAPIKey_PersistsResult(t *testing.T) {
	env := setup(t)

	env.steam.KeyValid = true

	reply := env.bridge.Handle(env.ctx, []byte(`{"apikeytovalidate": "ABCDEF0123456789"}`))
	assert.Equal(t, true, reply)

	valid, err := env.data.GetBoolSetting(env.ctx, settings.KeyAPIKeyValid)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateAPIKey_Failure(t *testing.T) {
	env := setup(t)

	env.steam.ValidateErr = steam.ErrAccessDenied

	reply := env.bridge.Handle(env.ctx, []byte(`{"apikeytovalidate": "ABCDEF0123456789"}`))
	assert.Equal(t, ReplyError, reply)
}

func TestPersonaState(t *testing.T) {
	env := setup(t)

	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeySteamAPIKey, "ABCDEF0123456789"))
	env.steam.Summaries["76561198084000000"] = steam.PlayerSummary{
		SteamID:     "76561198084000000",
		PersonaName: "gery",
	}

	reply := env.bridge.Handle(env.ctx, []byte(`{"GetPersonaState": "76561198084000000"}`))
	summary, ok := reply.(steam.PlayerSummary)
	require.True(t, ok)
	assert.Equal(t, "gery", summary.PersonaName)
}

func TestPersonaState_NoStoredAPIKey(t *testing.T) {
	env := setup(t)

	reply := env.bridge.Handle(env.ctx, []byte(`{"GetPersonaState": "76561198084000000"}`))
	assert.Equal(t, ReplyError, reply)
}

func TestPersonaState_InvalidAPIKey(t *testing.T) {
	env := setup(t)

	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeySteamAPIKey, "ABCDEF0123456789"))
	env.steam.SummariesErr = steam.ErrAPIKeyInvalid

	reply := env.bridge.Handle(env.ctx, []byte(`{"GetPersonaState": "76561198084000000"}`))
	assert.Equal(t, ReplyAPIKeyInvalid, reply)
}

func TestFetchFloatInfo_FetchesThenServesFromCache(t *testing.T) {
	env := setup(t)

	env.float.Infos[testInspectLink] = &float.Info{
		FloatValue: 0.254,
		Paintseed:  412,
		Paintindex: 282,
	}

	raw := []byte(`{"fetchFloatInfo": {"inspectLink": "` + testInspectLink + `", "price": 10.5}}`)

	reply := env.bridge.Handle(env.ctx, raw)
	info, ok := reply.(*float.Info)
	require.True(t, ok)
	assert.InDelta(t, 0.254, info.FloatValue, 0.0001)
	assert.Equal(t, 1, env.float.Calls())

	reply = env.bridge.Handle(env.ctx, raw)
	info, ok = reply.(*float.Info)
	require.True(t, ok)
	assert.InDelta(t, 0.254, info.FloatValue, 0.0001)
	assert.Equal(t, 412, info.Paintseed)
	assert.Equal(t, 282, info.Paintindex)
	assert.Equal(t, 1, env.float.Calls())
}

func TestFetchFloatInfo_BareInspectLink(t *testing.T) {
	env := setup(t)

	env.float.Infos[testInspectLink] = &float.Info{FloatValue: 0.07}

	reply := env.bridge.Handle(env.ctx, []byte(`{"fetchFloatInfo": "`+testInspectLink+`"}`))
	info, ok := reply.(*float.Info)
	require.True(t, ok)
	assert.InDelta(t, 0.07, info.FloatValue, 0.0001)
}

func TestFetchFloatInfo_NoFloatIsCached(t *testing.T) {
	env := setup(t)

	raw := []byte(`{"fetchFloatInfo": "` + testInspectLink + `"}`)

	reply := env.bridge.Handle(env.ctx, raw)
	assert.Equal(t, ReplyNoFloat, reply)
	assert.Equal(t, 1, env.float.Calls())

	// The floatless result is remembered, so the provider is not re-asked
	reply = env.bridge.Handle(env.ctx, raw)
	assert.Equal(t, ReplyNoFloat, reply)
	assert.Equal(t, 1, env.float.Calls())
}

func TestFetchFloatInfo_ServerErrorForwardsStatusCode(t *testing.T) {
	env := setup(t)

	env.float.Err = &steam.StatusError{Code: 500}

	reply := env.bridge.Handle(env.ctx, []byte(`{"fetchFloatInfo": "`+testInspectLink+`"}`))
	assert.Equal(t, 500, reply)
}

func TestFetchFloatInfo_MalformedLink(t *testing.T) {
	env := setup(t)

	reply := env.bridge.Handle(env.ctx, []byte(`{"fetchFloatInfo": "not-a-link"}`))
	assert.Equal(t, ReplyError, reply)
}

func TestSteamRepInfo(t *testing.T) {
	env := setup(t)

	env.reputation.Infos["76561198084000000"] = &reputation.Info{
		SteamID:    "76561198084000000",
		Reputation: "none",
	}

	reply := env.bridge.Handle(env.ctx, []byte(`{"getSteamRepInfo": "76561198084000000"}`))
	info, ok := reply.(*reputation.Info)
	require.True(t, ok)
	assert.Equal(t, "none", info.Reputation)

	reply = env.bridge.Handle(env.ctx, []byte(`{"getSteamRepInfo": "76561198099999999"}`))
	assert.Equal(t, ReplyError, reply)
}

func TestTradeOffers(t *testing.T) {
	env := setup(t)

	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeySteamAPIKey, "ABCDEF0123456789"))
	env.steam.Offers = steam.TradeOffers{
		Received: []steam.TradeOffer{{TradeOfferID: "42", State: 2}},
	}

	reply := env.bridge.Handle(env.ctx, []byte(`{"getTradeOffers": "active"}`))
	offers, ok := reply.(*steam.TradeOffers)
	require.True(t, ok)
	require.Len(t, offers.Received, 1)
	assert.Equal(t, "42", offers.Received[0].TradeOfferID)
}

func TestTradeOffers_NoStoredAPIKey(t *testing.T) {
	env := setup(t)

	reply := env.bridge.Handle(env.ctx, []byte(`{"getTradeOffers": "historical"}`))
	assert.Equal(t, ReplyError, reply)
}

func TestTradeOffers_InvalidAPIKey(t *testing.T) {
	env := setup(t)

	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeySteamAPIKey, "ABCDEF0123456789"))
	env.steam.OffersErr = steam.ErrAPIKeyInvalid

	reply := env.bridge.Handle(env.ctx, []byte(`{"getTradeOffers": "active"}`))
	assert.Equal(t, ReplyAPIKeyInvalid, reply)
}

func TestBuyOrderInfo(t *testing.T) {
	env := setup(t)

	env.steam.Book = steam.BuyOrderBook{HighestBuyOrder: "1520"}

	reply := env.bridge.Handle(env.ctx, []byte(`{"getBuyOrderInfo": {"appId": 730, "marketHashName": "AK-47 | Redline (Field-Tested)", "currencyId": 3}}`))
	book, ok := reply.(*steam.BuyOrderBook)
	require.True(t, ok)
	assert.Equal(t, "1520", book.HighestBuyOrder)
}

func TestBadgeText(t *testing.T) {
	env := setup(t)

	reply := env.bridge.Handle(env.ctx, []byte(`{"badgetext": "7"}`))
	assert.Equal(t, ReplyOK, reply)

	text, err := env.data.GetBadgeText(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", text)
}

func TestOpenInternalPage(t *testing.T) {
	env := setup(t)

	reply := env.bridge.Handle(env.ctx, []byte(`{"openInternalPage": "/bookmarks.html"}`))
	assert.Equal(t, "tab-1", reply)
	assert.Equal(t, []string{"/bookmarks.html"}, env.browser.OpenedPages)
}

func TestSetAlarm(t *testing.T) {
	env := setup(t)

	at := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	reply := env.bridge.Handle(env.ctx, []byte(`{"setAlarm": {"name": "31480000000", "at": "`+at+`"}}`))
	assert.Equal(t, ReplyOK, reply)
	assert.True(t, env.scheduler.Registered("31480000000"))
}

func TestSetAlarm_ReservedNameRejected(t *testing.T) {
	env := setup(t)

	at := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	reply := env.bridge.Handle(env.ctx, []byte(`{"setAlarm": {"name": "`+alarm.NameNotificationCount+`", "at": "`+at+`"}}`))
	assert.Equal(t, ReplyError, reply)
	assert.False(t, env.scheduler.Registered(alarm.NameNotificationCount))
}

func TestSetAlarm_MissingName(t *testing.T) {
	env := setup(t)

	reply := env.bridge.Handle(env.ctx, []byte(`{"setAlarm": {"at": "2026-09-01T00:00:00Z"}}`))
	assert.Equal(t, ReplyError, reply)
}

func TestUpdateExchangeRates(t *testing.T) {
	env := setup(t)

	env.pricing.Rates = map[string]float64{"USD": 1.0, "EUR": 0.92}
	env.pricing.Prices = map[string]pricing.ItemPrice{
		"AK-47 | Redline (Field-Tested)": {Price: 10.0},
	}

	reply := env.bridge.Handle(env.ctx, []byte(`{"updateExchangeRates": true}`))
	assert.Equal(t, ReplyOK, reply)

	rates, err := env.data.GetExchangeRates(env.ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.92, rates["EUR"], 0.0001)

	prices, err := env.data.GetPrices(env.ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, prices["AK-47 | Redline (Field-Tested)"], 0.0001)
}

func TestHasTabsAccess(t *testing.T) {
	env := setup(t)

	assert.Equal(t, true, env.bridge.Handle(env.ctx, []byte(`{"hasTabsAccess": true}`)))

	env.browser.TabsPermission = false
	assert.Equal(t, false, env.bridge.Handle(env.ctx, []byte(`{"hasTabsAccess": true}`)))
}

func TestCloseTab(t *testing.T) {
	env := setup(t)

	reply := env.bridge.Handle(env.ctx, []byte(`{"openInternalPage": "/bookmarks.html"}`))
	require.Equal(t, "tab-1", reply)

	reply = env.bridge.Handle(env.ctx, []byte(`{"closeTab": "tab-1"}`))
	assert.Equal(t, ReplyOK, reply)
	assert.Equal(t, []string{"tab-1"}, env.browser.ClosedTabs)
}
