// Package server exposes the request/response bridge foreground
// contexts use to reach the coordinator and gateways.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	floatlib "github.com/csgotrader/trader-server/pkg/float"
	"github.com/csgotrader/trader-server/pkg/reputation"
	"github.com/csgotrader/trader-server/pkg/steam"
	"github.com/csgotrader/trader-server/pkg/trader/alarm"
	"github.com/csgotrader/trader-server/pkg/trader/browser"
	"github.com/csgotrader/trader-server/pkg/trader/coordinator"
	"github.com/csgotrader/trader-server/pkg/trader/data"
	"github.com/csgotrader/trader-server/pkg/trader/data/floatcache"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
)

// Command keys. A request carries exactly one.
const (
	cmdInventory          = "inventory"
	cmdOtherInventory     = "getOtherInventory"
	cmdValidateAPIKey     = "apikeytovalidate"
	cmdPersonaState       = "GetPersonaState"
	cmdFetchFloatInfo     = "fetchFloatInfo"
	cmdSteamRepInfo       = "getSteamRepInfo"
	cmdTradeOffers        = "getTradeOffers"
	cmdBuyOrderInfo       = "getBuyOrderInfo"
	cmdBadgeText          = "badgetext"
	cmdOpenInternalPage   = "openInternalPage"
	cmdSetAlarm           = "setAlarm"
	cmdUpdateExchangeRate = "updateExchangeRates"
	cmdHasTabsAccess      = "hasTabsAccess"
	cmdCloseTab           = "closeTab"
)

// String sentinel replies. Callers branch on reply shape, not
// truthiness.
const (
	ReplyError         = "error"
	ReplyAPIKeyInvalid = "api_key_invalid"
	ReplyNoFloat       = "nofloat"
	ReplyOK            = "ok"
)

// UnsupportedReply is returned for commands the bridge does not
// recognize, so callers never wait on silence.
type UnsupportedReply struct {
	Unsupported bool `json:"unsupported"`
}

type Bridge struct {
	log *logrus.Entry

	data data.Provider

	steamClient      steam.Client
	floatClient      floatlib.Client
	reputationClient reputation.Client

	coordinator *coordinator.Service
	scheduler   alarm.Scheduler
	browser     browser.Browser
}

// NewBridge returns a new Bridge
func NewBridge(
	data data.Provider,
	steamClient steam.Client,
	floatClient floatlib.Client,
	reputationClient reputation.Client,
	coordinator *coordinator.Service,
	scheduler alarm.Scheduler,
	browser browser.Browser,
) *Bridge {
	return &Bridge{
		log:              logrus.StandardLogger().WithField("service", "bridge"),
		data:             data,
		steamClient:      steamClient,
		floatClient:      floatClient,
		reputationClient: reputationClient,
		coordinator:      coordinator,
		scheduler:        scheduler,
		browser:          browser,
	}
}

// Handle dispatches a single-key command object and always produces
// exactly one reply.
func (b *Bridge) Handle(ctx context.Context, raw []byte) interface{} {
	var request map[string]json.RawMessage
	if err := json.Unmarshal(raw, &request); err != nil || len(request) != 1 {
		return &UnsupportedReply{Unsupported: true}
	}

	for command, value := range request {
		return b.dispatch(ctx, command, value)
	}
	return &UnsupportedReply{Unsupported: true}
}

func (b *Bridge) dispatch(ctx context.Context, command string, value json.RawMessage) interface{} {
	log := b.log.WithField("command", command)

	switch command {
	case cmdInventory:
		return b.handleInventory(ctx, value)
	case cmdOtherInventory:
		return b.handleOtherInventory(ctx, value)
	case cmdValidateAPIKey:
		return b.handleValidateAPIKey(ctx, value)
	case cmdPersonaState:
		return b.handlePersonaState(ctx, value)
	case cmdFetchFloatInfo:
		return b.handleFetchFloatInfo(ctx, value)
	case cmdSteamRepInfo:
		return b.handleSteamRepInfo(ctx, value)
	case cmdTradeOffers:
		return b.handleTradeOffers(ctx, value)
	case cmdBuyOrderInfo:
		return b.handleBuyOrderInfo(ctx, value)
	case cmdBadgeText:
		return b.handleBadgeText(ctx, value)
	case cmdOpenInternalPage:
		return b.handleOpenInternalPage(ctx, value)
	case cmdSetAlarm:
		return b.handleSetAlarm(ctx, value)
	case cmdUpdateExchangeRate:
		b.coordinator.TriggerPriceRefresh(ctx)
		return ReplyOK
	case cmdHasTabsAccess:
		return b.browser.HasTabsPermission(ctx)
	case cmdCloseTab:
		return b.handleCloseTab(ctx, value)
	default:
		log.Debug("unsupported command")
		return &UnsupportedReply{Unsupported: true}
	}
}

func (b *Bridge) handleInventory(ctx context.Context, value json.RawMessage) interface{} {
	var steamID string
	if err := json.Unmarshal(value, &steamID); err != nil {
		return ReplyError
	}

	inventory, err := b.steamClient.GetInventory(ctx, steamID)
	if err != nil {
		b.log.WithError(err).Warn("failure fetching inventory")
		return ReplyError
	}

	b.priceInventory(ctx, inventory)
	return inventory
}

func (b *Bridge) handleOtherInventory(ctx context.Context, value json.RawMessage) interface{} {
	var request struct {
		AppID   int    `json:"appId"`
		SteamID string `json:"steamId"`
	}
	if err := json.Unmarshal(value, &request); err != nil {
		return ReplyError
	}

	inventory, err := b.steamClient.GetForeignInventory(ctx, request.AppID, request.SteamID)
	if err != nil {
		b.log.WithError(err).Warn("failure fetching foreign inventory")
		return ReplyError
	}
	return inventory
}

// priceInventory fills in the inventory's estimated total from the
// price snapshot, converted to the selected currency. Missing price
// data leaves the total at zero.
func (b *Bridge) priceInventory(ctx context.Context, inventory *steam.Inventory) {
	prices, err := b.data.GetPrices(ctx)
	if err != nil {
		return
	}

	rate, err := b.data.GetFloat64Setting(ctx, settings.KeyExchangeRate)
	if err != nil || rate == 0 {
		rate = 1.0
	}

	var total float64
	for _, item := range inventory.Items {
		total += prices[item.MarketHashName]
	}
	inventory.Total = total * rate
}

func (b *Bridge) handleValidateAPIKey(ctx context.Context, value json.RawMessage) interface{} {
	var apiKey string
	if err := json.Unmarshal(value, &apiKey); err != nil {
		return ReplyError
	}

	valid, err := b.steamClient.ValidateAPIKey(ctx, apiKey)
	if err != nil {
		b.log.WithError(err).Warn("failure validating api key")
		return ReplyError
	}

	if err := b.data.SetSetting(ctx, settings.KeyAPIKeyValid, valid); err != nil {
		b.log.WithError(err).Warn("failure saving api key validity")
	}
	return valid
}

func (b *Bridge) handlePersonaState(ctx context.Context, value json.RawMessage) interface{} {
	var steamID string
	if err := json.Unmarshal(value, &steamID); err != nil {
		return ReplyError
	}

	apiKey, err := b.data.GetStringSetting(ctx, settings.KeySteamAPIKey)
	if err != nil || apiKey == "" {
		return ReplyError
	}

	summaries, err := b.steamClient.GetPlayerSummaries(ctx, apiKey, []string{steamID})
	if err == steam.ErrAPIKeyInvalid {
		return ReplyAPIKeyInvalid
	} else if err != nil {
		b.log.WithError(err).Warn("failure fetching player summary")
		return ReplyError
	}

	summary, ok := summaries[steamID]
	if !ok {
		return ReplyError
	}
	return summary
}

func (b *Bridge) handleFetchFloatInfo(ctx context.Context, value json.RawMessage) interface{} {
	var request struct {
		InspectLink string   `json:"inspectLink"`
		Price       *float64 `json:"price,omitempty"`
	}
	if err := json.Unmarshal(value, &request); err != nil {
		// A bare inspect link string is accepted too
		if err := json.Unmarshal(value, &request.InspectLink); err != nil {
			return ReplyError
		}
	}

	assetID, err := floatlib.AssetIDFromInspectLink(request.InspectLink)
	if err != nil {
		return ReplyError
	}

	if cached, err := b.data.GetFloat(ctx, assetID); err == nil {
		// A cached zero float is a remembered "no float" result
		if cached.FloatValue == 0 {
			return ReplyNoFloat
		}
		return &floatlib.Info{
			FloatValue: cached.FloatValue,
			Paintseed:  int(cached.Paintseed),
			Paintindex: int(cached.Paintindex),
			FetchedAt:  cached.UpdatedAt,
		}
	}

	info, err := b.floatClient.GetFloatInfo(ctx, request.InspectLink, request.Price)
	if err == floatlib.ErrNoFloat {
		if err := b.data.PutFloat(ctx, &floatcache.Record{
			AssetID:   assetID,
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			b.log.WithError(err).Warn("failure caching float info")
		}
		return ReplyNoFloat
	}
	var statusErr *steam.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	if err != nil {
		b.log.WithError(err).Warn("failure fetching float info")
		return ReplyError
	}

	if err := b.data.PutFloat(ctx, &floatcache.Record{
		AssetID:    assetID,
		FloatValue: info.FloatValue,
		Paintseed:  int64(info.Paintseed),
		Paintindex: int64(info.Paintindex),
		UpdatedAt:  time.Now().UTC(),
	}); err != nil {
		b.log.WithError(err).Warn("failure caching float info")
	}
	return info
}

func (b *Bridge) handleSteamRepInfo(ctx context.Context, value json.RawMessage) interface{} {
	var steamID string
	if err := json.Unmarshal(value, &steamID); err != nil {
		return ReplyError
	}

	info, err := b.reputationClient.GetReputation(ctx, steamID)
	if err != nil {
		b.log.WithError(err).Warn("failure fetching reputation")
		return ReplyError
	}
	return info
}

func (b *Bridge) handleTradeOffers(ctx context.Context, value json.RawMessage) interface{} {
	var which string
	if err := json.Unmarshal(value, &which); err != nil {
		return ReplyError
	}

	filter := steam.OffersLive
	if which == "historical" {
		filter = steam.OffersHistorical
	}

	apiKey, err := b.data.GetStringSetting(ctx, settings.KeySteamAPIKey)
	if err != nil || apiKey == "" {
		return ReplyError
	}

	offers, err := b.steamClient.GetTradeOffers(ctx, apiKey, filter)
	if err == steam.ErrAPIKeyInvalid {
		return ReplyAPIKeyInvalid
	} else if err != nil {
		b.log.WithError(err).Warn("failure fetching trade offers")
		return ReplyError
	}
	return offers
}

func (b *Bridge) handleBuyOrderInfo(ctx context.Context, value json.RawMessage) interface{} {
	var request struct {
		AppID          int    `json:"appId"`
		MarketHashName string `json:"marketHashName"`
		CurrencyID     int    `json:"currencyId"`
	}
	if err := json.Unmarshal(value, &request); err != nil {
		return ReplyError
	}

	book, err := b.steamClient.GetBuyOrderBook(ctx, request.AppID, request.MarketHashName, request.CurrencyID)
	if err != nil {
		b.log.WithError(err).Warn("failure fetching buy order book")
		return ReplyError
	}
	return book
}

func (b *Bridge) handleBadgeText(ctx context.Context, value json.RawMessage) interface{} {
	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return ReplyError
	}

	if err := b.data.SetBadgeText(ctx, text); err != nil {
		b.log.WithError(err).Warn("failure setting badge text")
		return ReplyError
	}
	return ReplyOK
}

func (b *Bridge) handleOpenInternalPage(ctx context.Context, value json.RawMessage) interface{} {
	var page string
	if err := json.Unmarshal(value, &page); err != nil {
		return ReplyError
	}

	tabID, err := b.browser.OpenInternalPage(ctx, page)
	if err != nil {
		b.log.WithError(err).Warn("failure opening internal page")
		return ReplyError
	}
	return tabID
}

func (b *Bridge) handleSetAlarm(ctx context.Context, value json.RawMessage) interface{} {
	var request struct {
		Name string    `json:"name"`
		At   time.Time `json:"at"`
	}
	if err := json.Unmarshal(value, &request); err != nil || request.Name == "" {
		return ReplyError
	}

	// Bookmark timers must never shadow the reserved polling alarms
	if alarm.IsReserved(request.Name) {
		return ReplyError
	}

	if err := b.scheduler.Create(request.Name, alarm.OneShot(request.At)); err != nil {
		b.log.WithError(err).Warn("failure creating alarm")
		return ReplyError
	}
	return ReplyOK
}

func (b *Bridge) handleCloseTab(ctx context.Context, value json.RawMessage) interface{} {
	var tabID string
	if err := json.Unmarshal(value, &tabID); err != nil {
		return ReplyError
	}

	if err := b.browser.CloseTab(ctx, tabID); err != nil {
		b.log.WithError(err).Warn("failure closing tab")
		return ReplyError
	}
	return ReplyOK
}
