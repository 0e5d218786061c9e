package steam

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAPIKeyInvalid indicates the configured Steam web API key was rejected.
	// Callers should prompt for re-entry of the credential rather than treat
	// the failure as transient.
	ErrAPIKeyInvalid = errors.New("steam: api key invalid")

	// ErrUnauthenticated indicates the user has no valid Steam web session.
	ErrUnauthenticated = errors.New("steam: not signed in")

	// ErrAccessDenied indicates Steam is refusing requests from this client,
	// typically due to throttling.
	ErrAccessDenied = errors.New("steam: access denied")

	// ErrNoAPIKey indicates no API key has been issued for the account yet.
	ErrNoAPIKey = errors.New("steam: no api key issued")
)

// StatusError carries an HTTP status code callers may special-case.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("steam: status code %d", e.Code)
}

// NotificationCounts is the batched set of pending notification counts for
// the signed-in user.
type NotificationCounts struct {
	Invites           int
	ModeratorMessages int
	TradeOffers       int
	Items             int
	Comments          int
}

// PlayerSummary is the subset of a Steam persona the service cares about.
type PlayerSummary struct {
	SteamID      string `json:"steamid"`
	PersonaName  string `json:"personaname"`
	PersonaState int    `json:"personastate"`
	AvatarURL    string `json:"avatarfull"`
}

// OfferFilter selects which trade offers to fetch.
type OfferFilter int

const (
	OffersLive OfferFilter = iota
	OffersHistorical
)

// TradeOffer mirrors the IEconService trade offer payload.
type TradeOffer struct {
	TradeOfferID   string      `json:"tradeofferid"`
	AccountIDOther int64       `json:"accountid_other"`
	Message        string      `json:"message"`
	ExpirationTime int64       `json:"expiration_time"`
	State          int         `json:"trade_offer_state"`
	ItemsToGive    []OfferItem `json:"items_to_give"`
	ItemsToReceive []OfferItem `json:"items_to_receive"`
	IsOurOffer     bool        `json:"is_our_offer"`
	TimeCreated    int64       `json:"time_created"`
	TimeUpdated    int64       `json:"time_updated"`
}

// OfferItem is an asset referenced by a trade offer.
type OfferItem struct {
	AppID      int    `json:"appid"`
	ContextID  string `json:"contextid"`
	AssetID    string `json:"assetid"`
	ClassID    string `json:"classid"`
	InstanceID string `json:"instanceid"`
	Amount     string `json:"amount"`
}

// TradeOffers is a combined received/sent offer listing.
type TradeOffers struct {
	Received []TradeOffer `json:"trade_offers_received"`
	Sent     []TradeOffer `json:"trade_offers_sent"`
}

// InventoryItem is a single asset with its description merged in.
type InventoryItem struct {
	AssetID        string `json:"assetid"`
	ClassID        string `json:"classid"`
	InstanceID     string `json:"instanceid"`
	MarketHashName string `json:"market_hash_name"`
	IconURL        string `json:"icon_url"`
	Tradable       bool   `json:"tradable"`
	Marketable     bool   `json:"marketable"`
	InspectLink    string `json:"inspect_link,omitempty"`
}

// Inventory is a user's inventory for a single app along with its estimated
// total value, when price data is available to the caller.
type Inventory struct {
	Items []InventoryItem `json:"items"`
	Total float64         `json:"total"`
}

// GroupInvite is a pending group invite and the user who sent it.
type GroupInvite struct {
	GroupID        string
	InviterSteamID string
}

// BuyOrderBook is the buy/sell order histogram for a market listing.
type BuyOrderBook struct {
	BuyOrderGraph   [][]interface{} `json:"buy_order_graph"`
	SellOrderGraph  [][]interface{} `json:"sell_order_graph"`
	HighestBuyOrder string          `json:"highest_buy_order"`
	LowestSellOrder string          `json:"lowest_sell_order"`
}

// Client wraps the calls the coordinator makes against Steam, covering both
// the official web API (key-authenticated) and community endpoints
// (session-authenticated).
type Client interface {
	// GetNotificationCounts fetches all pending notification counts in one
	// batched call. Returns ErrUnauthenticated or ErrAccessDenied as typed
	// failures the caller must branch on.
	GetNotificationCounts(ctx context.Context) (*NotificationCounts, error)

	// GetPlayerSummaries fetches persona data for the given Steam IDs,
	// keyed by Steam ID. Distinguishes ErrAPIKeyInvalid from generic failure.
	GetPlayerSummaries(ctx context.Context, apiKey string, steamIDs []string) (map[string]PlayerSummary, error)

	// ValidateAPIKey reports whether the provided web API key is accepted.
	ValidateAPIKey(ctx context.Context, apiKey string) (bool, error)

	// ScrapeAPIKey opportunistically harvests an already-issued API key from
	// the community site. Returns ErrNoAPIKey when none has been generated.
	ScrapeAPIKey(ctx context.Context) (string, error)

	// GetTradeOffers fetches live or historical trade offers.
	// Distinguishes ErrAPIKeyInvalid from generic failure.
	GetTradeOffers(ctx context.Context, apiKey string, filter OfferFilter) (*TradeOffers, error)

	// GetInventory fetches the signed-in user's CS:GO inventory.
	GetInventory(ctx context.Context, steamID string) (*Inventory, error)

	// GetForeignInventory fetches another game's inventory for a user.
	GetForeignInventory(ctx context.Context, appID int, steamID string) (*Inventory, error)

	// GetGroupInvites lists pending group invites.
	GetGroupInvites(ctx context.Context) ([]GroupInvite, error)

	// IgnoreGroupInvite declines a pending group invite.
	IgnoreGroupInvite(ctx context.Context, groupID string) error

	// MarkModerationMessagesRead acknowledges all moderator messages.
	MarkModerationMessagesRead(ctx context.Context) error

	// GetBuyOrderBook fetches the order histogram for a market listing. This
	// is a two-step call: the listing page is scraped for the item name id,
	// then the histogram endpoint is queried.
	GetBuyOrderBook(ctx context.Context, appID int, marketHashName string, currencyID int) (*BuyOrderBook, error)
}
