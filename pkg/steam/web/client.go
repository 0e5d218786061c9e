package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/csgotrader/trader-server/pkg/cache"
	"github.com/csgotrader/trader-server/pkg/metrics"
	"github.com/csgotrader/trader-server/pkg/retry"
	"github.com/csgotrader/trader-server/pkg/retry/backoff"
	"github.com/csgotrader/trader-server/pkg/steam"
)

const (
	metricsStructName = "steam.web.client"

	communityBaseURL = "https://steamcommunity.com"
	apiBaseURL       = "https://api.steampowered.com"

	notificationCountsURL = communityBaseURL + "/actions/GetNotificationCounts"
	apiKeyPageURL         = communityBaseURL + "/dev/apikey"
	groupInvitesURL       = communityBaseURL + "/my/groups/pending"
	ignoreInviteURLFormat = communityBaseURL + "/gid/%s/invite"
	markMessagesReadURL   = communityBaseURL + "/actions/ModMessagesRead"

	playerSummariesURLFormat = apiBaseURL + "/ISteamUser/GetPlayerSummaries/v0002/?key=%s&steamids=%s"
	tradeOffersURLFormat     = apiBaseURL + "/IEconService/GetTradeOffers/v1/?key=%s&get_received_offers=%d&get_sent_offers=%d&get_descriptions=%d&language=english&active_only=%d&historical_only=%d&time_historical_cutoff=%d"

	inventoryURLFormat        = communityBaseURL + "/inventory/%s/730/2?l=english&count=2000"
	foreignInventoryURLFormat = communityBaseURL + "/inventory/%s/%d/2?l=english&count=2000"

	listingPageURLFormat = communityBaseURL + "/market/listings/%d/%s"
	histogramURLFormat   = communityBaseURL + "/market/itemordershistogram?country=US&language=english&currency=%d&item_nameid=%s"

	csgoAppID = 730

	itemNameIDCacheBudget = 10000
)

// Steam notification type identifiers as reported by GetNotificationCounts.
const (
	notificationTypeTradeOffers       = "1"
	notificationTypeModeratorMessages = "3"
	notificationTypeComments          = "4"
	notificationTypeItems             = "5"
	notificationTypeInvites           = "6"
)

var (
	apiKeyPattern     = regexp.MustCompile(`<p>Key: ([0-9A-F]{32})</p>`)
	orderSpreadMarker = "Market_LoadOrderSpread( "
)

type client struct {
	httpClient *http.Client
	retrier    retry.Retrier

	// Listing item name ids never change, so scraped values are kept
	// to skip the listing page fetch on repeat histogram lookups.
	itemNameIDCache cache.Cache
}

// NewClient returns a steam.Client backed by the Steam web API and the
// community site. The cookie jar on the provided http.Client carries the
// user's web session for community endpoints.
func NewClient(httpClient *http.Client) steam.Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 15 * time.Second,
		}
	}

	return &client{
		httpClient:      httpClient,
		itemNameIDCache: cache.NewCache(itemNameIDCacheBudget),
		retrier: retry.NewRetrier(
			retry.NonRetriableErrors(context.Canceled),
			retry.Limit(3),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), 10*time.Second, 0.1),
		),
	}
}

// GetNotificationCounts implements steam.Client.GetNotificationCounts
func (c *client) GetNotificationCounts(ctx context.Context) (*steam.NotificationCounts, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetNotificationCounts")
	defer tracer.End()

	var resp struct {
		Notifications map[string]int `json:"notifications"`
	}
	if err := c.getJSON(ctx, notificationCountsURL, &resp); err != nil {
		tracer.OnError(err)
		return nil, err
	}

	if resp.Notifications == nil {
		err := errors.New("notification counts missing from response")
		tracer.OnError(err)
		return nil, err
	}

	return &steam.NotificationCounts{
		Invites:           resp.Notifications[notificationTypeInvites],
		ModeratorMessages: resp.Notifications[notificationTypeModeratorMessages],
		TradeOffers:       resp.Notifications[notificationTypeTradeOffers],
		Items:             resp.Notifications[notificationTypeItems],
		Comments:          resp.Notifications[notificationTypeComments],
	}, nil
}

// GetPlayerSummaries implements steam.Client.GetPlayerSummaries
func (c *client) GetPlayerSummaries(ctx context.Context, apiKey string, steamIDs []string) (map[string]steam.PlayerSummary, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetPlayerSummaries")
	defer tracer.End()

	var resp struct {
		Response struct {
			Players []steam.PlayerSummary `json:"players"`
		} `json:"response"`
	}

	requestURL := fmt.Sprintf(playerSummariesURLFormat, url.QueryEscape(apiKey), strings.Join(steamIDs, ","))
	err := c.getJSONWithKeyCheck(ctx, requestURL, &resp)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	summaries := make(map[string]steam.PlayerSummary, len(resp.Response.Players))
	for _, player := range resp.Response.Players {
		summaries[player.SteamID] = player
	}

	return summaries, nil
}

// ValidateAPIKey implements steam.Client.ValidateAPIKey
func (c *client) ValidateAPIKey(ctx context.Context, apiKey string) (bool, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ValidateAPIKey")
	defer tracer.End()

	// A summary lookup of a known-good account is the cheapest way to
	// exercise the key.
	_, err := c.GetPlayerSummaries(ctx, apiKey, []string{"76561197960287930"})
	if errors.Is(err, steam.ErrAPIKeyInvalid) {
		return false, nil
	} else if err != nil {
		tracer.OnError(err)
		return false, err
	}

	return true, nil
}

// ScrapeAPIKey implements steam.Client.ScrapeAPIKey
func (c *client) ScrapeAPIKey(ctx context.Context) (string, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ScrapeAPIKey")
	defer tracer.End()

	body, err := c.getBody(ctx, apiKeyPageURL)
	if err != nil {
		tracer.OnError(err)
		return "", err
	}

	match := apiKeyPattern.FindStringSubmatch(body)
	if match == nil {
		return "", steam.ErrNoAPIKey
	}

	return match[1], nil
}

// GetTradeOffers implements steam.Client.GetTradeOffers
func (c *client) GetTradeOffers(ctx context.Context, apiKey string, filter steam.OfferFilter) (*steam.TradeOffers, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetTradeOffers")
	defer tracer.End()

	var received, sent, descriptions, activeOnly, historicalOnly, cutoff int
	switch filter {
	case steam.OffersHistorical:
		historicalOnly = 1
		received = 1
		sent = 1
		cutoff = int(time.Now().Add(-90 * 24 * time.Hour).Unix())
	default:
		activeOnly = 1
		received = 1
		descriptions = 1
	}

	var resp struct {
		Response steam.TradeOffers `json:"response"`
	}

	requestURL := fmt.Sprintf(tradeOffersURLFormat, url.QueryEscape(apiKey), received, sent, descriptions, activeOnly, historicalOnly, cutoff)
	err := c.getJSONWithKeyCheck(ctx, requestURL, &resp)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	return &resp.Response, nil
}

// GetInventory implements steam.Client.GetInventory
func (c *client) GetInventory(ctx context.Context, steamID string) (*steam.Inventory, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetInventory")
	defer tracer.End()

	inventory, err := c.getInventory(ctx, fmt.Sprintf(inventoryURLFormat, url.PathEscape(steamID)))
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	return inventory, nil
}

// GetForeignInventory implements steam.Client.GetForeignInventory
func (c *client) GetForeignInventory(ctx context.Context, appID int, steamID string) (*steam.Inventory, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetForeignInventory")
	defer tracer.End()

	inventory, err := c.getInventory(ctx, fmt.Sprintf(foreignInventoryURLFormat, url.PathEscape(steamID), appID))
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	return inventory, nil
}

// GetGroupInvites implements steam.Client.GetGroupInvites
func (c *client) GetGroupInvites(ctx context.Context) ([]steam.GroupInvite, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetGroupInvites")
	defer tracer.End()

	body, err := c.getBody(ctx, groupInvitesURL)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	return parseGroupInvites(body), nil
}

// IgnoreGroupInvite implements steam.Client.IgnoreGroupInvite
func (c *client) IgnoreGroupInvite(ctx context.Context, groupID string) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "IgnoreGroupInvite")
	defer tracer.End()

	form := url.Values{}
	form.Set("action", "ignore")

	err := c.postForm(ctx, fmt.Sprintf(ignoreInviteURLFormat, url.PathEscape(groupID)), form)
	if err != nil {
		tracer.OnError(err)
		return err
	}

	return nil
}

// MarkModerationMessagesRead implements steam.Client.MarkModerationMessagesRead
func (c *client) MarkModerationMessagesRead(ctx context.Context) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "MarkModerationMessagesRead")
	defer tracer.End()

	err := c.postForm(ctx, markMessagesReadURL, url.Values{})
	if err != nil {
		tracer.OnError(err)
		return err
	}

	return nil
}

// GetBuyOrderBook implements steam.Client.GetBuyOrderBook
func (c *client) GetBuyOrderBook(ctx context.Context, appID int, marketHashName string, currencyID int) (*steam.BuyOrderBook, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetBuyOrderBook")
	defer tracer.End()

	if appID == 0 {
		appID = csgoAppID
	}

	itemNameID, err := c.getItemNameID(ctx, appID, marketHashName)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	var book steam.BuyOrderBook
	if err := c.getJSON(ctx, fmt.Sprintf(histogramURLFormat, currencyID, itemNameID), &book); err != nil {
		tracer.OnError(err)
		return nil, err
	}

	return &book, nil
}

func (c *client) getItemNameID(ctx context.Context, appID int, marketHashName string) (string, error) {
	cacheKey := fmt.Sprintf("%d|%s", appID, marketHashName)
	if cached, ok := c.itemNameIDCache.Retrieve(cacheKey); ok {
		return cached.(string), nil
	}

	listingBody, err := c.getBody(ctx, fmt.Sprintf(listingPageURLFormat, appID, url.PathEscape(marketHashName)))
	if err != nil {
		return "", err
	}

	itemNameID, err := extractItemNameID(listingBody)
	if err != nil {
		return "", err
	}

	_ = c.itemNameIDCache.Insert(cacheKey, itemNameID, 1)
	return itemNameID, nil
}

func (c *client) getInventory(ctx context.Context, requestURL string) (*steam.Inventory, error) {
	var resp inventoryResponse
	if err := c.getJSON(ctx, requestURL, &resp); err != nil {
		return nil, err
	}

	return resp.toInventory()
}

func (c *client) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	body, err := c.getBody(ctx, requestURL)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}

// getJSONWithKeyCheck is getJSON, but maps a 403 to ErrAPIKeyInvalid for
// key-authenticated web API endpoints rather than ErrAccessDenied.
func (c *client) getJSONWithKeyCheck(ctx context.Context, requestURL string, out interface{}) error {
	err := c.getJSON(ctx, requestURL, out)
	if errors.Is(err, steam.ErrAccessDenied) {
		return steam.ErrAPIKeyInvalid
	}
	return err
}

func (c *client) getBody(ctx context.Context, requestURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}

	var httpResp *http.Response
	_, err = c.retrier.Retry(
		func() error {
			httpResp, err = c.httpClient.Do(req)
			return err
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to make request")
	}
	defer httpResp.Body.Close()

	if err := checkStatus(httpResp.StatusCode); err != nil {
		return "", err
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	return string(body), nil
}

func (c *client) postForm(ctx context.Context, requestURL string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to make request")
	}
	defer httpResp.Body.Close()

	return checkStatus(httpResp.StatusCode)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized:
		return steam.ErrUnauthenticated
	case code == http.StatusForbidden:
		return steam.ErrAccessDenied
	case code >= http.StatusInternalServerError:
		return &steam.StatusError{Code: code}
	default:
		return errors.Errorf("received non-200 status code: %d", code)
	}
}

func extractItemNameID(listingBody string) (string, error) {
	_, after, found := strings.Cut(listingBody, orderSpreadMarker)
	if !found {
		return "", errors.New("order spread marker not found in listing page")
	}

	fields := strings.Fields(after)
	if len(fields) == 0 {
		return "", errors.New("item name id not found in listing page")
	}

	itemNameID := strings.TrimRight(fields[0], " );")
	if itemNameID == "" {
		return "", errors.New("item name id not found in listing page")
	}

	return itemNameID, nil
}

var groupInvitePattern = regexp.MustCompile(`data-groupid="(\d+)"[^>]*data-inviter="(\d+)"`)

func parseGroupInvites(body string) []steam.GroupInvite {
	var invites []steam.GroupInvite
	for _, match := range groupInvitePattern.FindAllStringSubmatch(body, -1) {
		invites = append(invites, steam.GroupInvite{
			GroupID:        match[1],
			InviterSteamID: match[2],
		})
	}
	return invites
}

type inventoryResponse struct {
	Assets []struct {
		AssetID    string `json:"assetid"`
		ClassID    string `json:"classid"`
		InstanceID string `json:"instanceid"`
	} `json:"assets"`
	Descriptions []struct {
		ClassID        string `json:"classid"`
		InstanceID     string `json:"instanceid"`
		MarketHashName string `json:"market_hash_name"`
		IconURL        string `json:"icon_url"`
		Tradable       int    `json:"tradable"`
		Marketable     int    `json:"marketable"`
		Actions        []struct {
			Link string `json:"link"`
		} `json:"actions"`
	} `json:"descriptions"`
	Success int `json:"success"`
}

func (r *inventoryResponse) toInventory() (*steam.Inventory, error) {
	if r.Success != 1 {
		return nil, errors.New("inventory response was not successful")
	}

	type descKey struct {
		classID    string
		instanceID string
	}

	descriptions := make(map[descKey]int, len(r.Descriptions))
	for i, desc := range r.Descriptions {
		descriptions[descKey{desc.ClassID, desc.InstanceID}] = i
	}

	items := make([]steam.InventoryItem, 0, len(r.Assets))
	for _, asset := range r.Assets {
		item := steam.InventoryItem{
			AssetID:    asset.AssetID,
			ClassID:    asset.ClassID,
			InstanceID: asset.InstanceID,
		}

		if i, ok := descriptions[descKey{asset.ClassID, asset.InstanceID}]; ok {
			desc := r.Descriptions[i]
			item.MarketHashName = desc.MarketHashName
			item.IconURL = desc.IconURL
			item.Tradable = desc.Tradable == 1
			item.Marketable = desc.Marketable == 1
			if len(desc.Actions) > 0 {
				item.InspectLink = strings.Replace(desc.Actions[0].Link, "%assetid%", asset.AssetID, 1)
			}
		}

		items = append(items, item)
	}

	return &steam.Inventory{Items: items}, nil
}
