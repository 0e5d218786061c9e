package memory

import (
	"context"
	"sync"

	"github.com/csgotrader/trader-server/pkg/steam"
)

// Client is a configurable in memory steam.Client for testing.
type Client struct {
	mu sync.Mutex

	Counts    steam.NotificationCounts
	CountsErr error

	Summaries    map[string]steam.PlayerSummary
	SummariesErr error

	APIKey      string
	ScrapeErr   error
	KeyValid    bool
	ValidateErr error

	Offers    steam.TradeOffers
	OffersErr error

	Inventory    steam.Inventory
	InventoryErr error

	Invites    []steam.GroupInvite
	InvitesErr error

	Book    steam.BuyOrderBook
	BookErr error

	notificationCountCalls int
	groupInviteCalls       int
	ignoredGroups          []string
	markReadCalls          int
}

// NewClient returns a new in memory steam.Client
func NewClient() *Client {
	return &Client{
		Summaries: make(map[string]steam.PlayerSummary),
		KeyValid:  true,
	}
}

// GetNotificationCounts implements steam.Client.GetNotificationCounts
func (c *Client) GetNotificationCounts(_ context.Context) (*steam.NotificationCounts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notificationCountCalls++
	if c.CountsErr != nil {
		return nil, c.CountsErr
	}
	counts := c.Counts
	return &counts, nil
}

// GetPlayerSummaries implements steam.Client.GetPlayerSummaries
func (c *Client) GetPlayerSummaries(_ context.Context, _ string, steamIDs []string) (map[string]steam.PlayerSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SummariesErr != nil {
		return nil, c.SummariesErr
	}

	summaries := make(map[string]steam.PlayerSummary)
	for _, id := range steamIDs {
		if summary, ok := c.Summaries[id]; ok {
			summaries[id] = summary
		}
	}
	return summaries, nil
}

// ValidateAPIKey implements steam.Client.ValidateAPIKey
func (c *Client) ValidateAPIKey(_ context.Context, _ string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ValidateErr != nil {
		return false, c.ValidateErr
	}
	return c.KeyValid, nil
}

// ScrapeAPIKey implements steam.Client.ScrapeAPIKey
func (c *Client) ScrapeAPIKey(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ScrapeErr != nil {
		return "", c.ScrapeErr
	}
	if c.APIKey == "" {
		return "", steam.ErrNoAPIKey
	}
	return c.APIKey, nil
}

// GetTradeOffers implements steam.Client.GetTradeOffers
func (c *Client) GetTradeOffers(_ context.Context, _ string, _ steam.OfferFilter) (*steam.TradeOffers, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.OffersErr != nil {
		return nil, c.OffersErr
	}
	offers := c.Offers
	return &offers, nil
}

// GetInventory implements steam.Client.GetInventory
func (c *Client) GetInventory(_ context.Context, _ string) (*steam.Inventory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.InventoryErr != nil {
		return nil, c.InventoryErr
	}
	inventory := c.Inventory
	return &inventory, nil
}

// GetForeignInventory implements steam.Client.GetForeignInventory
func (c *Client) GetForeignInventory(_ context.Context, _ int, _ string) (*steam.Inventory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.InventoryErr != nil {
		return nil, c.InventoryErr
	}
	inventory := c.Inventory
	return &inventory, nil
}

// GetGroupInvites implements steam.Client.GetGroupInvites
func (c *Client) GetGroupInvites(_ context.Context) ([]steam.GroupInvite, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.groupInviteCalls++
	if c.InvitesErr != nil {
		return nil, c.InvitesErr
	}
	return append([]steam.GroupInvite(nil), c.Invites...), nil
}

// IgnoreGroupInvite implements steam.Client.IgnoreGroupInvite
func (c *Client) IgnoreGroupInvite(_ context.Context, groupID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ignoredGroups = append(c.ignoredGroups, groupID)
	return nil
}

// MarkModerationMessagesRead implements steam.Client.MarkModerationMessagesRead
func (c *Client) MarkModerationMessagesRead(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.markReadCalls++
	return nil
}

// GetBuyOrderBook implements steam.Client.GetBuyOrderBook
func (c *Client) GetBuyOrderBook(_ context.Context, _ int, _ string, _ int) (*steam.BuyOrderBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.BookErr != nil {
		return nil, c.BookErr
	}
	book := c.Book
	return &book, nil
}

// NotificationCountCalls returns how many times notification counts were fetched.
func (c *Client) NotificationCountCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.notificationCountCalls
}

// GroupInviteCalls returns how many times group invites were fetched.
func (c *Client) GroupInviteCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.groupInviteCalls
}

// IgnoredGroups returns the group ids that were declined.
func (c *Client) IgnoredGroups() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.ignoredGroups...)
}

// MarkReadCalls returns how many times moderation messages were acknowledged.
func (c *Client) MarkReadCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.markReadCalls
}
