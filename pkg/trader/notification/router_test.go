package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/browser"
	browser_memory "github.com/csgotrader/trader-server/pkg/trader/browser/memory"
	"github.com/csgotrader/trader-server/pkg/trader/data"
	"github.com/csgotrader/trader-server/pkg/trader/notification"
)

func TestRouter_ClickResetsBadge(t *testing.T) {
	ctx := context.Background()
	provider := data.NewTestDataProvider()
	fakeBrowser := browser_memory.New()
	router := notification.NewRouter(provider, fakeBrowser)

	require.NoError(t, provider.SetBadgeText(ctx, "3"))

	require.NoError(t, router.HandleClick(ctx, notification.Updated().String()))

	text, err := provider.GetBadgeText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestRouter_FixedDestinations(t *testing.T) {
	ctx := context.Background()
	provider := data.NewTestDataProvider()
	fakeBrowser := browser_memory.New()
	router := notification.NewRouter(provider, fakeBrowser)

	require.NoError(t, router.HandleClick(ctx, "updated"))
	require.Len(t, fakeBrowser.OpenedPages, 1)
	assert.Equal(t, browser.PageChangelog, fakeBrowser.OpenedPages[0])

	require.NoError(t, router.HandleClick(ctx, "new_comment"))
	require.Len(t, fakeBrowser.OpenedURLs, 1)
	assert.Equal(t, "https://steamcommunity.com/my/commentnotifications", fakeBrowser.OpenedURLs[0])
}

func TestRouter_PrefixDestinations(t *testing.T) {
	ctx := context.Background()
	provider := data.NewTestDataProvider()
	fakeBrowser := browser_memory.New()
	router := notification.NewRouter(provider, fakeBrowser)

	require.NoError(t, router.HandleClick(ctx, "offer_received_5551234"))
	require.NoError(t, router.HandleClick(ctx, "new_inventory_items_1700000000"))
	require.NoError(t, router.HandleClick(ctx, "invite_76561198000000001"))

	require.Len(t, fakeBrowser.OpenedURLs, 3)
	assert.Equal(t, "https://steamcommunity.com/tradeoffer/5551234/", fakeBrowser.OpenedURLs[0])
	assert.Equal(t, "https://steamcommunity.com/my/inventory/", fakeBrowser.OpenedURLs[1])
	assert.Equal(t, "https://steamcommunity.com/profiles/76561198000000001/", fakeBrowser.OpenedURLs[2])
}

func TestRouter_DefaultsToBookmarksView(t *testing.T) {
	ctx := context.Background()
	provider := data.NewTestDataProvider()
	fakeBrowser := browser_memory.New()
	router := notification.NewRouter(provider, fakeBrowser)

	require.NoError(t, router.HandleClick(ctx, "20000000001"))

	require.Len(t, fakeBrowser.OpenedPages, 1)
	assert.Equal(t, browser.PageBookmarks, fakeBrowser.OpenedPages[0])
}

func TestRouter_NoNavigationWithoutPermission(t *testing.T) {
	ctx := context.Background()
	provider := data.NewTestDataProvider()
	fakeBrowser := browser_memory.New()
	fakeBrowser.TabsPermission = false
	router := notification.NewRouter(provider, fakeBrowser)

	require.NoError(t, provider.SetBadgeText(ctx, "2"))
	require.NoError(t, router.HandleClick(ctx, "updated"))

	assert.Empty(t, fakeBrowser.OpenedPages)
	assert.Empty(t, fakeBrowser.OpenedURLs)

	// The badge still resets even when the click is swallowed
	text, err := provider.GetBadgeText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}
