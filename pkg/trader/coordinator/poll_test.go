package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/steam"
	"github.com/csgotrader/trader-server/pkg/trader/alarm"
	"github.com/csgotrader/trader-server/pkg/trader/data/bookmark"
	"github.com/csgotrader/trader-server/pkg/trader/data/invite"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
)

func TestRetryPriceUpdate_SelfCancelsOncePricesPresent(t *testing.T) {
	env := setup(t, true)

	// No snapshot yet, so a fire re-attempts the refresh
	env.scheduler.Fire(alarm.NameRetryPriceUpdate)
	assert.Equal(t, 1, env.pricing.PriceCalls())

	_, err := env.data.GetPrices(env.ctx)
	require.NoError(t, err)

	// With the snapshot present the alarm removes itself
	env.scheduler.Fire(alarm.NameRetryPriceUpdate)
	assert.Equal(t, 1, env.pricing.PriceCalls())
	assert.Contains(t, env.scheduler.Cleared, alarm.NameRetryPriceUpdate)
}

func TestInviteRefresh_GatedOnMatchingCount(t *testing.T) {
	env := setup(t, true)

	require.NoError(t, env.data.SaveInviteSummary(env.ctx, &invite.Summary{
		LastUpdatedAt: time.Now().UTC(),
		Inviters:      []string{"76561198000000001"},
	}))
	env.steam.Counts = steam.NotificationCounts{Invites: 1}

	env.scheduler.Fire(alarm.NameNotificationCount)

	assert.Equal(t, 0, env.steam.GroupInviteCalls())
}

func TestInviteRefresh_CountMismatchTriggersFetch(t *testing.T) {
	env := setup(t, true)

	require.NoError(t, env.data.SaveInviteSummary(env.ctx, &invite.Summary{
		LastUpdatedAt: time.Now().UTC(),
	}))
	env.steam.Counts = steam.NotificationCounts{Invites: 1}
	env.steam.Invites = []steam.GroupInvite{
		{InviterSteamID: "76561198000000001"},
	}

	env.scheduler.Fire(alarm.NameNotificationCount)

	assert.Equal(t, 1, env.steam.GroupInviteCalls())
	require.Contains(t, env.notifier.ByID, "invite_76561198000000001")

	summary, err := env.data.GetInviteSummary(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"76561198000000001"}, summary.Inviters)
	assert.False(t, summary.LastUpdatedAt.IsZero())
}

func TestInviteRefresh_StalenessTriggersFetch(t *testing.T) {
	env := setup(t, true)

	require.NoError(t, env.data.SaveInviteSummary(env.ctx, &invite.Summary{
		LastUpdatedAt: time.Now().Add(-time.Hour).UTC(),
	}))
	env.steam.Counts = steam.NotificationCounts{Invites: 0}

	env.scheduler.Fire(alarm.NameNotificationCount)

	assert.Equal(t, 1, env.steam.GroupInviteCalls())
}

func TestInviteRefresh_GroupInvitesAutoDeclined(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyIgnoreGroupInvites, true))

	env.steam.Counts = steam.NotificationCounts{Invites: 1}
	env.steam.Invites = []steam.GroupInvite{
		{GroupID: "103582791400000001", InviterSteamID: "76561198000000001"},
	}

	env.scheduler.Fire(alarm.NameNotificationCount)

	assert.Equal(t, []string{"103582791400000001"}, env.steam.IgnoredGroups())

	summary, err := env.data.GetInviteSummary(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.InvitedToGroups)
}

func TestInviteRefresh_AutoDeclineRunsWithMonitoringOff(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyMonitorFriendRequests, false))
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyIgnoreGroupInvites, true))

	env.steam.Counts = steam.NotificationCounts{Invites: 2}
	env.steam.Invites = []steam.GroupInvite{
		{GroupID: "103582791400000001", InviterSteamID: "76561198000000001"},
		{InviterSteamID: "76561198000000002"},
	}

	env.scheduler.Fire(alarm.NameNotificationCount)

	// The group invite is still fetched and declined
	assert.Equal(t, 1, env.steam.GroupInviteCalls())
	assert.Equal(t, []string{"103582791400000001"}, env.steam.IgnoredGroups())

	// The inviter ledger is untouched: no notification, no events
	assert.NotContains(t, env.notifier.ByID, "invite_76561198000000002")
	events, err := env.data.GetInviteEvents(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestModeratorMessages_MarkedRead(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyMarkModMessagesAsRead, true))

	env.steam.Counts = steam.NotificationCounts{ModeratorMessages: 2}
	env.scheduler.Fire(alarm.NameNotificationCount)
	assert.Equal(t, 1, env.steam.MarkReadCalls())

	env.steam.Counts = steam.NotificationCounts{}
	env.scheduler.Fire(alarm.NameNotificationCount)
	assert.Equal(t, 1, env.steam.MarkReadCalls())
}

func TestTradeOffers_NewOfferNotifies(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeySteamAPIKey, "0123456789ABCDEF0123456789ABCDEF"))

	env.steam.Counts = steam.NotificationCounts{TradeOffers: 1}
	env.steam.Offers = steam.TradeOffers{
		Received: []steam.TradeOffer{
			{TradeOfferID: "5551234", State: 2},
			{TradeOfferID: "5550000", State: 3},
		},
	}

	env.scheduler.Fire(alarm.NameNotificationCount)

	require.Contains(t, env.notifier.ByID, "offer_received_5551234")
	assert.NotContains(t, env.notifier.ByID, "offer_received_5550000")

	summary, err := env.data.GetOfferSummary(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ReceivedActiveCount)
	assert.False(t, summary.LastFullUpdateAt.IsZero())

	// A second pass with an unchanged offer set records no new events
	env.scheduler.Fire(alarm.NameNotificationCount)
	events, err := env.data.GetOfferEvents(env.ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestNewItems_DecreaseAbsorbedSilently(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyNumberOfNewItems, 5.0))

	env.steam.Counts = steam.NotificationCounts{Items: 3}
	env.scheduler.Fire(alarm.NameNotificationCount)

	for id := range env.notifier.ByID {
		assert.NotContains(t, id, "new_inventory_items_")
	}

	stored, err := env.data.GetIntSetting(env.ctx, settings.KeyNumberOfNewItems)
	require.NoError(t, err)
	assert.Equal(t, 3, stored)
}

func TestNewItems_IncreaseNotifiesWithDelta(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyNumberOfNewItems, 5.0))

	env.steam.Counts = steam.NotificationCounts{Items: 8}
	env.scheduler.Fire(alarm.NameNotificationCount)

	last := env.notifier.Last()
	require.NotNil(t, last)
	assert.Equal(t, "You have 3 items in your inventory!", last.Message)

	stored, err := env.data.GetIntSetting(env.ctx, settings.KeyNumberOfNewItems)
	require.NoError(t, err)
	assert.Equal(t, 8, stored)
}

func TestNewItems_SingularForm(t *testing.T) {
	env := setup(t, true)

	env.steam.Counts = steam.NotificationCounts{Items: 1}
	env.scheduler.Fire(alarm.NameNotificationCount)

	last := env.notifier.Last()
	require.NotNil(t, last)
	assert.Equal(t, "You have 1 item in your inventory!", last.Message)
}

func TestComments_PositiveDeltaNotifies(t *testing.T) {
	env := setup(t, true)

	env.steam.Counts = steam.NotificationCounts{Comments: 1}
	env.scheduler.Fire(alarm.NameNotificationCount)

	require.Contains(t, env.notifier.ByID, "new_comment")
	assert.Equal(t, "You have a new comment!", env.notifier.ByID["new_comment"].Message)

	env.steam.Counts = steam.NotificationCounts{Comments: 4}
	env.scheduler.Fire(alarm.NameNotificationCount)
	assert.Equal(t, "You have 3 new comments!", env.notifier.ByID["new_comment"].Message)

	stored, err := env.data.GetIntSetting(env.ctx, settings.KeyNumberOfComments)
	require.NoError(t, err)
	assert.Equal(t, 4, stored)
}

func TestUnauthenticated_SuspendsPollingForAnHour(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.scheduler.Create(alarm.NameNotificationCount, alarm.Periodic(1)))

	env.steam.CountsErr = steam.ErrUnauthenticated

	before := time.Now()
	env.scheduler.Fire(alarm.NameNotificationCount)

	assert.False(t, env.scheduler.Registered(alarm.NameNotificationCount))

	policy, ok := env.scheduler.Policy(alarm.NameRestartChecks)
	require.True(t, ok)
	assert.WithinDuration(t, before.Add(time.Hour), policy.At, 5*time.Second)

	// notifyAboutBeingLoggedOut defaults off, so the suspension is silent
	assert.NotContains(t, env.notifier.ByID, "signed_out")
}

func TestUnauthenticated_OptInNotification(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyNotifyWhenLoggedOut, true))

	env.steam.CountsErr = steam.ErrUnauthenticated
	env.scheduler.Fire(alarm.NameNotificationCount)

	assert.Contains(t, env.notifier.ByID, "signed_out")
}

func TestAccessDenied_SuspendsWithoutNotifying(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyNotifyWhenLoggedOut, true))

	env.steam.CountsErr = steam.ErrAccessDenied
	env.scheduler.Fire(alarm.NameNotificationCount)

	assert.True(t, env.scheduler.Registered(alarm.NameRestartChecks))
	assert.Empty(t, env.notifier.Sent)
}

func TestRestartChecks_ResumesPollingOnce(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.scheduler.Create(alarm.NameRestartChecks, alarm.OneShot(time.Now().Add(time.Hour))))

	env.scheduler.Fire(alarm.NameRestartChecks)

	policy, ok := env.scheduler.Policy(alarm.NameNotificationCount)
	require.True(t, ok)
	assert.Equal(t, 1, policy.PeriodMinutes)

	// The one-shot does not survive its fire
	assert.False(t, env.scheduler.Registered(alarm.NameRestartChecks))
}

func TestBookmarkAlarm_DeletedBookmarkIsNoOp(t *testing.T) {
	env := setup(t, true)

	env.scheduler.Fire("20000000099")

	assert.Empty(t, env.notifier.Sent)
	assert.Empty(t, env.browser.OpenedPages)

	// The badge bump still happens
	text, err := env.data.GetBadgeText(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", text)
}

func TestBookmarkAlarm_BadgeSequence(t *testing.T) {
	env := setup(t, true)

	env.scheduler.Fire("20000000001")
	text, err := env.data.GetBadgeText(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", text)

	env.scheduler.Fire("20000000002")
	text, err = env.data.GetBadgeText(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", text)
}

func TestBookmarkAlarm_ChromeNotification(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.AddBookmark(env.ctx, &bookmark.Record{
		AssetID:    "20000000001",
		Name:       "AK-47 | Redline",
		IconURL:    "https://example.com/ak47.png",
		NotifyType: bookmark.NotifyChrome,
		TradableAt: time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}))

	env.scheduler.Fire("20000000001")

	require.Contains(t, env.notifier.ByID, "20000000001")
	sent := env.notifier.ByID["20000000001"]
	assert.Equal(t, "AK-47 | Redline just became tradable, click here to see it!", sent.Message)
	assert.Equal(t, "https://example.com/ak47.png", sent.IconURL)
}

func TestBookmarkAlarm_ChromeNotificationWithoutPermission(t *testing.T) {
	env := setup(t, true)
	env.browser.TabsPermission = false
	require.NoError(t, env.data.AddBookmark(env.ctx, &bookmark.Record{
		AssetID:    "20000000001",
		Name:       "AK-47 | Redline",
		NotifyType: bookmark.NotifyChrome,
		TradableAt: time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}))

	env.scheduler.Fire("20000000001")

	require.Contains(t, env.notifier.ByID, "20000000001")
	assert.Equal(t, "AK-47 | Redline just became tradable!", env.notifier.ByID["20000000001"].Message)
}

func TestBookmarkAlarm_AlertNavigatesAndPushes(t *testing.T) {
	env := setup(t, true)
	require.NoError(t, env.data.AddBookmark(env.ctx, &bookmark.Record{
		AssetID:    "20000000002",
		Name:       "M4A4 | Asiimov",
		NotifyType: bookmark.NotifyAlert,
		TradableAt: time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}))

	env.scheduler.Fire("20000000002")

	require.Len(t, env.browser.OpenedPages, 1)
	require.Len(t, env.browser.Alerts, 1)
	for _, alerts := range env.browser.Alerts {
		require.Len(t, alerts, 1)
		assert.Equal(t, "M4A4 | Asiimov just became tradable!", alerts[0])
	}
	assert.Empty(t, env.notifier.Sent)
}

func TestBookmarkAlarm_AlertWithoutPermissionIsSilent(t *testing.T) {
	env := setup(t, true)
	env.browser.TabsPermission = false
	require.NoError(t, env.data.AddBookmark(env.ctx, &bookmark.Record{
		AssetID:    "20000000002",
		Name:       "M4A4 | Asiimov",
		NotifyType: bookmark.NotifyAlert,
		TradableAt: time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}))

	env.scheduler.Fire("20000000002")

	assert.Empty(t, env.browser.OpenedPages)
	assert.Empty(t, env.browser.Alerts)
}

func TestDailyTasks_PrunesAndRefreshes(t *testing.T) {
	env := setup(t, true)

	env.scheduler.Fire(alarm.NameDailyTasks)
	assert.Equal(t, 1, env.pricing.RateCalls())
	assert.Equal(t, 1, env.pricing.PriceCalls())

	// Per-item pricing off skips the price refresh but not the rates
	require.NoError(t, env.data.SetSetting(env.ctx, settings.KeyItemPricing, false))
	env.scheduler.Fire(alarm.NameDailyTasks)
	assert.Equal(t, 2, env.pricing.RateCalls())
	assert.Equal(t, 1, env.pricing.PriceCalls())
}
