package coordinator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/csgotrader/trader-server/pkg/metrics"
	"github.com/csgotrader/trader-server/pkg/steam"
	"github.com/csgotrader/trader-server/pkg/trader/alarm"
	"github.com/csgotrader/trader-server/pkg/trader/browser"
	"github.com/csgotrader/trader-server/pkg/trader/data/bookmark"
	"github.com/csgotrader/trader-server/pkg/trader/data/invite"
	"github.com/csgotrader/trader-server/pkg/trader/data/price"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
	"github.com/csgotrader/trader-server/pkg/trader/data/tradeoffer"
	"github.com/csgotrader/trader-server/pkg/trader/notification"
)

const (
	// IEconService trade_offer_state for offers awaiting a response
	offerStateActive = 2
)

// HandleAlarm dispatches a fired alarm by name. Reserved names drive the
// polling cycles; any other name is a bookmark tradability timer.
func (s *Service) HandleAlarm(ctx context.Context, name string) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "HandleAlarm")
	defer tracer.End()

	tracer.AddAttribute("alarm", name)

	switch name {
	case alarm.NameRetryPriceUpdate:
		s.retryPriceUpdate(ctx)
	case alarm.NameNotificationCount:
		s.notificationCountCycle(ctx)
	case alarm.NameRestartChecks:
		s.resumeNotificationChecks(ctx)
	case alarm.NameDailyTasks:
		s.dailyTasks(ctx)
	default:
		s.handleBookmarkAlarm(ctx, name)
	}
}

// retryPriceUpdate re-attempts the price refresh until a snapshot is
// present, then removes itself.
func (s *Service) retryPriceUpdate(ctx context.Context) {
	_, err := s.data.GetPrices(ctx)
	if err == nil {
		s.scheduler.Clear(alarm.NameRetryPriceUpdate)
		return
	}
	if err != price.ErrNoPrices {
		s.log.WithError(err).Warn("failure checking price snapshot")
		return
	}

	s.updatePricesAndExchangeRates(ctx)
}

func (s *Service) notificationCountCycle(ctx context.Context) {
	log := s.log.WithField("method", "notificationCountCycle")

	counts, err := s.steamClient.GetNotificationCounts(ctx)
	switch err {
	case nil:
	case steam.ErrUnauthenticated:
		s.suspendNotificationChecks(ctx, true)
		return
	case steam.ErrAccessDenied:
		log.Warn("access denied fetching notification counts")
		s.suspendNotificationChecks(ctx, false)
		return
	default:
		log.WithError(err).Warn("failure fetching notification counts")
		return
	}

	s.checkInvites(ctx, counts.Invites)
	s.checkModeratorMessages(ctx, counts.ModeratorMessages)
	s.checkTradeOffers(ctx, counts.TradeOffers)
	s.checkNewItems(ctx, counts.Items)
	s.checkComments(ctx, counts.Comments)
}

// suspendNotificationChecks clears the minutely polling alarm and arms a
// one-shot resume exactly one suspension window later. The notify flag
// distinguishes the unauthenticated case, which may alert the user, from
// access denial, which is log-only.
func (s *Service) suspendNotificationChecks(ctx context.Context, notify bool) {
	log := s.log.WithField("method", "suspendNotificationChecks")

	s.scheduler.Clear(alarm.NameNotificationCount)

	suspendFor := s.conf.suspendDuration.Get(ctx)
	if err := s.scheduler.Create(alarm.NameRestartChecks, alarm.OneShot(time.Now().Add(suspendFor))); err != nil {
		log.WithError(err).Warn("failure arming resume alarm")
	}

	if !notify {
		return
	}

	if notifyLoggedOut, err := s.data.GetBoolSetting(ctx, settings.KeyNotifyWhenLoggedOut); err == nil && notifyLoggedOut {
		if err := s.dispatcher.Send(ctx, &notification.Notification{
			ID:      notification.SignedOut(),
			Title:   "You are not signed in!",
			Message: "Notifications are paused until you sign in on Steam again.",
		}); err != nil {
			log.WithError(err).Warn("failure sending signed out notification")
		}
	}

	notifyDiscord, err := s.data.GetBoolSetting(ctx, settings.KeyNotifyLoggedOutDiscord)
	if err != nil || !notifyDiscord {
		return
	}
	webhookURL, err := s.data.GetStringSetting(ctx, settings.KeyDiscordWebhookURL)
	if err != nil || webhookURL == "" {
		return
	}
	if err := notification.SendDiscordEmbed(
		ctx,
		webhookURL,
		"Sign-in problem",
		"You are not signed in on Steam, monitoring is paused for an hour.",
	); err != nil {
		log.WithError(err).Warn("failure sending discord embed")
	}
}

func (s *Service) resumeNotificationChecks(ctx context.Context) {
	if err := s.scheduler.Create(alarm.NameNotificationCount, alarm.Periodic(1)); err != nil {
		s.log.WithError(err).Warn("failure re-arming notification polling")
	}
}

// checkInvites refreshes the invite state only when the reported count
// disagrees with the cached total or the ledger has gone stale. The
// staleness window guards against counts that coincidentally match.
// The monitoring setting gates only the inviter ledger and its
// notifications; group invite auto-decline runs on every refresh.
func (s *Service) checkInvites(ctx context.Context, reported int) {
	log := s.log.WithField("method", "checkInvites")

	summary, err := s.data.GetInviteSummary(ctx)
	if err != nil {
		log.WithError(err).Warn("failure loading invite summary")
		return
	}

	cachedTotal := len(summary.Inviters) + len(summary.InvitedToGroups)
	if reported == cachedTotal && time.Since(summary.LastUpdatedAt) < s.conf.inviteStaleness.Get(ctx) {
		return
	}

	invites, err := s.steamClient.GetGroupInvites(ctx)
	if err != nil {
		log.WithError(err).Warn("failure fetching invites")
		return
	}

	var inviters, groups []string
	for _, inv := range invites {
		if inv.GroupID != "" {
			groups = append(groups, inv.GroupID)
		}
		if inv.InviterSteamID != "" {
			inviters = append(inviters, inv.InviterSteamID)
		}
	}

	now := time.Now().UTC()
	var events []*invite.Event

	if monitor, err := s.data.GetBoolSetting(ctx, settings.KeyMonitorFriendRequests); err == nil && monitor {
		known := make(map[string]struct{}, len(summary.Inviters))
		for _, steamID := range summary.Inviters {
			known[steamID] = struct{}{}
		}
		for _, steamID := range inviters {
			if _, ok := known[steamID]; ok {
				delete(known, steamID)
				continue
			}

			events = append(events, &invite.Event{
				Type:      invite.EventReceived,
				SteamID:   steamID,
				CreatedAt: now,
			})
			s.notifyInviter(ctx, steamID)
		}
		for steamID := range known {
			events = append(events, &invite.Event{
				Type:      invite.EventResolved,
				SteamID:   steamID,
				CreatedAt: now,
			})
		}
	}

	if ignore, err := s.data.GetBoolSetting(ctx, settings.KeyIgnoreGroupInvites); err == nil && ignore {
		for _, groupID := range groups {
			if err := s.steamClient.IgnoreGroupInvite(ctx, groupID); err != nil {
				log.WithError(err).WithField("group", groupID).Warn("failure declining group invite")
			}
		}
		groups = nil
	}

	if len(events) > 0 {
		if err := s.data.AddInviteEvents(ctx, events...); err != nil {
			log.WithError(err).Warn("failure recording invite events")
		}
	}

	if err := s.data.SaveInviteSummary(ctx, &invite.Summary{
		LastUpdatedAt:   now,
		Inviters:        inviters,
		InvitedToGroups: groups,
	}); err != nil {
		log.WithError(err).Warn("failure saving invite summary")
	}
}

func (s *Service) notifyInviter(ctx context.Context, steamID string) {
	log := s.log.WithField("method", "notifyInviter")

	message := "Click here to see their profile!"
	apiKey, err := s.data.GetStringSetting(ctx, settings.KeySteamAPIKey)
	if err == nil && apiKey != "" {
		summaries, err := s.steamClient.GetPlayerSummaries(ctx, apiKey, []string{steamID})
		if summary, ok := summaries[steamID]; err == nil && ok {
			message = fmt.Sprintf("%s invited you to be friends!", summary.PersonaName)
		}
	}

	if err := s.dispatcher.Send(ctx, &notification.Notification{
		ID:      notification.Invite(steamID),
		Title:   "New friend request!",
		Message: message,
	}); err != nil {
		log.WithError(err).Warn("failure sending invite notification")
	}
}

func (s *Service) checkModeratorMessages(ctx context.Context, reported int) {
	markRead, err := s.data.GetBoolSetting(ctx, settings.KeyMarkModMessagesAsRead)
	if err != nil || !markRead || reported == 0 {
		return
	}

	if err := s.steamClient.MarkModerationMessagesRead(ctx); err != nil {
		s.log.WithError(err).Warn("failure marking moderation messages read")
	}
}

// checkTradeOffers refreshes the offer ledger only when the reported
// count disagrees with the cached count or the last full update is
// stale.
func (s *Service) checkTradeOffers(ctx context.Context, reported int) {
	log := s.log.WithField("method", "checkTradeOffers")

	monitor, err := s.data.GetBoolSetting(ctx, settings.KeyMonitorIncomingOffers)
	if err != nil || !monitor {
		return
	}

	summary, err := s.data.GetOfferSummary(ctx)
	if err != nil {
		log.WithError(err).Warn("failure loading offer summary")
		return
	}

	if reported == summary.ReceivedActiveCount && time.Since(summary.LastFullUpdateAt) < s.conf.offerStaleness.Get(ctx) {
		return
	}

	apiKey, err := s.data.GetStringSetting(ctx, settings.KeySteamAPIKey)
	if err != nil || apiKey == "" {
		return
	}

	offers, err := s.steamClient.GetTradeOffers(ctx, apiKey, steam.OffersLive)
	if err != nil {
		if err == steam.ErrAPIKeyInvalid {
			if err := s.data.SetSetting(ctx, settings.KeyAPIKeyValid, false); err != nil {
				log.WithError(err).Warn("failure flagging invalid api key")
			}
		}
		log.WithError(err).Warn("failure fetching trade offers")
		return
	}

	knownOffers, err := s.data.GetOfferEvents(ctx)
	if err != nil {
		log.WithError(err).Warn("failure loading offer events")
		return
	}
	known := make(map[string]struct{}, len(knownOffers))
	for _, event := range knownOffers {
		known[event.OfferID] = struct{}{}
	}

	now := time.Now().UTC()
	var activeReceived int
	var events []*tradeoffer.Event
	for _, offer := range offers.Received {
		if offer.State != offerStateActive {
			continue
		}
		activeReceived++

		if _, ok := known[offer.TradeOfferID]; ok {
			continue
		}

		events = append(events, &tradeoffer.Event{
			Type:      tradeoffer.EventReceived,
			OfferID:   offer.TradeOfferID,
			CreatedAt: now,
		})

		if err := s.dispatcher.Send(ctx, &notification.Notification{
			ID:      notification.OfferReceived(offer.TradeOfferID),
			Title:   "New trade offer!",
			Message: "You have received a new trade offer!",
		}); err != nil {
			log.WithError(err).Warn("failure sending offer notification")
		}
	}

	if len(events) > 0 {
		if err := s.data.AddOfferEvents(ctx, events...); err != nil {
			log.WithError(err).Warn("failure recording offer events")
		}
	}

	if err := s.data.SaveOfferSummary(ctx, &tradeoffer.Summary{
		LastFullUpdateAt:    now,
		ReceivedActiveCount: activeReceived,
	}); err != nil {
		log.WithError(err).Warn("failure saving offer summary")
	}
}

// checkNewItems notifies only on a net increase. Decreases are absorbed
// silently but still re-baseline the stored count.
func (s *Service) checkNewItems(ctx context.Context, reported int) {
	log := s.log.WithField("method", "checkNewItems")

	last, err := s.data.GetIntSetting(ctx, settings.KeyNumberOfNewItems)
	if err != nil {
		last = 0
	}

	if reported == last {
		return
	}

	notify, settingErr := s.data.GetBoolSetting(ctx, settings.KeyNotifyAboutNewItems)
	if reported > last && settingErr == nil && notify {
		delta := reported - last
		message := fmt.Sprintf("You have %d items in your inventory!", delta)
		if delta == 1 {
			message = "You have 1 item in your inventory!"
		}

		if err := s.dispatcher.Send(ctx, &notification.Notification{
			ID:      notification.NewItems(strconv.FormatInt(time.Now().Unix(), 10)),
			Title:   "New items!",
			Message: message,
		}); err != nil {
			log.WithError(err).Warn("failure sending new items notification")
		}
	}

	if err := s.data.SetSetting(ctx, settings.KeyNumberOfNewItems, float64(reported)); err != nil {
		log.WithError(err).Warn("failure saving new item count")
	}
}

func (s *Service) checkComments(ctx context.Context, reported int) {
	log := s.log.WithField("method", "checkComments")

	last, err := s.data.GetIntSetting(ctx, settings.KeyNumberOfComments)
	if err != nil {
		last = 0
	}

	if reported == last {
		return
	}

	notify, settingErr := s.data.GetBoolSetting(ctx, settings.KeyNotifyAboutComments)
	if reported > last && settingErr == nil && notify {
		delta := reported - last
		message := fmt.Sprintf("You have %d new comments!", delta)
		if delta == 1 {
			message = "You have a new comment!"
		}

		if err := s.dispatcher.Send(ctx, &notification.Notification{
			ID:      notification.NewComment(),
			Title:   "New comment!",
			Message: message,
		}); err != nil {
			log.WithError(err).Warn("failure sending comment notification")
		}
	}

	if err := s.data.SetSetting(ctx, settings.KeyNumberOfComments, float64(reported)); err != nil {
		log.WithError(err).Warn("failure saving comment count")
	}
}

func (s *Service) dailyTasks(ctx context.Context) {
	log := s.log.WithField("method", "dailyTasks")

	removed, err := s.data.TrimAgedFloats(ctx, s.conf.floatCacheMaxAge.Get(ctx))
	if err != nil {
		log.WithError(err).Warn("failure trimming float cache")
	} else if removed > 0 {
		log.WithField("removed", removed).Info("evicted aged float cache entries")
	}

	cutoff := time.Now().Add(-s.conf.eventRetention.Get(ctx))
	if _, err := s.data.RemoveOldInviteEvents(ctx, cutoff); err != nil {
		log.WithError(err).Warn("failure pruning invite events")
	}
	if _, err := s.data.RemoveOldOfferEvents(ctx, cutoff); err != nil {
		log.WithError(err).Warn("failure pruning offer events")
	}

	s.refreshExchangeRates(ctx)

	if itemPricing, err := s.data.GetBoolSetting(ctx, settings.KeyItemPricing); err == nil && itemPricing {
		s.refreshPrices(ctx)
	}
}

// handleBookmarkAlarm reacts to a bookmark tradability timer. A missing
// bookmark means it was deleted after the alarm was set; the fire is a
// no-op beyond the badge bump.
func (s *Service) handleBookmarkAlarm(ctx context.Context, assetID string) {
	log := s.log.WithFields(logrus.Fields{
		"method": "handleBookmarkAlarm",
		"asset":  assetID,
	})

	if _, err := s.data.IncrementBadge(ctx); err != nil {
		log.WithError(err).Warn("failure incrementing badge")
	}

	record, err := s.data.GetBookmarkByAssetID(ctx, assetID)
	if err != nil {
		if err != bookmark.ErrBookmarkNotFound {
			log.WithError(err).Warn("failure loading bookmark")
		}
		return
	}

	switch record.NotifyType {
	case bookmark.NotifyChrome:
		message := fmt.Sprintf("%s just became tradable!", record.Name)
		if s.browser.HasTabsPermission(ctx) {
			message = fmt.Sprintf("%s just became tradable, click here to see it!", record.Name)
		}

		if err := s.dispatcher.Send(ctx, &notification.Notification{
			ID:      notification.Bookmark(record.AssetID),
			Title:   "An item you bookmarked is tradable!",
			Message: message,
			IconURL: record.IconURL,
		}); err != nil {
			log.WithError(err).Warn("failure sending bookmark notification")
		}
	case bookmark.NotifyAlert:
		if !s.browser.HasTabsPermission(ctx) {
			return
		}

		tabID, err := s.browser.OpenInternalPage(ctx, browser.PageBookmarks)
		if err != nil {
			log.WithError(err).Warn("failure opening bookmarks view")
			return
		}

		// Let the view settle before pushing the alert into it
		time.Sleep(s.conf.alertSettleDelay.Get(ctx))

		if err := s.browser.SendInPageAlert(ctx, tabID, fmt.Sprintf("%s just became tradable!", record.Name)); err != nil {
			log.WithError(err).Warn("failure sending in-page alert")
		}
	}
}
