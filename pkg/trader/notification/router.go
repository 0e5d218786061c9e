package notification

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/csgotrader/trader-server/pkg/trader/browser"
	"github.com/csgotrader/trader-server/pkg/trader/data"
)

const (
	commentNotificationsURL = "https://steamcommunity.com/my/commentnotifications"
	inventoryURL            = "https://steamcommunity.com/my/inventory/"
	tradeOfferURLFormat     = "https://steamcommunity.com/tradeoffer/"
	profileURLFormat        = "https://steamcommunity.com/profiles/"
)

// Router decodes notification click-backs into navigation. A click
// always resets the badge; navigation happens only when the tabs
// permission is present.
type Router struct {
	log     *logrus.Entry
	data    data.Provider
	browser browser.Browser
}

// NewRouter returns a new Router
func NewRouter(data data.Provider, browser browser.Browser) *Router {
	return &Router{
		log:     logrus.StandardLogger().WithField("service", "notification_router"),
		data:    data,
		browser: browser,
	}
}

// HandleClick routes a clicked notification by its wire id
func (r *Router) HandleClick(ctx context.Context, rawID string) error {
	log := r.log.WithFields(logrus.Fields{
		"method": "HandleClick",
		"id":     rawID,
	})

	if err := r.data.SetBadgeText(ctx, ""); err != nil {
		log.WithError(err).Warn("failure resetting badge")
	}

	if !r.browser.HasTabsPermission(ctx) {
		// Click is swallowed without the tabs permission
		return nil
	}

	var err error
	switch id := ParseID(rawID); id.Kind {
	case KindUpdated:
		_, err = r.browser.OpenInternalPage(ctx, browser.PageChangelog)
	case KindNewComment:
		_, err = r.browser.OpenURL(ctx, commentNotificationsURL)
	case KindOfferReceived:
		_, err = r.browser.OpenURL(ctx, tradeOfferURLFormat+id.Payload+"/")
	case KindNewItems:
		_, err = r.browser.OpenURL(ctx, inventoryURL)
	case KindInvite:
		_, err = r.browser.OpenURL(ctx, profileURLFormat+id.Payload+"/")
	default:
		_, err = r.browser.OpenInternalPage(ctx, browser.PageBookmarks)
	}

	if err != nil {
		log.WithError(err).Warn("failure routing notification click")
	}
	return err
}
