// Package browser abstracts the foreground surface the coordinator
// drives: tab navigation, in-page alerts and the tabs permission probe.
package browser

import (
	"context"
)

// Internal page paths the coordinator navigates to.
const (
	PageBookmarks    = "/bookmarks.html"
	PageChangelog    = "/changelog.html"
	PageTradeHistory = "/trade-history.html"
)

type Browser interface {
	// OpenInternalPage opens one of the extension's own views,
	// returning an identifier for the opened tab.
	OpenInternalPage(ctx context.Context, page string) (tabID string, err error)

	// OpenURL opens an external URL in a new tab
	OpenURL(ctx context.Context, url string) (tabID string, err error)

	// CloseTab closes a tab by identifier
	CloseTab(ctx context.Context, tabID string) error

	// SendInPageAlert pushes an alert message into an open tab
	SendInPageAlert(ctx context.Context, tabID, message string) error

	// HasTabsPermission reports whether navigation is permitted
	HasTabsPermission(ctx context.Context) bool
}
