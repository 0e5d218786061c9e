// Package logging provides a Browser that records navigation to the
// log, used when no tab surface is attached.
package logging

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/csgotrader/trader-server/pkg/trader/browser"
)

type loggingBrowser struct {
	log *logrus.Entry

	mu      sync.Mutex
	nextTab int
}

// New returns a log-backed browser.Browser. It reports no tabs
// permission, so permission-gated flows fall back to their
// notification paths.
func New() browser.Browser {
	return &loggingBrowser{
		log: logrus.StandardLogger().WithField("service", "browser"),
	}
}

// OpenInternalPage implements browser.Browser.OpenInternalPage
func (b *loggingBrowser) OpenInternalPage(_ context.Context, page string) (string, error) {
	b.log.WithField("page", page).Info("open internal page")
	return b.newTabID(), nil
}

// OpenURL implements browser.Browser.OpenURL
func (b *loggingBrowser) OpenURL(_ context.Context, url string) (string, error) {
	b.log.WithField("url", url).Info("open url")
	return b.newTabID(), nil
}

// CloseTab implements browser.Browser.CloseTab
func (b *loggingBrowser) CloseTab(_ context.Context, tabID string) error {
	b.log.WithField("tab", tabID).Info("close tab")
	return nil
}

// SendInPageAlert implements browser.Browser.SendInPageAlert
func (b *loggingBrowser) SendInPageAlert(_ context.Context, tabID, message string) error {
	b.log.WithFields(logrus.Fields{
		"tab":     tabID,
		"message": message,
	}).Info("in page alert")
	return nil
}

// HasTabsPermission implements browser.Browser.HasTabsPermission
func (b *loggingBrowser) HasTabsPermission(_ context.Context) bool {
	return false
}

func (b *loggingBrowser) newTabID() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextTab++
	return fmt.Sprintf("tab-%d", b.nextTab)
}
