package memory

import (
	"context"
	"fmt"
	"sync"
)

// Browser is a recording fake for tests. All navigation is permitted
// unless TabsPermission is set to false.
type Browser struct {
	mu sync.Mutex

	TabsPermission bool

	OpenedPages []string
	OpenedURLs  []string
	ClosedTabs  []string
	Alerts      map[string][]string

	nextTab int
}

// New returns a new recording Browser with navigation permitted
func New() *Browser {
	return &Browser{
		TabsPermission: true,
		Alerts:         make(map[string][]string),
	}
}

// OpenInternalPage implements browser.Browser.OpenInternalPage
func (b *Browser) OpenInternalPage(_ context.Context, page string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.OpenedPages = append(b.OpenedPages, page)
	return b.newTabLocked(), nil
}

// OpenURL implements browser.Browser.OpenURL
func (b *Browser) OpenURL(_ context.Context, url string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.OpenedURLs = append(b.OpenedURLs, url)
	return b.newTabLocked(), nil
}

// CloseTab implements browser.Browser.CloseTab
func (b *Browser) CloseTab(_ context.Context, tabID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ClosedTabs = append(b.ClosedTabs, tabID)
	return nil
}

// SendInPageAlert implements browser.Browser.SendInPageAlert
func (b *Browser) SendInPageAlert(_ context.Context, tabID, message string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Alerts[tabID] = append(b.Alerts[tabID], message)
	return nil
}

// HasTabsPermission implements browser.Browser.HasTabsPermission
func (b *Browser) HasTabsPermission(_ context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.TabsPermission
}

func (b *Browser) newTabLocked() string {
	b.nextTab++
	return fmt.Sprintf("tab-%d", b.nextTab)
}
