package memory

import (
	"context"
	"sync"

	"github.com/csgotrader/trader-server/pkg/float"
)

// Client is a configurable in memory float.Client for testing.
type Client struct {
	mu sync.Mutex

	Infos map[string]*float.Info // keyed by inspect link
	Err   error

	calls int
}

// NewClient returns a new in memory float.Client
func NewClient() *Client {
	return &Client{
		Infos: make(map[string]*float.Info),
	}
}

// GetFloatInfo implements float.Client.GetFloatInfo
func (c *Client) GetFloatInfo(_ context.Context, inspectLink string, _ *float64) (*float.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++

	if c.Err != nil {
		return nil, c.Err
	}
	if inspectLink == "" {
		return nil, float.ErrNoInspectLink
	}

	info, ok := c.Infos[inspectLink]
	if !ok {
		return nil, float.ErrNoFloat
	}

	cloned := *info
	return &cloned, nil
}

// Calls returns how many lookups were attempted.
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls
}
