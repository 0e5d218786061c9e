package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/csgotrader/trader-server/pkg/reputation"
)

// Client is a configurable in memory reputation.Client for testing.
type Client struct {
	mu sync.Mutex

	Infos map[string]*reputation.Info
	Err   error
}

// NewClient returns a new in memory reputation.Client
func NewClient() *Client {
	return &Client{
		Infos: make(map[string]*reputation.Info),
	}
}

// GetReputation implements reputation.Client.GetReputation
func (c *Client) GetReputation(_ context.Context, steamID string) (*reputation.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}

	info, ok := c.Infos[steamID]
	if !ok {
		return nil, errors.New("reputation info not found")
	}

	cloned := *info
	return &cloned, nil
}
