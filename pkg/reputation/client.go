package reputation

import (
	"context"
)

// Info is a user's standing with the reputation provider.
type Info struct {
	SteamID    string `json:"steamID64"`
	Reputation string `json:"reputation"`
	Flags      string `json:"flags,omitempty"`
}

// Client looks up trade reputation data for a Steam user.
type Client interface {
	GetReputation(ctx context.Context, steamID string) (*Info, error)
}
