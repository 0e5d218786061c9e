package price

import (
	"context"
	"errors"
)

var (
	ErrNoPrices = errors.New("no price snapshot present")
	ErrNoRates  = errors.New("no exchange rate snapshot present")
)

// Store holds the latest price and exchange rate snapshots. Presence of
// a price snapshot is what stops the minutely refresh retry.
type Store interface {
	// SavePrices replaces the price snapshot, keyed by market hash name
	SavePrices(ctx context.Context, prices map[string]float64) error

	// GetPrices gets the price snapshot
	//
	// Returns ErrNoPrices if no snapshot has been saved.
	GetPrices(ctx context.Context) (map[string]float64, error)

	// SaveExchangeRates replaces the exchange rate snapshot, keyed by
	// ISO currency code.
	SaveExchangeRates(ctx context.Context, rates map[string]float64) error

	// GetExchangeRates gets the exchange rate snapshot
	//
	// Returns ErrNoRates if no snapshot has been saved.
	GetExchangeRates(ctx context.Context) (map[string]float64, error)
}
