package pricing

import (
	"context"

	"github.com/pkg/errors"
)

// ErrCurrencyUnknown indicates the user's local currency could not be
// determined. Callers treat this as best-effort and keep their default.
var ErrCurrencyUnknown = errors.New("pricing: currency could not be determined")

// ItemPrice is the aggregated price for a single market hash name.
type ItemPrice struct {
	Price float64 `json:"price"`
}

// Client wraps the pricing data providers: item price aggregates, fiat
// exchange rates against USD, and best-effort local-currency detection.
type Client interface {
	// GetExchangeRates gets the current fiat exchange rates, keyed by
	// ISO 4217 code, with USD as the base.
	GetExchangeRates(ctx context.Context) (map[string]float64, error)

	// GetPrices gets the current item price aggregates, keyed by market
	// hash name.
	GetPrices(ctx context.Context) (map[string]ItemPrice, error)

	// GuessUserCurrency makes a best-effort guess at the user's local
	// currency from their Steam wallet. Returns ErrCurrencyUnknown when no
	// guess can be made.
	GuessUserCurrency(ctx context.Context) (string, error)
}
