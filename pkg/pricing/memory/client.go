package memory

import (
	"context"
	"sync"

	"github.com/csgotrader/trader-server/pkg/pricing"
)

// Client is a configurable in memory pricing.Client for testing.
type Client struct {
	mu sync.Mutex

	Rates    map[string]float64
	RatesErr error

	Prices    map[string]pricing.ItemPrice
	PricesErr error

	Currency    string
	CurrencyErr error

	priceCalls int
	rateCalls  int
}

// NewClient returns a new in memory pricing.Client
func NewClient() *Client {
	return &Client{
		Rates:  map[string]float64{"USD": 1.0},
		Prices: make(map[string]pricing.ItemPrice),
	}
}

// GetExchangeRates implements pricing.Client.GetExchangeRates
func (c *Client) GetExchangeRates(_ context.Context) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rateCalls++
	if c.RatesErr != nil {
		return nil, c.RatesErr
	}

	rates := make(map[string]float64, len(c.Rates))
	for code, rate := range c.Rates {
		rates[code] = rate
	}
	return rates, nil
}

// GetPrices implements pricing.Client.GetPrices
func (c *Client) GetPrices(_ context.Context) (map[string]pricing.ItemPrice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.priceCalls++
	if c.PricesErr != nil {
		return nil, c.PricesErr
	}

	prices := make(map[string]pricing.ItemPrice, len(c.Prices))
	for name, price := range c.Prices {
		prices[name] = price
	}
	return prices, nil
}

// GuessUserCurrency implements pricing.Client.GuessUserCurrency
func (c *Client) GuessUserCurrency(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.CurrencyErr != nil {
		return "", c.CurrencyErr
	}
	if c.Currency == "" {
		return "", pricing.ErrCurrencyUnknown
	}
	return c.Currency, nil
}

// PriceCalls returns how many price fetches were attempted.
func (c *Client) PriceCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.priceCalls
}

// RateCalls returns how many exchange rate fetches were attempted.
func (c *Client) RateCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rateCalls
}
