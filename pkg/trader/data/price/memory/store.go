package memory

import (
	"context"
	"sync"

	"github.com/csgotrader/trader-server/pkg/trader/data/price"
)

type store struct {
	mu     sync.Mutex
	prices map[string]float64
	rates  map[string]float64
}

// New returns a new in memory price.Store
func New() price.Store {
	return &store{}
}

// SavePrices implements price.Store.SavePrices
func (s *store) SavePrices(_ context.Context, prices map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices = cloneMap(prices)
	return nil
}

// GetPrices implements price.Store.GetPrices
func (s *store) GetPrices(_ context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prices == nil {
		return nil, price.ErrNoPrices
	}
	return cloneMap(s.prices), nil
}

// SaveExchangeRates implements price.Store.SaveExchangeRates
func (s *store) SaveExchangeRates(_ context.Context, rates map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rates = cloneMap(rates)
	return nil
}

// GetExchangeRates implements price.Store.GetExchangeRates
func (s *store) GetExchangeRates(_ context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rates == nil {
		return nil, price.ErrNoRates
	}
	return cloneMap(s.rates), nil
}

func cloneMap(src map[string]float64) map[string]float64 {
	res := make(map[string]float64, len(src))
	for k, v := range src {
		res[k] = v
	}
	return res
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices = nil
	s.rates = nil
}
