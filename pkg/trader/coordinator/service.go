// Package coordinator owns the state machine behind install/update
// bootstrap, the periodic polling cycles and bookmark timers.
package coordinator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/csgotrader/trader-server/pkg/pricing"
	"github.com/csgotrader/trader-server/pkg/steam"
	"github.com/csgotrader/trader-server/pkg/trader/alarm"
	"github.com/csgotrader/trader-server/pkg/trader/browser"
	"github.com/csgotrader/trader-server/pkg/trader/data"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
	"github.com/csgotrader/trader-server/pkg/trader/notification"
)

const (
	metricsStructName = "coordinator"
)

type Service struct {
	log  *logrus.Entry
	conf *conf

	data data.Provider

	steamClient   steam.Client
	pricingClient pricing.Client

	scheduler  alarm.Scheduler
	dispatcher *notification.Dispatcher
	browser    browser.Browser
}

// New returns a new coordinator Service
func New(
	data data.Provider,
	steamClient steam.Client,
	pricingClient pricing.Client,
	scheduler alarm.Scheduler,
	dispatcher *notification.Dispatcher,
	browser browser.Browser,
	configProvider ConfigProvider,
) *Service {
	return &Service{
		log:           logrus.StandardLogger().WithField("service", "coordinator"),
		conf:          configProvider(),
		data:          data,
		steamClient:   steamClient,
		pricingClient: pricingClient,
		scheduler:     scheduler,
		dispatcher:    dispatcher,
		browser:       browser,
	}
}

// TriggerPriceRefresh re-runs the full price and exchange rate refresh
// on demand, outside the alarm cadence.
func (s *Service) TriggerPriceRefresh(ctx context.Context) {
	s.updatePricesAndExchangeRates(ctx)
}

// updatePricesAndExchangeRates refreshes the exchange rate snapshot, the
// selected currency's stored rate and the price snapshot. Failures are
// log-only; the minutely retry alarm provides durability for prices.
func (s *Service) updatePricesAndExchangeRates(ctx context.Context) {
	s.refreshExchangeRates(ctx)
	s.refreshPrices(ctx)
}

func (s *Service) refreshExchangeRates(ctx context.Context) {
	log := s.log.WithField("method", "refreshExchangeRates")

	rates, err := s.pricingClient.GetExchangeRates(ctx)
	if err != nil {
		log.WithError(err).Warn("failure fetching exchange rates")
		return
	}

	if err := s.data.SaveExchangeRates(ctx, rates); err != nil {
		log.WithError(err).Warn("failure saving exchange rates")
	}

	currency, err := s.data.GetStringSetting(ctx, settings.KeyCurrency)
	if err != nil {
		return
	}
	if rate, ok := rates[currency]; ok {
		if err := s.data.SetSetting(ctx, settings.KeyExchangeRate, rate); err != nil {
			log.WithError(err).Warn("failure saving exchange rate setting")
		}
	}
}

func (s *Service) refreshPrices(ctx context.Context) {
	log := s.log.WithField("method", "refreshPrices")

	prices, err := s.pricingClient.GetPrices(ctx)
	if err != nil {
		log.WithError(err).Warn("failure fetching prices")
		return
	}

	flattened := make(map[string]float64, len(prices))
	for name, price := range prices {
		flattened[name] = price.Price
	}
	if err := s.data.SavePrices(ctx, flattened); err != nil {
		log.WithError(err).Warn("failure saving prices")
	}
}
