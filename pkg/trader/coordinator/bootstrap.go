package coordinator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/csgotrader/trader-server/pkg/metrics"
	"github.com/csgotrader/trader-server/pkg/steam"
	"github.com/csgotrader/trader-server/pkg/trader/alarm"
	"github.com/csgotrader/trader-server/pkg/trader/data/badge"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
	"github.com/csgotrader/trader-server/pkg/trader/notification"
)

// Reason distinguishes a first install from an update
type Reason string

const (
	ReasonInstall Reason = "install"
	ReasonUpdate  Reason = "update"
)

// HandleInstalled runs the install or update bootstrap. Store-write
// failures are log-only; the minutely retry alarm re-attempts the price
// refresh until a snapshot lands.
func (s *Service) HandleInstalled(ctx context.Context, reason Reason) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "HandleInstalled")
	defer tracer.End()

	log := s.log.WithFields(logrus.Fields{
		"method": "HandleInstalled",
		"reason": reason,
	})

	switch reason {
	case ReasonInstall:
		s.onInstall(ctx)
	case ReasonUpdate:
		s.onUpdate(ctx)
	default:
		log.Warn("unknown install reason")
		return
	}

	s.updatePricesAndExchangeRates(ctx)

	for name, policy := range map[string]alarm.Policy{
		alarm.NameNotificationCount: alarm.Periodic(1),
		alarm.NameRetryPriceUpdate:  alarm.Periodic(1),
		alarm.NameDailyTasks:        alarm.Periodic(1440),
	} {
		if err := s.scheduler.Create(name, policy); err != nil {
			log.WithError(err).WithField("alarm", name).Warn("failure arming alarm")
		}
	}
}

func (s *Service) onInstall(ctx context.Context) {
	log := s.log.WithField("method", "onInstall")

	if err := s.data.SeedSettings(ctx, settings.Defaults()); err != nil {
		log.WithError(err).Warn("failure seeding settings")
	}

	if err := s.data.SetBadgeText(ctx, badge.TextInstalled); err != nil {
		log.WithError(err).Warn("failure setting badge")
	}

	if err := s.dispatcher.Send(ctx, &notification.Notification{
		ID:      notification.Installed(),
		Title:   "Successfully installed!",
		Message: "Go and explore the new features or read about them first!",
	}); err != nil {
		log.WithError(err).Warn("failure sending installed notification")
	}

	// Currency detection needs exchange rate data to settle first
	go func() {
		delay := s.conf.installSettleDelay.Get(ctx)
		time.Sleep(delay)

		s.detectUserCurrency(ctx)
		s.scrapeAPIKey(ctx)
	}()
}

func (s *Service) onUpdate(ctx context.Context) {
	log := s.log.WithField("method", "onUpdate")

	if err := s.data.BackfillSettings(ctx, settings.Defaults()); err != nil {
		log.WithError(err).Warn("failure backfilling settings")
	}

	if err := s.data.SetBadgeText(ctx, badge.TextUpdated); err != nil {
		log.WithError(err).Warn("failure setting badge")
	}

	if err := s.data.SetSetting(ctx, settings.KeyShowUpdatedRibbon, true); err != nil {
		log.WithError(err).Warn("failure setting updated ribbon flag")
	}

	notifyOnUpdate, err := s.data.GetBoolSetting(ctx, settings.KeyNotifyOnUpdate)
	if err != nil || !notifyOnUpdate {
		return
	}

	message := "You can check the changelog by clicking here!"
	if !s.browser.HasTabsPermission(ctx) {
		message = "Check the changelog for what's new!"
	}

	if err := s.dispatcher.Send(ctx, &notification.Notification{
		ID:      notification.Updated(),
		Title:   "Extension updated!",
		Message: message,
	}); err != nil {
		log.WithError(err).Warn("failure sending updated notification")
	}
}

// detectUserCurrency is a best-effort guess at the user's local
// currency; failures keep the USD default.
func (s *Service) detectUserCurrency(ctx context.Context) {
	log := s.log.WithField("method", "detectUserCurrency")

	currency, err := s.pricingClient.GuessUserCurrency(ctx)
	if err != nil {
		log.WithError(err).Debug("currency could not be determined")
		return
	}

	if err := s.data.SetSetting(ctx, settings.KeyCurrency, currency); err != nil {
		log.WithError(err).Warn("failure saving currency")
		return
	}

	rates, err := s.data.GetExchangeRates(ctx)
	if err != nil {
		return
	}
	if rate, ok := rates[currency]; ok {
		if err := s.data.SetSetting(ctx, settings.KeyExchangeRate, rate); err != nil {
			log.WithError(err).Warn("failure saving exchange rate setting")
		}
	}
}

// scrapeAPIKey opportunistically harvests an already-issued API key.
// All failures are silent.
func (s *Service) scrapeAPIKey(ctx context.Context) {
	log := s.log.WithField("method", "scrapeAPIKey")

	apiKey, err := s.steamClient.ScrapeAPIKey(ctx)
	if err != nil {
		if err != steam.ErrNoAPIKey {
			log.WithError(err).Debug("failure scraping api key")
		}
		return
	}

	if err := s.data.SetSetting(ctx, settings.KeySteamAPIKey, apiKey); err != nil {
		log.WithError(err).Warn("failure saving api key")
		return
	}

	valid, err := s.steamClient.ValidateAPIKey(ctx, apiKey)
	if err != nil {
		return
	}
	if err := s.data.SetSetting(ctx, settings.KeyAPIKeyValid, valid); err != nil {
		log.WithError(err).Warn("failure saving api key validity")
	}
}
