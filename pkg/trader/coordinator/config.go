package coordinator

import (
	"time"

	"github.com/csgotrader/trader-server/pkg/config"
	"github.com/csgotrader/trader-server/pkg/config/env"
	"github.com/csgotrader/trader-server/pkg/config/memory"
	"github.com/csgotrader/trader-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "COORDINATOR_SERVICE_"

	InstallSettleDelayConfigEnvName = envConfigPrefix + "INSTALL_SETTLE_DELAY"
	defaultInstallSettleDelay       = 20 * time.Second

	AlertSettleDelayConfigEnvName = envConfigPrefix + "ALERT_SETTLE_DELAY"
	defaultAlertSettleDelay       = time.Second

	SuspendDurationConfigEnvName = envConfigPrefix + "SUSPEND_DURATION"
	defaultSuspendDuration       = time.Hour

	InviteStalenessConfigEnvName = envConfigPrefix + "INVITE_STALENESS"
	defaultInviteStaleness       = 30 * time.Minute

	OfferStalenessConfigEnvName = envConfigPrefix + "OFFER_STALENESS"
	defaultOfferStaleness       = 2 * time.Minute

	FloatCacheMaxAgeConfigEnvName = envConfigPrefix + "FLOAT_CACHE_MAX_AGE"
	defaultFloatCacheMaxAge       = 24 * time.Hour

	EventRetentionConfigEnvName = envConfigPrefix + "EVENT_RETENTION"
	defaultEventRetention       = 30 * 24 * time.Hour
)

type conf struct {
	installSettleDelay config.Duration
	alertSettleDelay   config.Duration
	suspendDuration    config.Duration
	inviteStaleness    config.Duration
	offerStaleness     config.Duration
	floatCacheMaxAge   config.Duration
	eventRetention     config.Duration
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			installSettleDelay: env.NewDurationConfig(InstallSettleDelayConfigEnvName, defaultInstallSettleDelay),
			alertSettleDelay:   env.NewDurationConfig(AlertSettleDelayConfigEnvName, defaultAlertSettleDelay),
			suspendDuration:    env.NewDurationConfig(SuspendDurationConfigEnvName, defaultSuspendDuration),
			inviteStaleness:    env.NewDurationConfig(InviteStalenessConfigEnvName, defaultInviteStaleness),
			offerStaleness:     env.NewDurationConfig(OfferStalenessConfigEnvName, defaultOfferStaleness),
			floatCacheMaxAge:   env.NewDurationConfig(FloatCacheMaxAgeConfigEnvName, defaultFloatCacheMaxAge),
			eventRetention:     env.NewDurationConfig(EventRetentionConfigEnvName, defaultEventRetention),
		}
	}
}

type testOverrides struct {
	installSettleDelay time.Duration
	alertSettleDelay   time.Duration
	inviteStaleness    time.Duration
	offerStaleness     time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	durationConfig := func(override, defaultValue time.Duration) config.Duration {
		if override > 0 {
			defaultValue = override
		}
		return wrapper.NewDurationConfig(memory.NewConfig(defaultValue), defaultValue)
	}

	return func() *conf {
		return &conf{
			installSettleDelay: durationConfig(overrides.installSettleDelay, time.Millisecond),
			alertSettleDelay:   durationConfig(overrides.alertSettleDelay, time.Millisecond),
			suspendDuration:    durationConfig(0, defaultSuspendDuration),
			inviteStaleness:    durationConfig(overrides.inviteStaleness, defaultInviteStaleness),
			offerStaleness:     durationConfig(overrides.offerStaleness, defaultOfferStaleness),
			floatCacheMaxAge:   durationConfig(0, defaultFloatCacheMaxAge),
			eventRetention:     durationConfig(0, defaultEventRetention),
		}
	}
}
