package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	pricing_memory "github.com/csgotrader/trader-server/pkg/pricing/memory"
	steam_memory "github.com/csgotrader/trader-server/pkg/steam/memory"
	alarm_memory "github.com/csgotrader/trader-server/pkg/trader/alarm/memory"
	browser_memory "github.com/csgotrader/trader-server/pkg/trader/browser/memory"
	"github.com/csgotrader/trader-server/pkg/trader/data"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
	"github.com/csgotrader/trader-server/pkg/trader/notification"
	notification_memory "github.com/csgotrader/trader-server/pkg/trader/notification/memory"
)

type testEnv struct {
	ctx       context.Context
	data      data.Provider
	steam     *steam_memory.Client
	pricing   *pricing_memory.Client
	scheduler *alarm_memory.Scheduler
	notifier  *notification_memory.Notifier
	browser   *browser_memory.Browser
	service   *Service
}

func setup(t *testing.T, seed bool) *testEnv {
	ctx := context.Background()

	env := &testEnv{
		ctx:       ctx,
		data:      data.NewTestDataProvider(),
		steam:     steam_memory.NewClient(),
		pricing:   pricing_memory.NewClient(),
		scheduler: alarm_memory.NewScheduler(),
		notifier:  notification_memory.New(),
		browser:   browser_memory.New(),
	}

	env.service = New(
		env.data,
		env.steam,
		env.pricing,
		env.scheduler,
		notification.NewDispatcher(env.data, env.notifier),
		env.browser,
		withManualTestOverrides(&testOverrides{}),
	)

	require.NoError(t, env.scheduler.Start(ctx, env.service.HandleAlarm))

	if seed {
		require.NoError(t, env.data.SeedSettings(ctx, settings.Defaults()))
	}
	return env
}
