package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/data"
	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
	"github.com/csgotrader/trader-server/pkg/trader/notification"
	notification_memory "github.com/csgotrader/trader-server/pkg/trader/notification/memory"
)

func TestDispatcher_SendWithSound(t *testing.T) {
	ctx := context.Background()
	provider := data.NewTestDataProvider()
	require.NoError(t, provider.SeedSettings(ctx, settings.Defaults()))

	notifier := notification_memory.New()
	dispatcher := notification.NewDispatcher(provider, notifier)

	require.NoError(t, dispatcher.Send(ctx, &notification.Notification{
		ID:      notification.NewComment(),
		Title:   "New comment",
		Message: "You have a new comment!",
	}))

	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, 1, notifier.SoundCount)
}

func TestDispatcher_SoundSettingOff(t *testing.T) {
	ctx := context.Background()
	provider := data.NewTestDataProvider()
	require.NoError(t, provider.SeedSettings(ctx, settings.Defaults()))
	require.NoError(t, provider.SetSetting(ctx, settings.KeyNotificationSoundOn, false))

	notifier := notification_memory.New()
	dispatcher := notification.NewDispatcher(provider, notifier)

	require.NoError(t, dispatcher.Send(ctx, &notification.Notification{
		ID: notification.Updated(),
	}))

	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, 0, notifier.SoundCount)
}

func TestDispatcher_ResendReplaces(t *testing.T) {
	ctx := context.Background()
	provider := data.NewTestDataProvider()
	require.NoError(t, provider.SeedSettings(ctx, settings.Defaults()))

	notifier := notification_memory.New()
	dispatcher := notification.NewDispatcher(provider, notifier)

	id := notification.OfferReceived("5551234")
	require.NoError(t, dispatcher.Send(ctx, &notification.Notification{
		ID:      id,
		Message: "first",
	}))
	require.NoError(t, dispatcher.Send(ctx, &notification.Notification{
		ID:      id,
		Message: "second",
	}))

	// The platform keeps a single notification per id
	assert.Len(t, notifier.ByID, 1)
	assert.Equal(t, "second", notifier.ByID[id.String()].Message)
}
