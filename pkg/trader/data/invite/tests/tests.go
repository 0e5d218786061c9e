package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/data/invite"
)

func RunTests(t *testing.T, s invite.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s invite.Store){
		testSummaryRoundTrip,
		testEventHistory,
		testRemoveOldEvents,
	} {
		tf(t, s)
		teardown()
	}
}

func testSummaryRoundTrip(t *testing.T, s invite.Store) {
	t.Run("testSummaryRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		initial, err := s.GetSummary(ctx)
		require.NoError(t, err)
		assert.True(t, initial.LastUpdatedAt.IsZero())
		assert.Empty(t, initial.Inviters)
		assert.Empty(t, initial.InvitedToGroups)

		expected := &invite.Summary{
			LastUpdatedAt:   time.Now().UTC(),
			Inviters:        []string{"76561198000000001", "76561198000000002"},
			InvitedToGroups: []string{"103582791400000001"},
		}
		require.NoError(t, s.SaveSummary(ctx, expected))

		actual, err := s.GetSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected.LastUpdatedAt.Unix(), actual.LastUpdatedAt.Unix())
		assert.Equal(t, expected.Inviters, actual.Inviters)
		assert.Equal(t, expected.InvitedToGroups, actual.InvitedToGroups)
	})
}

func testEventHistory(t *testing.T, s invite.Store) {
	t.Run("testEventHistory", func(t *testing.T) {
		ctx := context.Background()

		events, err := s.GetEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)

		start := time.Now().UTC()
		require.NoError(t, s.AddEvents(
			ctx,
			&invite.Event{
				Type:      invite.EventReceived,
				SteamID:   "76561198000000001",
				CreatedAt: start,
			},
			&invite.Event{
				Type:      invite.EventResolved,
				SteamID:   "76561198000000002",
				CreatedAt: start.Add(time.Minute),
			},
		))

		events, err = s.GetEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, invite.EventReceived, events[0].Type)
		assert.Equal(t, "76561198000000001", events[0].SteamID)
		assert.Equal(t, invite.EventResolved, events[1].Type)
	})
}

func testRemoveOldEvents(t *testing.T, s invite.Store) {
	t.Run("testRemoveOldEvents", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now().UTC()
		for i := 0; i < 5; i++ {
			require.NoError(t, s.AddEvents(ctx, &invite.Event{
				Type:      invite.EventReceived,
				SteamID:   "76561198000000001",
				CreatedAt: start.Add(time.Duration(i) * time.Hour),
			}))
		}

		removed, err := s.RemoveOldEvents(ctx, start.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		events, err := s.GetEvents(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 3)

		removed, err = s.RemoveOldEvents(ctx, start.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
	})
}
