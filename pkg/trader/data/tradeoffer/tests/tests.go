package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/data/tradeoffer"
)

func RunTests(t *testing.T, s tradeoffer.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s tradeoffer.Store){
		testSummaryRoundTrip,
		testEventHistory,
		testRemoveOldEvents,
	} {
		tf(t, s)
		teardown()
	}
}

func testSummaryRoundTrip(t *testing.T, s tradeoffer.Store) {
	t.Run("testSummaryRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		initial, err := s.GetSummary(ctx)
		require.NoError(t, err)
		assert.True(t, initial.LastFullUpdateAt.IsZero())
		assert.Equal(t, 0, initial.ReceivedActiveCount)

		expected := &tradeoffer.Summary{
			LastFullUpdateAt:    time.Now().UTC(),
			ReceivedActiveCount: 4,
		}
		require.NoError(t, s.SaveSummary(ctx, expected))

		actual, err := s.GetSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected.LastFullUpdateAt.Unix(), actual.LastFullUpdateAt.Unix())
		assert.Equal(t, 4, actual.ReceivedActiveCount)
	})
}

func testEventHistory(t *testing.T, s tradeoffer.Store) {
	t.Run("testEventHistory", func(t *testing.T) {
		ctx := context.Background()

		events, err := s.GetEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)

		start := time.Now().UTC()
		require.NoError(t, s.AddEvents(
			ctx,
			&tradeoffer.Event{
				Type:      tradeoffer.EventReceived,
				OfferID:   "5551234",
				CreatedAt: start,
			},
			&tradeoffer.Event{
				Type:      tradeoffer.EventResolved,
				OfferID:   "5550000",
				CreatedAt: start.Add(time.Minute),
			},
		))

		events, err = s.GetEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, tradeoffer.EventReceived, events[0].Type)
		assert.Equal(t, "5551234", events[0].OfferID)
		assert.Equal(t, tradeoffer.EventResolved, events[1].Type)
	})
}

func testRemoveOldEvents(t *testing.T, s tradeoffer.Store) {
	t.Run("testRemoveOldEvents", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now().UTC()
		for i := 0; i < 4; i++ {
			require.NoError(t, s.AddEvents(ctx, &tradeoffer.Event{
				Type:      tradeoffer.EventReceived,
				OfferID:   "5551234",
				CreatedAt: start.Add(time.Duration(i) * time.Hour),
			}))
		}

		removed, err := s.RemoveOldEvents(ctx, start.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		events, err := s.GetEvents(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})
}
