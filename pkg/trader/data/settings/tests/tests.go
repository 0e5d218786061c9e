package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/data/settings"
)

func RunTests(t *testing.T, s settings.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s settings.Store){
		testSeed,
		testBackfill,
		testSet,
	} {
		tf(t, s)
		teardown()
	}
}

func testSeed(t *testing.T, s settings.Store) {
	t.Run("testSeed", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "currency")
		assert.Equal(t, settings.ErrSettingNotFound, err)

		require.NoError(t, s.Seed(ctx, settings.Defaults()))

		for key, expected := range settings.Defaults() {
			actual, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		}
	})
}

func testBackfill(t *testing.T, s settings.Store) {
	t.Run("testBackfill", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "currency", "EUR"))

		require.NoError(t, s.Backfill(ctx, settings.Defaults()))

		// Pre-existing values survive a backfill
		actual, err := s.Get(ctx, "currency")
		require.NoError(t, err)
		assert.Equal(t, "EUR", actual)

		// Missing names get their default
		for key, expected := range settings.Defaults() {
			if key == "currency" {
				continue
			}
			actual, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, expected, actual)
		}
	})
}

func testSet(t *testing.T, s settings.Store) {
	t.Run("testSet", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "itemPricing", false))

		actual, err := settings.GetBool(ctx, s, "itemPricing")
		require.NoError(t, err)
		assert.False(t, actual)

		require.NoError(t, s.Set(ctx, "numberOfComments", 12.0))

		count, err := settings.GetInt(ctx, s, "numberOfComments")
		require.NoError(t, err)
		assert.Equal(t, 12, count)
	})
}
