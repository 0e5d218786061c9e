package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/data/badge"
)

func RunTests(t *testing.T, s badge.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s badge.Store){
		testSet,
		testIncrement,
		testIncrementFromSentinel,
	} {
		tf(t, s)
		teardown()
	}
}

func testSet(t *testing.T, s badge.Store) {
	t.Run("testSet", func(t *testing.T) {
		ctx := context.Background()

		text, err := s.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", text)

		require.NoError(t, s.Set(ctx, badge.TextUpdated))

		text, err = s.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "U", text)

		require.NoError(t, s.Set(ctx, ""))

		text, err = s.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", text)
	})
}

func testIncrement(t *testing.T, s badge.Store) {
	t.Run("testIncrement", func(t *testing.T) {
		ctx := context.Background()

		text, err := s.Increment(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1", text)

		text, err = s.Increment(ctx)
		require.NoError(t, err)
		assert.Equal(t, "2", text)
	})
}

func testIncrementFromSentinel(t *testing.T, s badge.Store) {
	t.Run("testIncrementFromSentinel", func(t *testing.T) {
		ctx := context.Background()

		for _, sentinel := range []string{badge.TextInstalled, badge.TextUpdated} {
			require.NoError(t, s.Set(ctx, sentinel))

			text, err := s.Increment(ctx)
			require.NoError(t, err)
			assert.Equal(t, "1", text)
		}
	})
}
