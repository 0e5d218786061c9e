package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/data/floatcache"
)

func RunTests(t *testing.T, s floatcache.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s floatcache.Store){
		testRoundTrip,
		testZeroFloat,
		testReplace,
		testTrimAged,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s floatcache.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "20000000001")
		assert.Equal(t, floatcache.ErrFloatNotCached, err)

		expected := &floatcache.Record{
			AssetID:    "20000000001",
			FloatValue: 0.0718,
			Paintseed:  412,
			Paintindex: 282,
			UpdatedAt:  time.Now().UTC(),
		}
		require.NoError(t, s.Put(ctx, expected))

		actual, err := s.Get(ctx, "20000000001")
		require.NoError(t, err)
		assert.Equal(t, expected.AssetID, actual.AssetID)
		assert.Equal(t, expected.FloatValue, actual.FloatValue)
		assert.Equal(t, expected.Paintseed, actual.Paintseed)
		assert.Equal(t, expected.Paintindex, actual.Paintindex)
		assert.Equal(t, expected.UpdatedAt.Unix(), actual.UpdatedAt.Unix())
	})
}

func testZeroFloat(t *testing.T, s floatcache.Store) {
	t.Run("testZeroFloat", func(t *testing.T) {
		ctx := context.Background()

		// A floatless item is cached with a zero value so the lookup
		// result is remembered
		require.NoError(t, s.Put(ctx, &floatcache.Record{
			AssetID:   "20000000009",
			UpdatedAt: time.Now().UTC(),
		}))

		actual, err := s.Get(ctx, "20000000009")
		require.NoError(t, err)
		assert.Zero(t, actual.FloatValue)
	})
}

func testReplace(t *testing.T, s floatcache.Store) {
	t.Run("testReplace", func(t *testing.T) {
		ctx := context.Background()

		record := &floatcache.Record{
			AssetID:    "20000000002",
			FloatValue: 0.31,
			UpdatedAt:  time.Now().UTC(),
		}
		require.NoError(t, s.Put(ctx, record))

		record.FloatValue = 0.32
		require.NoError(t, s.Put(ctx, record))

		actual, err := s.Get(ctx, "20000000002")
		require.NoError(t, err)
		assert.Equal(t, 0.32, actual.FloatValue)
	})
}

func testTrimAged(t *testing.T, s floatcache.Store) {
	t.Run("testTrimAged", func(t *testing.T) {
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, &floatcache.Record{
			AssetID:    "1",
			FloatValue: 0.1,
			UpdatedAt:  time.Now().Add(-48 * time.Hour).UTC(),
		}))
		require.NoError(t, s.Put(ctx, &floatcache.Record{
			AssetID:    "2",
			FloatValue: 0.2,
			UpdatedAt:  time.Now().UTC(),
		}))

		removed, err := s.TrimAged(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = s.Get(ctx, "1")
		assert.Equal(t, floatcache.ErrFloatNotCached, err)

		_, err = s.Get(ctx, "2")
		require.NoError(t, err)

		removed, err = s.TrimAged(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
	})
}
