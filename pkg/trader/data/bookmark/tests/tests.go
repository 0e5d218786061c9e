package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/data/bookmark"
)

func RunTests(t *testing.T, s bookmark.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s bookmark.Store){
		testRoundTrip,
		testReplace,
		testGetAllOrdering,
		testRemove,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s bookmark.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetByAssetID(ctx, "20000000001")
		assert.Equal(t, bookmark.ErrBookmarkNotFound, err)

		expected := &bookmark.Record{
			AssetID:    "20000000001",
			Name:       "AK-47 | Redline",
			IconURL:    "https://example.com/ak47.png",
			NotifyType: bookmark.NotifyChrome,
			TradableAt: time.Now().Add(24 * time.Hour).UTC(),
			CreatedAt:  time.Now().UTC(),
		}
		require.NoError(t, s.Add(ctx, expected))

		actual, err := s.GetByAssetID(ctx, "20000000001")
		require.NoError(t, err)
		assertEquivalentRecords(t, expected, actual)
	})
}

func testReplace(t *testing.T, s bookmark.Store) {
	t.Run("testReplace", func(t *testing.T) {
		ctx := context.Background()

		record := &bookmark.Record{
			AssetID:    "20000000002",
			Name:       "M4A4 | Asiimov",
			NotifyType: bookmark.NotifyChrome,
			TradableAt: time.Now().Add(time.Hour).UTC(),
			CreatedAt:  time.Now().UTC(),
		}
		require.NoError(t, s.Add(ctx, record))

		record.NotifyType = bookmark.NotifyAlert
		require.NoError(t, s.Add(ctx, record))

		actual, err := s.GetByAssetID(ctx, "20000000002")
		require.NoError(t, err)
		assert.Equal(t, bookmark.NotifyAlert, actual.NotifyType)

		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func testGetAllOrdering(t *testing.T, s bookmark.Store) {
	t.Run("testGetAllOrdering", func(t *testing.T) {
		ctx := context.Background()

		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		start := time.Now().UTC()
		for i, assetID := range []string{"3", "1", "2"} {
			require.NoError(t, s.Add(ctx, &bookmark.Record{
				AssetID:    assetID,
				NotifyType: bookmark.NotifyChrome,
				TradableAt: start.Add(time.Hour),
				CreatedAt:  start.Add(time.Duration(i) * time.Minute),
			}))
		}

		all, err = s.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "3", all[0].AssetID)
		assert.Equal(t, "1", all[1].AssetID)
		assert.Equal(t, "2", all[2].AssetID)
	})
}

func testRemove(t *testing.T, s bookmark.Store) {
	t.Run("testRemove", func(t *testing.T) {
		ctx := context.Background()

		assert.Equal(t, bookmark.ErrBookmarkNotFound, s.Remove(ctx, "20000000003"))

		require.NoError(t, s.Add(ctx, &bookmark.Record{
			AssetID:    "20000000003",
			NotifyType: bookmark.NotifyAlert,
			TradableAt: time.Now().Add(time.Hour).UTC(),
			CreatedAt:  time.Now().UTC(),
		}))

		require.NoError(t, s.Remove(ctx, "20000000003"))

		_, err := s.GetByAssetID(ctx, "20000000003")
		assert.Equal(t, bookmark.ErrBookmarkNotFound, err)

		assert.Equal(t, bookmark.ErrBookmarkNotFound, s.Remove(ctx, "20000000003"))
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *bookmark.Record) {
	assert.Equal(t, obj1.AssetID, obj2.AssetID)
	assert.Equal(t, obj1.Name, obj2.Name)
	assert.Equal(t, obj1.IconURL, obj2.IconURL)
	assert.Equal(t, obj1.NotifyType, obj2.NotifyType)
	assert.Equal(t, obj1.TradableAt.Unix(), obj2.TradableAt.Unix())
}
