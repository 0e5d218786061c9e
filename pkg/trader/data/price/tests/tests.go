package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/trader/data/price"
)

func RunTests(t *testing.T, s price.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s price.Store){
		testPrices,
		testExchangeRates,
	} {
		tf(t, s)
		teardown()
	}
}

func testPrices(t *testing.T, s price.Store) {
	t.Run("testPrices", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetPrices(ctx)
		assert.Equal(t, price.ErrNoPrices, err)

		expected := map[string]float64{
			"AK-47 | Redline (Field-Tested)": 21.5,
			"AWP | Asiimov (Field-Tested)":   98.2,
		}
		require.NoError(t, s.SavePrices(ctx, expected))

		actual, err := s.GetPrices(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		// An empty snapshot still counts as present
		require.NoError(t, s.SavePrices(ctx, map[string]float64{}))

		actual, err = s.GetPrices(ctx)
		require.NoError(t, err)
		assert.Empty(t, actual)
	})
}

func testExchangeRates(t *testing.T, s price.Store) {
	t.Run("testExchangeRates", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetExchangeRates(ctx)
		assert.Equal(t, price.ErrNoRates, err)

		expected := map[string]float64{
			"USD": 1.0,
			"EUR": 0.92,
			"HUF": 356.4,
		}
		require.NoError(t, s.SaveExchangeRates(ctx, expected))

		actual, err := s.GetExchangeRates(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	})
}
