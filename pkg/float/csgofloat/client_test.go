package csgofloat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csgotrader/trader-server/pkg/float"
	"github.com/csgotrader/trader-server/pkg/pointer"
)

func TestResponseToInfo(t *testing.T) {
	var resp response
	resp.ItemInfo = &struct {
		FloatValue *float64 `json:"floatvalue"`
		Paintseed  int      `json:"paintseed"`
		Paintindex int      `json:"paintindex"`
		Min        float64  `json:"min"`
		Max        float64  `json:"max"`
		Stickers   []struct {
			Slot int    `json:"slot"`
			Name string `json:"name"`
		} `json:"stickers"`
	}{
		FloatValue: pointer.Float64(0.254),
		Paintseed:  412,
		Paintindex: 282,
		Min:        0.1,
		Max:        0.7,
	}

	info, err := resp.toInfo()
	require.NoError(t, err)
	assert.InDelta(t, 0.254, info.FloatValue, 0.0001)
	assert.Equal(t, 412, info.Paintseed)
	assert.Equal(t, 282, info.Paintindex)
	assert.InDelta(t, 0.1, info.Low, 0.0001)
	assert.InDelta(t, 0.7, info.High, 0.0001)
	assert.False(t, info.FetchedAt.IsZero())
}

func TestResponseToInfo_ZeroFloatIsNoFloat(t *testing.T) {
	var resp response
	resp.ItemInfo = &struct {
		FloatValue *float64 `json:"floatvalue"`
		Paintseed  int      `json:"paintseed"`
		Paintindex int      `json:"paintindex"`
		Min        float64  `json:"min"`
		Max        float64  `json:"max"`
		Stickers   []struct {
			Slot int    `json:"slot"`
			Name string `json:"name"`
		} `json:"stickers"`
	}{
		FloatValue: pointer.Float64(0),
	}

	_, err := resp.toInfo()
	assert.Equal(t, float.ErrNoFloat, err)
}

func TestResponseToInfo_MissingFloatIsAnError(t *testing.T) {
	var resp response

	_, err := resp.toInfo()
	require.Error(t, err)
	assert.NotEqual(t, float.ErrNoFloat, err)
}
