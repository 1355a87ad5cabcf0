package indicator

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestTrueRange(t *testing.T) {
	highs := []float64{11, 15, 12}
	lows := []float64{9, 14, 11}
	closes := []float64{10, 14.5, 11.5}

	series := TrueRange(highs, lows, closes)

	// Ensure the first true range is the bar spread.
	assert.Equal(t, series[0], float64(2))

	// Ensure gaps against the prior close widen the range.
	assert.Equal(t, series[1], float64(5))

	// Ensure the downside gap is measured too.
	assert.Equal(t, series[2], 3.5)
}

func TestATR(t *testing.T) {
	size := 20
	highs := make([]float64, size)
	lows := make([]float64, size)
	closes := make([]float64, size)
	for idx := range highs {
		highs[idx] = 11
		lows[idx] = 9
		closes[idx] = 10
	}

	series := ATR(highs, lows, closes, 5)

	// Ensure a constant two point range smooths to exactly two.
	assert.Equal(t, series.FirstValidIndex(), 4)
	value, ok := series.Last()
	assert.True(t, ok)
	assert.Equal(t, value, float64(2))

	// Ensure short inputs degrade to a fully unavailable series.
	short := ATR(highs[:3], lows[:3], closes[:3], 5)
	assert.Equal(t, short.FirstValidIndex(), -1)
}

func TestADXTrendingMarket(t *testing.T) {
	size := 60
	highs := make([]float64, size)
	lows := make([]float64, size)
	closes := make([]float64, size)
	for idx := range highs {
		closes[idx] = 100 + float64(idx)
		highs[idx] = closes[idx] + 0.5
		lows[idx] = closes[idx] - 0.5
	}

	result := ADX(highs, lows, closes, 14)

	// Ensure a one-directional market reads as a strong trend.
	adx, ok := result.ADX.Last()
	assert.True(t, ok)
	assert.GreaterThan(t, adx, float64(25))

	// Ensure the positive component dominates with no downside movement.
	plusDI, ok := result.PlusDI.Last()
	assert.True(t, ok)
	minusDI, ok := result.MinusDI.Last()
	assert.True(t, ok)
	assert.GreaterThan(t, plusDI, minusDI)
	assert.Equal(t, minusDI, float64(0))

	// Ensure windows below twice the period degrade to unavailable output.
	short := ADX(highs[:20], lows[:20], closes[:20], 14)
	assert.Equal(t, short.ADX.FirstValidIndex(), -1)
}
