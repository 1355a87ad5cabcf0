package indicator

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestBollinger(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	bands := Bollinger(values, 2, 2)

	// Ensure the bands offset the rolling mean by the deviation multiple.
	assert.Equal(t, bands.Middle[1], 1.5)
	assert.Equal(t, bands.Upper[1], 2.5)
	assert.Equal(t, bands.Lower[1], 0.5)

	// Ensure the warm-up span is unavailable.
	assert.False(t, bands.Upper.Valid(0))

	// Ensure a flat window collapses the bands onto the mean.
	flat := Bollinger([]float64{5, 5, 5, 5}, 2, 2)
	assert.Equal(t, flat.Upper[3], float64(5))
	assert.Equal(t, flat.Lower[3], float64(5))

	width, ok := flat.Bandwidth(3)
	assert.True(t, ok)
	assert.Equal(t, width, float64(0))

	// Ensure bandwidth is unavailable inside the warm-up span.
	_, ok = flat.Bandwidth(0)
	assert.False(t, ok)

	// Ensure invalid multipliers degrade to unavailable output.
	invalid := Bollinger(values, 2, 0)
	assert.Equal(t, invalid.Upper.FirstValidIndex(), -1)
}

func TestDonchian(t *testing.T) {
	highs := []float64{1, 2, 3, 4, 5}
	lows := []float64{0, 1, 2, 3, 4}

	channel := Donchian(highs, lows, 3)

	// Ensure the channel covers the window ending at each index.
	assert.False(t, channel.Upper.Valid(1))
	assert.Equal(t, channel.Upper[2], float64(3))
	assert.Equal(t, channel.Lower[2], float64(0))
	assert.Equal(t, channel.Middle[2], 1.5)
	assert.Equal(t, channel.Upper[4], float64(5))
	assert.Equal(t, channel.Lower[4], float64(2))
}

func TestCCI(t *testing.T) {
	size := 25
	highs := make([]float64, size)
	lows := make([]float64, size)
	closes := make([]float64, size)
	for idx := range highs {
		closes[idx] = 100
		highs[idx] = 101
		lows[idx] = 99
	}

	// Ensure a flat window resolves to a neutral reading.
	series := CCI(highs, lows, closes, 20)
	value, ok := series.Last()
	assert.True(t, ok)
	assert.Equal(t, value, float64(0))

	// Ensure a sharp rally stretches the index past the extreme band.
	closes[size-1] = 110
	highs[size-1] = 111
	lows[size-1] = 109

	series = CCI(highs, lows, closes, 20)
	value, ok = series.Last()
	assert.True(t, ok)
	assert.GreaterThan(t, value, float64(100))
}

func TestPivots(t *testing.T) {
	pivots := Pivots(110, 90, 100)

	// Ensure the classic floor-trader levels are exact.
	assert.Equal(t, pivots.Pivot, float64(100))
	assert.Equal(t, pivots.Resistance1, float64(110))
	assert.Equal(t, pivots.Support1, float64(90))
	assert.Equal(t, pivots.Resistance2, float64(120))
	assert.Equal(t, pivots.Support2, float64(80))
}

func TestPivotsFromWindow(t *testing.T) {
	highs := []float64{105, 110, 108}
	lows := []float64{95, 90, 96}
	closes := []float64{100, 101, 100}

	// Ensure the window extremes and final close feed the pivot.
	pivots, ok := PivotsFromWindow(highs, lows, closes)
	assert.True(t, ok)
	assert.Equal(t, pivots.Pivot, float64(100))
	assert.Equal(t, pivots.Resistance1, float64(110))

	// Ensure an empty window is reported unavailable.
	_, ok = PivotsFromWindow(nil, nil, nil)
	assert.False(t, ok)
}
