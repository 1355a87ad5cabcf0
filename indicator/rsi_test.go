package indicator

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestRSIBounds(t *testing.T) {
	rising := make([]float64, 30)
	falling := make([]float64, 30)
	for idx := range rising {
		rising[idx] = 100 + float64(idx)
		falling[idx] = 100 - float64(idx)
	}

	// Ensure a lossless window resolves to 100 by convention.
	up := RSI(rising, 14)
	value, ok := up.Last()
	assert.True(t, ok)
	assert.Equal(t, value, float64(100))

	// Ensure a gainless window resolves to 0.
	down := RSI(falling, 14)
	value, ok = down.Last()
	assert.True(t, ok)
	assert.Equal(t, value, float64(0))

	// Ensure the first reading lands exactly after one full window of changes.
	assert.Equal(t, up.FirstValidIndex(), 14)

	// Ensure short inputs degrade to a fully unavailable series.
	short := RSI(rising[:14], 14)
	assert.Equal(t, short.FirstValidIndex(), -1)
}

func TestRSIMidline(t *testing.T) {
	// Ensure equal gains and losses resolve to the midline.
	values := make([]float64, 31)
	for idx := range values {
		if idx%2 == 0 {
			values[idx] = 100
		} else {
			values[idx] = 101
		}
	}

	series := RSI(values, 14)
	value, ok := series.Last()
	assert.True(t, ok)
	assert.GreaterThan(t, value, float64(30))
	assert.LessThanOrEqual(t, value, float64(70))
}

func TestStochRSI(t *testing.T) {
	// Ensure a flat oscillator window resolves to the midpoint rather than a
	// false extreme.
	flat := make([]float64, 40)
	for idx := range flat {
		flat[idx] = 100
	}

	stoch := StochRSI(flat, 14, 14, 3, 3)
	k, ok := stoch.K.Last()
	assert.True(t, ok)
	assert.Equal(t, k, float64(50))

	d, ok := stoch.D.Last()
	assert.True(t, ok)
	assert.Equal(t, d, float64(50))

	// Ensure both oscillator lines stay within the 0-100 scale.
	varied := make([]float64, 60)
	for idx := range varied {
		varied[idx] = 100 + float64(idx%7) - float64(idx%3)
	}

	stoch = StochRSI(varied, 14, 14, 3, 3)
	for idx := range stoch.K {
		if !stoch.K.Valid(idx) {
			continue
		}
		assert.True(t, stoch.K[idx] >= 0 && stoch.K[idx] <= 100)
	}

	// Ensure degenerate smoothing parameters degrade to unavailable output.
	invalid := StochRSI(varied, 14, 14, 0, 3)
	assert.Equal(t, invalid.K.FirstValidIndex(), -1)
}
