package indicator

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	series := SMA(values, 3)

	// Ensure the warm-up span is unavailable.
	assert.False(t, series.Valid(0))
	assert.False(t, series.Valid(1))
	assert.Equal(t, series.FirstValidIndex(), 2)

	// Ensure the rolling averages are exact.
	assert.Equal(t, series[2], float64(2))
	assert.Equal(t, series[3], float64(3))
	assert.Equal(t, series[4], float64(4))

	// Ensure short inputs degrade to a fully unavailable series.
	short := SMA([]float64{1, 2}, 3)
	assert.Equal(t, short.FirstValidIndex(), -1)

	// Ensure degenerate periods degrade rather than fail.
	invalid := SMA(values, 0)
	assert.Equal(t, invalid.FirstValidIndex(), -1)
}

func TestSMASkipsLeadingUnavailable(t *testing.T) {
	// Ensure a warm-up prefix from an upstream indicator shifts the first
	// full window instead of poisoning the average.
	values := []float64{math.NaN(), math.NaN(), 3, 4, 5}
	series := SMA(values, 3)

	assert.Equal(t, series.FirstValidIndex(), 4)
	assert.Equal(t, series[4], float64(4))
}

func TestEMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	series := EMA(values, 3)

	// Ensure the recursion seeds with the simple average of the first window.
	assert.Equal(t, series.FirstValidIndex(), 2)
	assert.Equal(t, series[2], float64(2))

	// Ensure the exponential recursion follows, multiplier 2/(period+1):
	// 0.5*4 + 0.5*2 = 3, then 0.5*5 + 0.5*3 = 4.
	assert.Equal(t, series[3], float64(3))
	assert.Equal(t, series[4], float64(4))
}

func TestWilderSmooth(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	series := WilderSmooth(values, 2)

	// Ensure the seed is the simple average of the first window.
	assert.Equal(t, series.FirstValidIndex(), 1)
	assert.Equal(t, series[1], 1.5)

	// Ensure the recursion weights the prior value by period-1.
	assert.Equal(t, series[2], 2.25)
	assert.Equal(t, series[3], 3.125)
}

func TestRollingStdDev(t *testing.T) {
	values := []float64{2, 4, 2, 4}
	series := RollingStdDev(values, 2)

	// Ensure the population standard deviation of each window is exact.
	assert.Equal(t, series.FirstValidIndex(), 1)
	assert.Equal(t, series[1], float64(1))
	assert.Equal(t, series[2], float64(1))
	assert.Equal(t, series[3], float64(1))

	// Ensure a flat window yields zero deviation.
	flat := RollingStdDev([]float64{5, 5, 5}, 2)
	assert.Equal(t, flat[2], float64(0))
}

func TestRateOfChange(t *testing.T) {
	values := []float64{100, 110, 121}
	series := RateOfChange(values, 1)

	// Ensure the percentage change is exact.
	assert.False(t, series.Valid(0))
	assert.Equal(t, series[1], float64(10))
	assert.LessThanOrEqual(t, math.Abs(series[2]-10), 1e-9)

	// Ensure a zero base yields no reading rather than dividing by zero.
	degenerate := RateOfChange([]float64{0, 5}, 1)
	assert.False(t, degenerate.Valid(1))
}

func TestMACD(t *testing.T) {
	values := make([]float64, 60)
	for idx := range values {
		values[idx] = 100 + float64(idx)
	}

	macd := MACD(values, 12, 26, 9)

	// Ensure the line, signal and histogram become available after warm-up.
	line, ok := macd.Line.Last()
	assert.True(t, ok)
	signal, ok := macd.Signal.Last()
	assert.True(t, ok)
	histogram, ok := macd.Histogram.Last()
	assert.True(t, ok)

	// Ensure the histogram is the line over the signal and a steady uptrend
	// keeps the line positive.
	assert.LessThanOrEqual(t, math.Abs(histogram-(line-signal)), 1e-9)
	assert.GreaterThan(t, line, float64(0))

	// Ensure invalid periods degrade to fully unavailable output.
	invalid := MACD(values, 26, 12, 9)
	assert.Equal(t, invalid.Line.FirstValidIndex(), -1)
	assert.Equal(t, invalid.Histogram.FirstValidIndex(), -1)
}
