package indicator

import (
	"math"

	"github.com/dnldd/quorum/shared"
)

// TrueRange computes the true range series from the provided aligned highs,
// lows and closes.
func TrueRange(highs []float64, lows []float64, closes []float64) shared.Series {
	length := min(len(highs), len(lows), len(closes))
	series := shared.NewSeries(length)
	if length == 0 {
		return series
	}

	series[0] = highs[0] - lows[0]
	for idx := 1; idx < length; idx++ {
		highLow := highs[idx] - lows[idx]
		highClose := math.Abs(highs[idx] - closes[idx-1])
		lowClose := math.Abs(lows[idx] - closes[idx-1])

		series[idx] = math.Max(highLow, math.Max(highClose, lowClose))
	}

	return series
}

// ATR computes the Wilder-smoothed average true range of the provided
// aligned highs, lows and closes.
func ATR(highs []float64, lows []float64, closes []float64, period int) shared.Series {
	length := min(len(highs), len(lows), len(closes))
	if period <= 0 || length < period {
		return shared.NewSeries(length)
	}

	return WilderSmooth(TrueRange(highs, lows, closes), period)
}
