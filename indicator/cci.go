package indicator

import (
	"math"

	"github.com/dnldd/quorum/shared"
)

// cciScale is the Lambert scaling constant for the commodity channel index.
const cciScale = 0.015

// CCI computes the commodity channel index of the provided aligned highs,
// lows and closes.
func CCI(highs []float64, lows []float64, closes []float64, period int) shared.Series {
	length := min(len(highs), len(lows), len(closes))
	series := shared.NewSeries(length)
	if period <= 0 || length < period {
		return series
	}

	typical := make([]float64, length)
	for idx := 0; idx < length; idx++ {
		typical[idx] = (highs[idx] + lows[idx] + closes[idx]) / 3
	}

	average := SMA(typical, period)

	for idx := period - 1; idx < length; idx++ {
		if !average.Valid(idx) {
			continue
		}

		var deviation float64
		for widx := idx - period + 1; widx <= idx; widx++ {
			deviation += math.Abs(typical[widx] - average[idx])
		}
		deviation /= float64(period)

		// A flat window produces zero mean deviation, resolve to a
		// neutral reading rather than dividing by zero.
		if deviation == 0 {
			series[idx] = 0
			continue
		}

		series[idx] = (typical[idx] - average[idx]) / (cciScale * deviation)
	}

	return series
}
