// Package indicator implements the technical indicator library. Every
// function is a pure transformation from aligned price or volume series to
// a derived series. Positions inside an indicator's warm-up span carry the
// unavailable marker, never zero, and inputs shorter than the required
// history degrade to fully unavailable output rather than failing.
package indicator

import (
	"math"

	"github.com/dnldd/quorum/shared"
)

// firstWindow locates the first index at which a full window of computed
// values ends. It returns -1 when the input has no such window.
func firstWindow(values []float64, period int) int {
	valid := 0
	for idx := range values {
		if math.IsNaN(values[idx]) {
			valid = 0
			continue
		}

		valid++
		if valid == period {
			return idx
		}
	}

	return -1
}

// SMA computes a simple moving average of the provided values.
func SMA(values []float64, period int) shared.Series {
	series := shared.NewSeries(len(values))
	if period <= 0 || len(values) < period {
		return series
	}

	start := firstWindow(values, period)
	if start == -1 {
		return series
	}

	var sum float64
	for idx := start - period + 1; idx <= start; idx++ {
		sum += values[idx]
	}
	series[start] = sum / float64(period)

	for idx := start + 1; idx < len(values); idx++ {
		if math.IsNaN(values[idx]) {
			break
		}

		sum += values[idx] - values[idx-period]
		series[idx] = sum / float64(period)
	}

	return series
}

// EMA computes an exponential moving average of the provided values. The
// recursion is seeded with a simple average of the first full window.
func EMA(values []float64, period int) shared.Series {
	series := shared.NewSeries(len(values))
	if period <= 0 || len(values) < period {
		return series
	}

	start := firstWindow(values, period)
	if start == -1 {
		return series
	}

	var sum float64
	for idx := start - period + 1; idx <= start; idx++ {
		sum += values[idx]
	}

	prev := sum / float64(period)
	series[start] = prev

	multiplier := 2 / (float64(period) + 1)
	for idx := start + 1; idx < len(values); idx++ {
		if math.IsNaN(values[idx]) {
			break
		}

		prev = (values[idx]-prev)*multiplier + prev
		series[idx] = prev
	}

	return series
}

// WilderSmooth applies Wilder's recursive smoothing to the provided values,
// seeded with a simple average of the first full window.
func WilderSmooth(values []float64, period int) shared.Series {
	series := shared.NewSeries(len(values))
	if period <= 0 || len(values) < period {
		return series
	}

	start := firstWindow(values, period)
	if start == -1 {
		return series
	}

	var sum float64
	for idx := start - period + 1; idx <= start; idx++ {
		sum += values[idx]
	}

	prev := sum / float64(period)
	series[start] = prev

	for idx := start + 1; idx < len(values); idx++ {
		if math.IsNaN(values[idx]) {
			break
		}

		prev = (prev*float64(period-1) + values[idx]) / float64(period)
		series[idx] = prev
	}

	return series
}

// RollingStdDev computes the rolling population standard deviation of the
// provided values.
func RollingStdDev(values []float64, period int) shared.Series {
	series := shared.NewSeries(len(values))
	if period <= 0 || len(values) < period {
		return series
	}

	start := firstWindow(values, period)
	if start == -1 {
		return series
	}

	for idx := start; idx < len(values); idx++ {
		if math.IsNaN(values[idx]) {
			break
		}

		var sum float64
		for widx := idx - period + 1; widx <= idx; widx++ {
			sum += values[widx]
		}
		mean := sum / float64(period)

		var variance float64
		for widx := idx - period + 1; widx <= idx; widx++ {
			diff := values[widx] - mean
			variance += diff * diff
		}

		series[idx] = math.Sqrt(variance / float64(period))
	}

	return series
}

// RateOfChange computes the percentage change of the provided values over
// the provided period.
func RateOfChange(values []float64, period int) shared.Series {
	series := shared.NewSeries(len(values))
	if period <= 0 || len(values) <= period {
		return series
	}

	for idx := period; idx < len(values); idx++ {
		if math.IsNaN(values[idx]) || math.IsNaN(values[idx-period]) {
			continue
		}

		if values[idx-period] == 0 {
			continue
		}

		series[idx] = (values[idx] - values[idx-period]) / values[idx-period] * 100
	}

	return series
}
