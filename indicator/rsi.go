package indicator

import (
	"math"

	"github.com/dnldd/quorum/shared"
)

// RSI computes the Wilder-smoothed relative strength index of the provided
// values. A zero average loss resolves to 100 by convention.
func RSI(values []float64, period int) shared.Series {
	series := shared.NewSeries(len(values))
	if period <= 0 || len(values) < period+1 {
		return series
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for idx := 1; idx < len(values); idx++ {
		change := values[idx] - values[idx-1]
		switch {
		case change > 0:
			gains[idx] = change
		case change < 0:
			losses[idx] = math.Abs(change)
		}
	}

	// Seed the averages with a simple mean of the first full window of
	// changes, then apply Wilder's recursion.
	var gainSum, lossSum float64
	for idx := 1; idx <= period; idx++ {
		gainSum += gains[idx]
		lossSum += losses[idx]
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	series[period] = rsiValue(avgGain, avgLoss)

	for idx := period + 1; idx < len(values); idx++ {
		avgGain = (avgGain*float64(period-1) + gains[idx]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[idx]) / float64(period)
		series[idx] = rsiValue(avgGain, avgLoss)
	}

	return series
}

// rsiValue resolves an RSI reading from the provided smoothed averages.
func rsiValue(avgGain float64, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// StochasticRSI represents the stochastic RSI oscillator lines, scaled 0-100.
type StochasticRSI struct {
	K shared.Series
	D shared.Series
}

// StochRSI rescales the RSI of the provided values into a bounded
// oscillator over the provided stochastic period, then smooths it twice.
func StochRSI(values []float64, rsiPeriod int, stochPeriod int, kSmooth int, dSmooth int) StochasticRSI {
	stoch := shared.NewSeries(len(values))
	if rsiPeriod <= 0 || stochPeriod <= 0 || kSmooth <= 0 || dSmooth <= 0 {
		return StochasticRSI{K: stoch, D: shared.NewSeries(len(values))}
	}

	rsi := RSI(values, rsiPeriod)

	for idx := range rsi {
		if !rsi.Valid(idx) || idx < stochPeriod-1 {
			continue
		}

		low := math.Inf(1)
		high := math.Inf(-1)
		window := true
		for widx := idx - stochPeriod + 1; widx <= idx; widx++ {
			if !rsi.Valid(widx) {
				window = false
				break
			}
			low = math.Min(low, rsi[widx])
			high = math.Max(high, rsi[widx])
		}

		if !window {
			continue
		}

		switch {
		case high == low:
			// A flat RSI window carries no positioning information,
			// resolve to the midpoint rather than a false extreme.
			stoch[idx] = 50
		default:
			stoch[idx] = (rsi[idx] - low) / (high - low) * 100
		}
	}

	k := SMA(stoch, kSmooth)
	d := SMA(k, dSmooth)

	return StochasticRSI{K: k, D: d}
}
