package indicator

import (
	"github.com/dnldd/quorum/shared"
)

// MACDResult represents the MACD line, its signal line and their histogram.
type MACDResult struct {
	Line      shared.Series
	Signal    shared.Series
	Histogram shared.Series
}

// MACD computes the moving average convergence divergence of the provided
// values as the difference of a fast and slow EMA, with an EMA signal line.
func MACD(values []float64, fastPeriod int, slowPeriod int, signalPeriod int) MACDResult {
	line := shared.NewSeries(len(values))
	if fastPeriod <= 0 || slowPeriod <= fastPeriod || signalPeriod <= 0 {
		return MACDResult{
			Line:      line,
			Signal:    shared.NewSeries(len(values)),
			Histogram: shared.NewSeries(len(values)),
		}
	}

	fast := EMA(values, fastPeriod)
	slow := EMA(values, slowPeriod)

	for idx := range values {
		if !fast.Valid(idx) || !slow.Valid(idx) {
			continue
		}

		line[idx] = fast[idx] - slow[idx]
	}

	signal := EMA(line, signalPeriod)

	histogram := shared.NewSeries(len(values))
	for idx := range values {
		if !line.Valid(idx) || !signal.Valid(idx) {
			continue
		}

		histogram[idx] = line[idx] - signal[idx]
	}

	return MACDResult{
		Line:      line,
		Signal:    signal,
		Histogram: histogram,
	}
}
