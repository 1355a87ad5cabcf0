package indicator

import (
	"github.com/dnldd/quorum/shared"
)

// TrendAgreement represents the agreement between the current timeframe
// trend and a downsampled higher timeframe view.
type TrendAgreement struct {
	// Current is the trend direction on the evaluation timeframe.
	Current shared.Direction
	// Higher is the trend direction on the downsampled timeframe.
	Higher shared.Direction
	// Aligned indicates both timeframes trend in the same non-hold direction.
	Aligned bool
	// Strength measures the alignment conviction in [0,1].
	Strength float64
}

// Downsample builds a higher timeframe view of the provided values by
// sampling every nth value, keeping the final value in the sample.
func Downsample(values []float64, factor int) []float64 {
	if factor <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	sampled := make([]float64, 0, len(values)/factor+1)
	// Walk backwards so the most recent value is always included, then
	// reverse into chronological order.
	for idx := len(values) - 1; idx >= 0; idx -= factor {
		sampled = append(sampled, values[idx])
	}

	for left, right := 0, len(sampled)-1; left < right; left, right = left+1, right-1 {
		sampled[left], sampled[right] = sampled[right], sampled[left]
	}

	return sampled
}

// trendDirection reads the trend of the provided values from the
// relationship of a fast and slow EMA at the final index.
func trendDirection(values []float64, fastPeriod int, slowPeriod int) (shared.Direction, float64) {
	fast := EMA(values, fastPeriod)
	slow := EMA(values, slowPeriod)

	fastValue, fastOk := fast.Last()
	slowValue, slowOk := slow.Last()
	if !fastOk || !slowOk || slowValue == 0 {
		return shared.Hold, 0
	}

	separation := (fastValue - slowValue) / slowValue
	switch {
	case separation > 0:
		return shared.Buy, separation
	case separation < 0:
		return shared.Sell, -separation
	default:
		return shared.Hold, 0
	}
}

// MultiTimeframeTrend compares the trend of the provided closes against a
// higher timeframe view built by sampling every nth close.
func MultiTimeframeTrend(closes []float64, factor int, fastPeriod int, slowPeriod int) TrendAgreement {
	if factor <= 0 || fastPeriod <= 0 || slowPeriod <= fastPeriod {
		return TrendAgreement{Current: shared.Hold, Higher: shared.Hold}
	}

	current, currentSep := trendDirection(closes, fastPeriod, slowPeriod)
	higher, higherSep := trendDirection(Downsample(closes, factor), fastPeriod, slowPeriod)

	agreement := TrendAgreement{
		Current: current,
		Higher:  higher,
	}

	if current != shared.Hold && current == higher {
		agreement.Aligned = true
		// Scale the combined separations so roughly a one percent spread
		// on both frames saturates conviction.
		agreement.Strength = clampUnit((currentSep + higherSep) / 0.02)
	}

	return agreement
}
