package indicator

import (
	"math"

	"github.com/dnldd/quorum/shared"
)

// RegimeConfig parameterizes market regime classification.
type RegimeConfig struct {
	// ADXPeriod is the lookback for the trend strength measure.
	ADXPeriod int
	// SlopePeriod is the lookback for the rate of change slope.
	SlopePeriod int
	// StrongTrendLevel is the ADX reading above which a market is trending.
	StrongTrendLevel float64
	// VolatileRangePercent is the ATR as a fraction of price above which a
	// market is volatile.
	VolatileRangePercent float64
	// QuietRangePercent is the ATR as a fraction of price below which a
	// market is quiet.
	QuietRangePercent float64
}

// DefaultRegimeConfig returns the default regime classification parameters.
func DefaultRegimeConfig() RegimeConfig {
	return RegimeConfig{
		ADXPeriod:            14,
		SlopePeriod:          10,
		StrongTrendLevel:     25,
		VolatileRangePercent: 0.04,
		QuietRangePercent:    0.005,
	}
}

// RegimeSnapshot represents a market regime classification with the
// confidence of the read.
type RegimeSnapshot struct {
	Kind shared.Regime
	// Confidence is the classification confidence in [0,1], derived from
	// the ADX level and the rate of change slope.
	Confidence float64
	// TrendStrength is the raw ADX reading backing the classification.
	TrendStrength float64
}

// ClassifyRegime classifies current market behavior from the provided
// candlesticks. Insufficient history degrades to a quiet read with zero
// confidence.
func ClassifyRegime(candles []shared.Candlestick, cfg RegimeConfig) RegimeSnapshot {
	highs, lows, closes := shared.Highs(candles), shared.Lows(candles), shared.Closes(candles)

	adx := ADX(highs, lows, closes, cfg.ADXPeriod)
	atr := ATR(highs, lows, closes, cfg.ADXPeriod)
	roc := RateOfChange(closes, cfg.SlopePeriod)

	adxValue, adxOk := adx.ADX.Last()
	atrValue, atrOk := atr.Last()
	rocValue, rocOk := roc.Last()
	if !adxOk || !atrOk || len(closes) == 0 || closes[len(closes)-1] <= 0 {
		return RegimeSnapshot{Kind: shared.QuietRegime}
	}
	if !rocOk {
		rocValue = 0
	}

	lastClose := closes[len(closes)-1]
	rangePercent := atrValue / lastClose

	// Confidence blends how decisively the ADX level and the price slope
	// support the classification.
	adxComponent := clampUnit(adxValue / (2 * cfg.StrongTrendLevel))
	slopeComponent := clampUnit(math.Abs(rocValue) / 5)
	confidence := clampUnit(0.6*adxComponent + 0.4*slopeComponent)

	snapshot := RegimeSnapshot{
		Confidence:    confidence,
		TrendStrength: adxValue,
	}

	switch {
	case rangePercent >= cfg.VolatileRangePercent:
		snapshot.Kind = shared.VolatileRegime
		snapshot.Confidence = clampUnit(rangePercent / (2 * cfg.VolatileRangePercent))
	case adxValue >= cfg.StrongTrendLevel:
		snapshot.Kind = shared.TrendingRegime
	case rangePercent <= cfg.QuietRangePercent:
		snapshot.Kind = shared.QuietRegime
		snapshot.Confidence = clampUnit(1 - rangePercent/cfg.QuietRangePercent/2)
	default:
		snapshot.Kind = shared.RangingRegime
		snapshot.Confidence = clampUnit(1 - adxComponent)
	}

	return snapshot
}

// clampUnit clamps the provided value to [0,1].
func clampUnit(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}
