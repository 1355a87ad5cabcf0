// Package market derives a compact per-cycle context snapshot from raw
// candlestick data. The snapshot is recomputed fresh for every evaluation
// and never mutated or shared between markets.
package market

import (
	"errors"
	"fmt"
	"math"

	"github.com/dnldd/quorum/indicator"
	"github.com/dnldd/quorum/shared"
)

// ContextConfig parameterizes market context analysis.
type ContextConfig struct {
	// RecentVolatilityPeriod is the short ATR lookback.
	RecentVolatilityPeriod int
	// MediumVolatilityPeriod is the medium ATR lookback.
	MediumVolatilityPeriod int
	// RangePeriod is the lookback for the recent high-low range.
	RangePeriod int
	// TrendFastPeriod is the fast EMA lookback for trend detection.
	TrendFastPeriod int
	// TrendSlowPeriod is the slow EMA lookback for trend detection.
	TrendSlowPeriod int
	// SidewaysThreshold is the minimum fractional EMA separation for a
	// directional trend read.
	SidewaysThreshold float64
	// Regime parameterizes regime classification.
	Regime indicator.RegimeConfig
}

// DefaultContextConfig returns the default context analysis parameters.
func DefaultContextConfig() ContextConfig {
	return ContextConfig{
		RecentVolatilityPeriod: 10,
		MediumVolatilityPeriod: 30,
		RangePeriod:            20,
		TrendFastPeriod:        20,
		TrendSlowPeriod:        50,
		SidewaysThreshold:      0.002,
		Regime:                 indicator.DefaultRegimeConfig(),
	}
}

// Validate asserts the config has sane inputs.
func (cfg *ContextConfig) Validate() error {
	var errs error

	if cfg.RecentVolatilityPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("recent volatility period must be positive: %d", cfg.RecentVolatilityPeriod))
	}
	if cfg.MediumVolatilityPeriod <= cfg.RecentVolatilityPeriod {
		errs = errors.Join(errs, fmt.Errorf("medium volatility period must exceed the recent period: %d <= %d",
			cfg.MediumVolatilityPeriod, cfg.RecentVolatilityPeriod))
	}
	if cfg.RangePeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("range period must be positive: %d", cfg.RangePeriod))
	}
	if cfg.TrendFastPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("trend fast period must be positive: %d", cfg.TrendFastPeriod))
	}
	if cfg.TrendSlowPeriod <= cfg.TrendFastPeriod {
		errs = errors.Join(errs, fmt.Errorf("trend slow period must exceed the fast period: %d <= %d",
			cfg.TrendSlowPeriod, cfg.TrendFastPeriod))
	}
	if cfg.SidewaysThreshold < 0 {
		errs = errors.Join(errs, fmt.Errorf("sideways threshold cannot be negative: %f", cfg.SidewaysThreshold))
	}

	return errs
}

// Snapshot represents the market context at the final bar of an
// evaluation window.
type Snapshot struct {
	// Complete indicates the window carried enough history for every
	// context measure. Strategies degrade to hold when false.
	Complete bool
	// LastClose is the final close of the window.
	LastClose float64
	// RecentVolatility is the short lookback ATR.
	RecentVolatility float64
	// MediumVolatility is the medium lookback ATR.
	MediumVolatility float64
	// VolatilityRatio is recent volatility over medium volatility.
	VolatilityRatio float64
	// RecentRange is the high-low spread over the range lookback.
	RecentRange float64
	// TrendUp indicates a directional uptrend read.
	TrendUp bool
	// TrendDown indicates a directional downtrend read.
	TrendDown bool
	// Sideways indicates no directional trend read.
	Sideways bool
	// TrendStrength is the fractional EMA separation magnitude.
	TrendStrength float64
	// ConsecutiveBars counts consecutive same-direction closes ending at
	// the final bar, positive for rising closes.
	ConsecutiveBars int
	// Regime is the market regime classification for the window.
	Regime indicator.RegimeSnapshot
}

// Analyze derives a context snapshot from the provided candlesticks.
// Insufficient history yields an incomplete snapshot rather than an error.
func Analyze(candles []shared.Candlestick, cfg ContextConfig) *Snapshot {
	snapshot := &Snapshot{Sideways: true}
	if len(candles) == 0 {
		return snapshot
	}

	highs, lows, closes := shared.Highs(candles), shared.Lows(candles), shared.Closes(candles)
	snapshot.LastClose = closes[len(closes)-1]
	snapshot.ConsecutiveBars = shared.ConsecutiveBars(candles)

	recent := indicator.ATR(highs, lows, closes, cfg.RecentVolatilityPeriod)
	medium := indicator.ATR(highs, lows, closes, cfg.MediumVolatilityPeriod)
	fast := indicator.EMA(closes, cfg.TrendFastPeriod)
	slow := indicator.EMA(closes, cfg.TrendSlowPeriod)

	recentValue, recentOk := recent.Last()
	mediumValue, mediumOk := medium.Last()
	fastValue, fastOk := fast.Last()
	slowValue, slowOk := slow.Last()
	if !recentOk || !mediumOk || !fastOk || !slowOk || len(candles) < cfg.RangePeriod {
		return snapshot
	}

	snapshot.RecentVolatility = recentValue
	snapshot.MediumVolatility = mediumValue
	if mediumValue > 0 {
		snapshot.VolatilityRatio = recentValue / mediumValue
	}

	high := math.Inf(-1)
	low := math.Inf(1)
	for idx := len(candles) - cfg.RangePeriod; idx < len(candles); idx++ {
		high = math.Max(high, candles[idx].High)
		low = math.Min(low, candles[idx].Low)
	}
	snapshot.RecentRange = high - low

	if slowValue != 0 {
		separation := (fastValue - slowValue) / slowValue
		snapshot.TrendStrength = math.Abs(separation)

		switch {
		case separation > cfg.SidewaysThreshold:
			snapshot.TrendUp = true
			snapshot.Sideways = false
		case separation < -cfg.SidewaysThreshold:
			snapshot.TrendDown = true
			snapshot.Sideways = false
		}
	}

	snapshot.Regime = indicator.ClassifyRegime(candles, cfg.Regime)
	snapshot.Complete = true

	return snapshot
}
