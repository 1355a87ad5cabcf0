package market

import (
	"testing"

	"github.com/dnldd/quorum/shared"
	"github.com/peterldowns/testy/assert"
)

// trendCandles builds a steadily rising close series with a fixed bar spread.
func trendCandles(size int, start float64, step float64) []shared.Candlestick {
	candles := make([]shared.Candlestick, size)
	for idx := range candles {
		close := start + float64(idx)*step
		candles[idx] = shared.Candlestick{
			Open:  close - step,
			High:  close + 0.4,
			Low:   close - 0.4,
			Close: close,
		}
	}

	return candles
}

func TestContextConfigValidate(t *testing.T) {
	// Ensure the default config is valid.
	cfg := DefaultContextConfig()
	assert.NoError(t, cfg.Validate())

	// Ensure inverted volatility periods are rejected.
	cfg = DefaultContextConfig()
	cfg.MediumVolatilityPeriod = cfg.RecentVolatilityPeriod
	assert.Error(t, cfg.Validate())

	// Ensure inverted trend periods are rejected.
	cfg = DefaultContextConfig()
	cfg.TrendSlowPeriod = cfg.TrendFastPeriod
	assert.Error(t, cfg.Validate())

	// Ensure non-positive periods are rejected.
	cfg = DefaultContextConfig()
	cfg.RangePeriod = 0
	assert.Error(t, cfg.Validate())
}

func TestAnalyzeTrendingMarket(t *testing.T) {
	candles := trendCandles(120, 100, 0.5)
	snapshot := Analyze(candles, DefaultContextConfig())

	// Ensure the snapshot completes with enough history.
	assert.True(t, snapshot.Complete)
	assert.Equal(t, snapshot.LastClose, candles[len(candles)-1].Close)

	// Ensure the trend reads up with positive strength.
	assert.True(t, snapshot.TrendUp)
	assert.False(t, snapshot.TrendDown)
	assert.False(t, snapshot.Sideways)
	assert.GreaterThan(t, snapshot.TrendStrength, float64(0))

	// Ensure volatility measures populate with a sane ratio.
	assert.GreaterThan(t, snapshot.RecentVolatility, float64(0))
	assert.GreaterThan(t, snapshot.MediumVolatility, float64(0))
	assert.GreaterThan(t, snapshot.VolatilityRatio, float64(0))

	// Ensure the rising closes count as consecutive bars.
	assert.GreaterThan(t, snapshot.ConsecutiveBars, 2)

	// Ensure the regime reads trending.
	assert.Equal(t, snapshot.Regime.Kind, shared.TrendingRegime)
}

func TestAnalyzeSidewaysMarket(t *testing.T) {
	size := 120
	candles := make([]shared.Candlestick, size)
	for idx := range candles {
		close := float64(100)
		if idx%2 == 1 {
			close = 100.2
		}
		candles[idx] = shared.Candlestick{
			Open:  100.1,
			High:  close + 0.3,
			Low:   close - 0.3,
			Close: close,
		}
	}

	snapshot := Analyze(candles, DefaultContextConfig())

	// Ensure a flat oscillation reads sideways.
	assert.True(t, snapshot.Complete)
	assert.True(t, snapshot.Sideways)
	assert.False(t, snapshot.TrendUp)
	assert.False(t, snapshot.TrendDown)
}

func TestAnalyzeInsufficientHistory(t *testing.T) {
	// Ensure a short window degrades to an incomplete snapshot, not an error.
	snapshot := Analyze(trendCandles(10, 100, 0.5), DefaultContextConfig())
	assert.False(t, snapshot.Complete)
	assert.True(t, snapshot.Sideways)

	// Ensure an empty window is tolerated.
	snapshot = Analyze(nil, DefaultContextConfig())
	assert.False(t, snapshot.Complete)
	assert.Equal(t, snapshot.LastClose, float64(0))
}
