package strategy

import (
	"strings"
	"testing"

	"github.com/dnldd/quorum/market"
	"github.com/dnldd/quorum/shared"
	"github.com/peterldowns/testy/assert"
)

// trendCandles builds a steadily rising close series with a fixed bar spread
// and rising volume.
func trendCandles(size int, start float64, step float64) []shared.Candlestick {
	candles := make([]shared.Candlestick, size)
	for idx := range candles {
		close := start + float64(idx)*step
		candles[idx] = shared.Candlestick{
			Open:   close - step,
			High:   close + 0.1,
			Low:    close - 0.7,
			Close:  close,
			Volume: 1000 + float64(idx),
		}
	}

	return candles
}

// flatCandles builds a constant close series.
func flatCandles(size int) []shared.Candlestick {
	candles := make([]shared.Candlestick, size)
	for idx := range candles {
		candles[idx] = shared.Candlestick{
			Open:   100,
			High:   100.2,
			Low:    99.8,
			Close:  100,
			Volume: 1000,
		}
	}

	return candles
}

func TestConfigValidate(t *testing.T) {
	// Ensure the default config is valid.
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	// Ensure non-positive periods are rejected.
	cfg = DefaultConfig()
	cfg.RSIPeriod = 0
	assert.Error(t, cfg.Validate())

	// Ensure unordered ema periods are rejected.
	cfg = DefaultConfig()
	cfg.FastEMAPeriod = cfg.MidEMAPeriod
	assert.Error(t, cfg.Validate())

	// Ensure inverted rsi thresholds are rejected.
	cfg = DefaultConfig()
	cfg.RSIOversold = cfg.RSIOverbought
	assert.Error(t, cfg.Validate())

	// Ensure nested validation config errors surface.
	cfg = DefaultConfig()
	cfg.Validation.SeparationNormalizer = 0
	assert.Error(t, cfg.Validate())
}

func TestRegistry(t *testing.T) {
	registry := Registry()

	// Ensure every strategy is registered with a unique name, a guard on
	// minimum history and an evaluator.
	seen := make(map[string]bool, len(registry))
	for idx := range registry {
		entry := registry[idx]
		assert.False(t, seen[entry.Name])
		seen[entry.Name] = true

		assert.GreaterThan(t, entry.MinBars, 50)
		assert.NotNil(t, entry.Eval)
	}

	assert.Equal(t, len(registry), 22)
}

func TestInsufficientHistoryHolds(t *testing.T) {
	candles := trendCandles(40, 100, 0.5)
	snapshot := market.Analyze(candles, market.DefaultContextConfig())
	cfg := DefaultConfig()

	// Ensure every strategy degrades to hold on a short window.
	for _, entry := range Registry() {
		op := entry.Eval(candles, snapshot, &cfg)
		assert.Equal(t, op.Direction, shared.Hold)
		assert.Equal(t, op.Strength, float64(0))
		assert.True(t, strings.Contains(op.Reason, "insufficient data"))
	}
}

func TestPivotLookbackExceedsHistory(t *testing.T) {
	// A lookback wider than the strategy minimum still validates.
	cfg := DefaultConfig()
	cfg.PivotLookback = 100
	assert.NoError(t, cfg.Validate())

	candles := trendCandles(80, 100, 0.5)
	snapshot := market.Analyze(candles, market.DefaultContextConfig())

	// Ensure the pivot strategies degrade to hold instead of slicing past
	// the available history.
	op := PivotReversion(candles, snapshot, &cfg)
	assert.Equal(t, op.Direction, shared.Hold)
	assert.True(t, strings.Contains(op.Reason, "insufficient data"))

	op = PivotBreakout(candles, snapshot, &cfg)
	assert.Equal(t, op.Direction, shared.Hold)
	assert.True(t, strings.Contains(op.Reason, "insufficient data"))
}

func TestFlatMarketHolds(t *testing.T) {
	candles := flatCandles(150)
	snapshot := market.Analyze(candles, market.DefaultContextConfig())
	cfg := DefaultConfig()

	// Ensure a featureless market produces no directional opinions.
	for _, entry := range Registry() {
		op := entry.Eval(candles, snapshot, &cfg)
		assert.Equal(t, op.Direction, shared.Hold)
	}
}

func TestOpinionStrengthBounds(t *testing.T) {
	candles := trendCandles(250, 100, 0.5)
	snapshot := market.Analyze(candles, market.DefaultContextConfig())
	cfg := DefaultConfig()

	// Ensure every opinion carries its strategy name and a bounded strength.
	for _, entry := range Registry() {
		op := entry.Eval(candles, snapshot, &cfg)
		assert.Equal(t, op.Strategy, entry.Name)
		assert.True(t, op.Strength >= 0 && op.Strength <= 1)
		assert.NotEqual(t, op.Reason, "")
	}
}

func TestTrendFollowersBuyTheUptrend(t *testing.T) {
	candles := trendCandles(250, 100, 0.5)
	snapshot := market.Analyze(candles, market.DefaultContextConfig())
	cfg := DefaultConfig()

	// Ensure the stacked ema alignment reads the uptrend.
	op := TripleEMAAlignment(candles, snapshot, &cfg)
	assert.Equal(t, op.Direction, shared.Buy)
	assert.GreaterThan(t, op.Strength, float64(0))

	// Ensure the directional index strategy agrees.
	op = ADXDirectional(candles, snapshot, &cfg)
	assert.Equal(t, op.Direction, shared.Buy)

	// Ensure the multi-timeframe view aligns bullishly.
	op = MTFAlignment(candles, snapshot, &cfg)
	assert.Equal(t, op.Direction, shared.Buy)

	// Ensure the regime momentum strategy rides the trending regime.
	op = RegimeMomentum(candles, snapshot, &cfg)
	assert.Equal(t, op.Direction, shared.Buy)
}

func TestReversionSuppressedInTrend(t *testing.T) {
	candles := trendCandles(250, 100, 0.5)
	snapshot := market.Analyze(candles, market.DefaultContextConfig())
	cfg := DefaultConfig()

	// Ensure mean reversion never fades a strongly trending market.
	for _, eval := range []Evaluator{BollingerRSIReversion, CCIReversion, StochRSIReversion, PivotReversion} {
		op := eval(candles, snapshot, &cfg)
		assert.Equal(t, op.Direction, shared.Hold)
		assert.True(t, strings.Contains(op.Reason, "suppressed"))
	}
}

func TestDonchianBreakout(t *testing.T) {
	// A tight range resolving with a decisive breakout bar at the end.
	candles := flatCandles(120)
	last := len(candles) - 1
	candles[last-1].Close = 100.3
	candles[last-1].High = 100.4
	candles[last].Close = 103
	candles[last].High = 103.2
	candles[last].Low = 100.2
	candles[last].Open = 100.3

	snapshot := market.Analyze(candles, market.DefaultContextConfig())
	cfg := DefaultConfig()

	// Ensure the fresh channel break with momentum is bought.
	op := DonchianBreakout(candles, snapshot, &cfg)
	assert.Equal(t, op.Direction, shared.Buy)
	assert.GreaterThan(t, op.Strength, float64(0))

	// Ensure a break without the consecutive bar gate holds.
	gated := flatCandles(120)
	gated[last].Close = 103
	gated[last].High = 103.2
	gated[last].Low = 100.2
	gated[last].Open = 100.3
	gatedSnapshot := market.Analyze(gated, market.DefaultContextConfig())

	op = DonchianBreakout(gated, gatedSnapshot, &cfg)
	assert.Equal(t, op.Direction, shared.Hold)
}
