package indicator

import (
	"testing"

	"github.com/dnldd/quorum/shared"
	"github.com/peterldowns/testy/assert"
)

// rangeCandles builds a window oscillating between a floor and ceiling so
// swing extremes repeat at both boundaries.
func rangeCandles(size int) []shared.Candlestick {
	candles := make([]shared.Candlestick, size)
	for idx := range candles {
		// An eight bar cycle with a unique peak and trough.
		phase := idx % 8
		var close float64
		switch {
		case phase < 4:
			close = 95 + float64(phase)*2.5
		default:
			close = 102.5 - float64(phase-3)*2.5
		}

		candles[idx] = shared.Candlestick{
			Open:  close,
			High:  close + 0.5,
			Low:   close - 0.5,
			Close: close,
		}
	}

	return candles
}

func TestDetectLevels(t *testing.T) {
	candles := rangeCandles(64)
	cfg := DefaultLevelConfig()

	levels := DetectLevels(candles, cfg)

	// Ensure the repeating cycle surfaces clustered levels on both sides.
	assert.GreaterThan(t, len(levels), 0)

	lastClose := candles[len(candles)-1].Close
	var supports, resistances int
	for idx := range levels {
		switch levels[idx].Kind {
		case Support:
			supports++
			assert.True(t, levels[idx].Price <= lastClose)
		case Resistance:
			resistances++
			assert.GreaterThan(t, levels[idx].Price, lastClose)
		}

		// Ensure every cluster counts at least one touch.
		assert.GreaterThan(t, levels[idx].Touches, 0)
	}

	// Ensure each side respects the configured cap.
	assert.LessThanOrEqual(t, supports, cfg.MaxLevels)
	assert.LessThanOrEqual(t, resistances, cfg.MaxLevels)

	// Ensure short windows yield no levels.
	assert.Nil(t, DetectLevels(candles[:5], cfg))
}

func TestNearestLevels(t *testing.T) {
	levels := []Level{
		{Price: 90, Kind: Support, Touches: 2},
		{Price: 95, Kind: Support, Touches: 1},
		{Price: 105, Kind: Resistance, Touches: 3},
		{Price: 110, Kind: Resistance, Touches: 1},
	}

	// Ensure the closest support below price wins.
	support, found := NearestSupport(levels, 100)
	assert.True(t, found)
	assert.Equal(t, support.Price, float64(95))

	// Ensure the closest resistance above price wins.
	resistance, found := NearestResistance(levels, 100)
	assert.True(t, found)
	assert.Equal(t, resistance.Price, float64(105))

	// Ensure missing sides report not found.
	_, found = NearestSupport(levels, 80)
	assert.False(t, found)
	_, found = NearestResistance(levels, 120)
	assert.False(t, found)
}

func TestClusterLevels(t *testing.T) {
	// Ensure prices inside the tolerance merge into one level with the
	// touches counted.
	levels := clusterLevels([]float64{100, 100.2, 100.4, 110}, 0.005)
	assert.Equal(t, len(levels), 2)
	assert.Equal(t, levels[0].Touches, 3)
	assert.Equal(t, levels[1].Touches, 1)
	assert.Equal(t, levels[1].Price, float64(110))

	// Ensure an empty input yields no levels.
	assert.Nil(t, clusterLevels(nil, 0.005))
}
