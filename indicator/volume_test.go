package indicator

import (
	"testing"

	"github.com/dnldd/quorum/shared"
	"github.com/peterldowns/testy/assert"
)

func TestVWAP(t *testing.T) {
	candles := []shared.Candlestick{
		{High: 12, Low: 8, Close: 10, Volume: 100},
		{High: 22, Low: 18, Close: 20, Volume: 100},
	}

	series := VWAP(candles)

	// Ensure the first reading is the typical price of the first bar.
	assert.Equal(t, series[0], float64(10))

	// Ensure equal volumes average the typical prices.
	assert.Equal(t, series[1], float64(15))

	// Ensure bars before any volume are unavailable.
	quiet := VWAP([]shared.Candlestick{{High: 12, Low: 8, Close: 10}})
	assert.False(t, quiet.Valid(0))
}

func TestAccumulationDistribution(t *testing.T) {
	candles := []shared.Candlestick{
		// Close at the high accumulates the full volume.
		{High: 11, Low: 9, Close: 11, Volume: 100},
		// Close at the low distributes the full volume.
		{High: 11, Low: 9, Close: 9, Volume: 50},
	}

	series := AccumulationDistribution(candles)

	assert.Equal(t, series[0], float64(100))
	assert.Equal(t, series[1], float64(50))
}

func TestHasVolume(t *testing.T) {
	// Ensure any positive volume qualifies.
	assert.True(t, HasVolume([]shared.Candlestick{{Volume: 0}, {Volume: 5}}))
	assert.False(t, HasVolume([]shared.Candlestick{{Volume: 0}, {Volume: 0}}))
}

func TestSynthesizeVolume(t *testing.T) {
	candles := []shared.Candlestick{
		{Open: 100, High: 102, Low: 98, Close: 101},
		{Open: 101, High: 103, Low: 99, Close: 100, Volume: 500},
	}

	synthesized := SynthesizeVolume(candles)

	// Ensure missing volume is replaced with a volatility proxy.
	assert.GreaterThan(t, synthesized[0].Volume, float64(0))

	// Ensure existing volume is untouched.
	assert.Equal(t, synthesized[1].Volume, float64(500))

	// Ensure the input candles are not mutated.
	assert.Equal(t, candles[0].Volume, float64(0))
}
