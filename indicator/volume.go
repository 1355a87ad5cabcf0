package indicator

import (
	"math"

	"github.com/dnldd/quorum/shared"
)

// VWAP computes the cumulative volume weighted average price of the
// provided candlesticks. Positions before any volume has printed are
// unavailable.
func VWAP(candles []shared.Candlestick) shared.Series {
	series := shared.NewSeries(len(candles))

	var typicalPriceVolume, volume float64
	for idx := range candles {
		typicalPrice := (candles[idx].High + candles[idx].Low + candles[idx].Close) / 3
		typicalPriceVolume += typicalPrice * candles[idx].Volume
		volume += candles[idx].Volume

		if volume == 0 {
			continue
		}

		series[idx] = typicalPriceVolume / volume
	}

	return series
}

// AccumulationDistribution computes the cumulative accumulation and
// distribution flow of the provided candlesticks.
func AccumulationDistribution(candles []shared.Candlestick) shared.Series {
	series := shared.NewSeries(len(candles))

	var flow float64
	for idx := range candles {
		candleRange := candles[idx].High - candles[idx].Low
		if candleRange > 0 {
			multiplier := ((candles[idx].Close - candles[idx].Low) -
				(candles[idx].High - candles[idx].Close)) / candleRange
			flow += multiplier * candles[idx].Volume
		}

		series[idx] = flow
	}

	return series
}

// HasVolume reports whether the provided candlesticks carry any volume data.
func HasVolume(candles []shared.Candlestick) bool {
	for idx := range candles {
		if candles[idx].Volume > 0 {
			return true
		}
	}

	return false
}

// SynthesizeVolume derives a volatility based volume proxy for candlesticks
// missing volume data, so volume dependent measures can still rank activity
// between bars.
func SynthesizeVolume(candles []shared.Candlestick) []shared.Candlestick {
	synthesized := make([]shared.Candlestick, len(candles))
	copy(synthesized, candles)

	for idx := range synthesized {
		if synthesized[idx].Volume > 0 {
			continue
		}

		if synthesized[idx].Close <= 0 {
			continue
		}

		spread := synthesized[idx].High - synthesized[idx].Low
		body := math.Abs(synthesized[idx].Close - synthesized[idx].Open)
		synthesized[idx].Volume = (spread + body) / synthesized[idx].Close * 1e6
	}

	return synthesized
}
