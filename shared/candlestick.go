package shared

import (
	"time"
)

// DateLayout is the wire date format for daily candlestick data.
const DateLayout = "2006-01-02"

// Candlestick represents a unit candlestick for a market.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Market is the symbol the candlestick belongs to.
	Market string
}

// Sentiment represents the candlestick sentiment.
type Sentiment int

const (
	Neutral Sentiment = iota
	Bullish
	Bearish
)

// String stringifies the provided sentiment.
func (s Sentiment) String() string {
	switch s {
	case Neutral:
		return "neutral"
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "unknown"
	}
}

// FetchSentiment returns the provided candlestick's sentiment.
func (c *Candlestick) FetchSentiment() Sentiment {
	sentiment := c.Close - c.Open
	switch {
	case sentiment < 0:
		return Bearish
	case sentiment > 0:
		return Bullish
	default:
		return Neutral
	}
}

// Closes extracts the close series from the provided candlesticks.
func Closes(candles []Candlestick) []float64 {
	series := make([]float64, len(candles))
	for idx := range candles {
		series[idx] = candles[idx].Close
	}

	return series
}

// Highs extracts the high series from the provided candlesticks.
func Highs(candles []Candlestick) []float64 {
	series := make([]float64, len(candles))
	for idx := range candles {
		series[idx] = candles[idx].High
	}

	return series
}

// Lows extracts the low series from the provided candlesticks.
func Lows(candles []Candlestick) []float64 {
	series := make([]float64, len(candles))
	for idx := range candles {
		series[idx] = candles[idx].Low
	}

	return series
}

// Opens extracts the open series from the provided candlesticks.
func Opens(candles []Candlestick) []float64 {
	series := make([]float64, len(candles))
	for idx := range candles {
		series[idx] = candles[idx].Open
	}

	return series
}

// Volumes extracts the volume series from the provided candlesticks.
func Volumes(candles []Candlestick) []float64 {
	series := make([]float64, len(candles))
	for idx := range candles {
		series[idx] = candles[idx].Volume
	}

	return series
}

// NormalizeCandles fills in proxy values for candlesticks missing opens.
// A missing open is substituted with the prior close, the first open
// defaulting to its own close.
func NormalizeCandles(candles []Candlestick) []Candlestick {
	normalized := make([]Candlestick, len(candles))
	copy(normalized, candles)

	for idx := range normalized {
		if normalized[idx].Open != 0 {
			continue
		}

		switch idx {
		case 0:
			normalized[idx].Open = normalized[idx].Close
		default:
			normalized[idx].Open = normalized[idx-1].Close
		}
	}

	return normalized
}

// ConsecutiveBars returns the count of consecutive same-direction closes
// ending at the last candle. The count is positive for rising closes and
// negative for falling ones.
func ConsecutiveBars(candles []Candlestick) int {
	if len(candles) < 2 {
		return 0
	}

	var count int
	for idx := len(candles) - 1; idx > 0; idx-- {
		diff := candles[idx].Close - candles[idx-1].Close
		switch {
		case diff > 0 && count >= 0:
			count++
		case diff < 0 && count <= 0:
			count--
		default:
			return count
		}
	}

	return count
}
