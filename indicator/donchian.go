package indicator

import (
	"math"

	"github.com/dnldd/quorum/shared"
)

// DonchianChannel represents the highest-high, midpoint and lowest-low
// channel over a lookback period.
type DonchianChannel struct {
	Upper  shared.Series
	Middle shared.Series
	Lower  shared.Series
}

// Donchian computes the Donchian channel of the provided aligned highs and
// lows. The channel at an index covers the window ending at that index.
func Donchian(highs []float64, lows []float64, period int) DonchianChannel {
	length := min(len(highs), len(lows))
	channel := DonchianChannel{
		Upper:  shared.NewSeries(length),
		Middle: shared.NewSeries(length),
		Lower:  shared.NewSeries(length),
	}

	if period <= 0 || length < period {
		return channel
	}

	for idx := period - 1; idx < length; idx++ {
		upper := math.Inf(-1)
		lower := math.Inf(1)
		for widx := idx - period + 1; widx <= idx; widx++ {
			upper = math.Max(upper, highs[widx])
			lower = math.Min(lower, lows[widx])
		}

		channel.Upper[idx] = upper
		channel.Lower[idx] = lower
		channel.Middle[idx] = (upper + lower) / 2
	}

	return channel
}
