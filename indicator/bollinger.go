package indicator

import (
	"github.com/dnldd/quorum/shared"
)

// BollingerBands represents the upper, middle and lower volatility bands.
type BollingerBands struct {
	Upper  shared.Series
	Middle shared.Series
	Lower  shared.Series
}

// Bollinger computes rolling mean bands offset by the provided multiple of
// the rolling standard deviation.
func Bollinger(values []float64, period int, multiplier float64) BollingerBands {
	upper := shared.NewSeries(len(values))
	lower := shared.NewSeries(len(values))

	if period <= 0 || multiplier <= 0 {
		return BollingerBands{Upper: upper, Middle: shared.NewSeries(len(values)), Lower: lower}
	}

	middle := SMA(values, period)
	stddev := RollingStdDev(values, period)

	for idx := range values {
		if !middle.Valid(idx) || !stddev.Valid(idx) {
			continue
		}

		upper[idx] = middle[idx] + multiplier*stddev[idx]
		lower[idx] = middle[idx] - multiplier*stddev[idx]
	}

	return BollingerBands{Upper: upper, Middle: middle, Lower: lower}
}

// Bandwidth returns the band width at the provided index as a fraction of
// the middle band, and whether it is available.
func (b *BollingerBands) Bandwidth(idx int) (float64, bool) {
	if !b.Upper.Valid(idx) || !b.Lower.Valid(idx) || !b.Middle.Valid(idx) {
		return 0, false
	}

	if b.Middle[idx] == 0 {
		return 0, false
	}

	return (b.Upper[idx] - b.Lower[idx]) / b.Middle[idx], true
}
