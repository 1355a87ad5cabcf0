package indicator

import (
	"math"

	"github.com/dnldd/quorum/shared"
)

// ADXResult represents the average directional index and its directional
// movement components.
type ADXResult struct {
	ADX     shared.Series
	PlusDI  shared.Series
	MinusDI shared.Series
}

// ADX computes the Wilder average directional index with DI+ and DI-
// components from the provided aligned highs, lows and closes.
func ADX(highs []float64, lows []float64, closes []float64, period int) ADXResult {
	length := min(len(highs), len(lows), len(closes))
	result := ADXResult{
		ADX:     shared.NewSeries(length),
		PlusDI:  shared.NewSeries(length),
		MinusDI: shared.NewSeries(length),
	}

	// The ADX recursion needs a directional movement window plus a second
	// smoothing window.
	if period <= 0 || length < 2*period {
		return result
	}

	plusDM := shared.NewSeries(length)
	minusDM := shared.NewSeries(length)
	for idx := 1; idx < length; idx++ {
		upMove := highs[idx] - highs[idx-1]
		downMove := lows[idx-1] - lows[idx]

		plusDM[idx], minusDM[idx] = 0, 0
		switch {
		case upMove > downMove && upMove > 0:
			plusDM[idx] = upMove
		case downMove > upMove && downMove > 0:
			minusDM[idx] = downMove
		}
	}

	trueRange := TrueRange(highs, lows, closes)
	trueRange[0] = math.NaN()

	smoothedTR := WilderSmooth(trueRange, period)
	smoothedPlus := WilderSmooth(plusDM, period)
	smoothedMinus := WilderSmooth(minusDM, period)

	dx := shared.NewSeries(length)
	for idx := range dx {
		if !smoothedTR.Valid(idx) || !smoothedPlus.Valid(idx) || !smoothedMinus.Valid(idx) {
			continue
		}

		if smoothedTR[idx] == 0 {
			continue
		}

		plusDI := 100 * smoothedPlus[idx] / smoothedTR[idx]
		minusDI := 100 * smoothedMinus[idx] / smoothedTR[idx]
		result.PlusDI[idx] = plusDI
		result.MinusDI[idx] = minusDI

		sum := plusDI + minusDI
		if sum == 0 {
			dx[idx] = 0
			continue
		}

		dx[idx] = 100 * math.Abs(plusDI-minusDI) / sum
	}

	result.ADX = WilderSmooth(dx, period)

	return result
}
