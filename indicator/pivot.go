package indicator

// PivotPoints represents classic floor-trader pivot levels derived from a
// prior period's high, low and close.
type PivotPoints struct {
	Pivot       float64
	Resistance1 float64
	Resistance2 float64
	Support1    float64
	Support2    float64
}

// Pivots computes classic pivot levels from the provided prior period
// high, low and close.
func Pivots(high float64, low float64, close float64) PivotPoints {
	pivot := (high + low + close) / 3

	return PivotPoints{
		Pivot:       pivot,
		Resistance1: 2*pivot - low,
		Resistance2: pivot + (high - low),
		Support1:    2*pivot - high,
		Support2:    pivot - (high - low),
	}
}

// PivotsFromWindow computes pivot levels from the high, low and final close
// of the provided window of aligned highs, lows and closes.
func PivotsFromWindow(highs []float64, lows []float64, closes []float64) (PivotPoints, bool) {
	length := min(len(highs), len(lows), len(closes))
	if length == 0 {
		return PivotPoints{}, false
	}

	high := highs[0]
	low := lows[0]
	for idx := 1; idx < length; idx++ {
		if highs[idx] > high {
			high = highs[idx]
		}
		if lows[idx] < low {
			low = lows[idx]
		}
	}

	return Pivots(high, low, closes[length-1]), true
}
