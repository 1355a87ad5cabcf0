package shared

import "math"

// Series represents an ordered sequence of derived values aligned
// index-for-index with the candlestick sequence it was computed from.
// Positions inside an indicator's warm-up period hold the unavailable
// marker rather than zero.
type Series []float64

// NewSeries initializes a series of the provided length with every
// position marked unavailable.
func NewSeries(length int) Series {
	series := make(Series, length)
	for idx := range series {
		series[idx] = math.NaN()
	}

	return series
}

// Unavailable reports whether the provided value is the warm-up marker.
func Unavailable(value float64) bool {
	return math.IsNaN(value)
}

// Valid reports whether the series holds a computed value at the provided index.
func (s Series) Valid(idx int) bool {
	if idx < 0 || idx >= len(s) {
		return false
	}

	return !math.IsNaN(s[idx])
}

// Last returns the final value of the series and whether it is available.
func (s Series) Last() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}

	value := s[len(s)-1]
	return value, !math.IsNaN(value)
}

// At returns the value at the provided index and whether it is available.
func (s Series) At(idx int) (float64, bool) {
	if idx < 0 || idx >= len(s) {
		return 0, false
	}

	value := s[idx]
	return value, !math.IsNaN(value)
}

// FirstValidIndex returns the index of the first computed value in the
// series, or -1 when the series has no computed values.
func (s Series) FirstValidIndex() int {
	for idx := range s {
		if !math.IsNaN(s[idx]) {
			return idx
		}
	}

	return -1
}
