package shared

// Regime represents a qualitative classification of current market behavior.
type Regime int

const (
	QuietRegime Regime = iota
	RangingRegime
	TrendingRegime
	VolatileRegime
)

// String stringifies the provided regime.
func (r Regime) String() string {
	switch r {
	case QuietRegime:
		return "quiet"
	case RangingRegime:
		return "ranging"
	case TrendingRegime:
		return "trending"
	case VolatileRegime:
		return "volatile"
	default:
		return "unknown"
	}
}
