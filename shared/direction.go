package shared

// Direction represents a directional trade opinion.
type Direction int

const (
	Hold Direction = iota
	Buy
	Sell
)

// String stringifies the provided direction.
func (d Direction) String() string {
	switch d {
	case Hold:
		return "hold"
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Opposite returns the opposing direction. Hold has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Buy:
		return Sell
	case Sell:
		return Buy
	default:
		return Hold
	}
}
