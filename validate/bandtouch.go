package validate

import (
	"fmt"

	"github.com/dnldd/quorum/shared"
)

// BandTouch validates a touch of the outer volatility band in the provided
// direction at the provided index. A buy qualifies at the lower band, a
// sell at the upper band.
func BandTouch(upper shared.Series, lower shared.Series, closes []float64, idx int, direction shared.Direction, cfg Config) shared.ValidationResult {
	if idx < 1 || idx >= len(closes) || !upper.Valid(idx) || !lower.Valid(idx) {
		return reject("insufficient history for band touch validation")
	}

	width := upper[idx] - lower[idx]
	if width <= 0 {
		return reject("degenerate band width")
	}

	var penetration float64
	switch direction {
	case shared.Buy:
		if closes[idx] > lower[idx] {
			return reject("no lower band touch at current bar")
		}
		penetration = (lower[idx] - closes[idx]) / width
	case shared.Sell:
		if closes[idx] < upper[idx] {
			return reject("no upper band touch at current bar")
		}
		penetration = (closes[idx] - upper[idx]) / width
	default:
		return reject("no direction proposed for band touch validation")
	}

	if penetration < cfg.MinBandPenetration {
		return reject(fmt.Sprintf("band penetration %.4f below minimum %.4f",
			penetration, cfg.MinBandPenetration))
	}

	// A touch qualifies when short-horizon price action stretched into the
	// band, a buy needs a decline into the lower band and a sell a rally
	// into the upper band.
	if !priceConfirms(closes, idx, direction.Opposite()) {
		return reject(fmt.Sprintf("no short-horizon stretch into the band for %s touch", direction.String()))
	}

	confidence := 0.5 + (penetration-cfg.MinBandPenetration)*2
	return accept(confidence, fmt.Sprintf("%s band touch with %.4f penetration", direction.String(), penetration))
}
