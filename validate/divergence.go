package validate

import (
	"fmt"
	"math"

	"github.com/dnldd/quorum/shared"
)

// Divergence validates a price versus indicator divergence in the proposed
// direction at the provided index. A buy qualifies on a bullish divergence
// (price lower, indicator higher over the lookback), a sell on a bearish one.
func Divergence(values shared.Series, closes []float64, idx int, direction shared.Direction, cfg Config) shared.ValidationResult {
	lookback := cfg.DivergenceLookback
	if idx < lookback || idx >= len(closes) || !values.Valid(idx) || !values.Valid(idx-lookback) {
		return reject("insufficient history for divergence validation")
	}

	priceDelta := closes[idx] - closes[idx-lookback]
	indicatorDelta := values[idx] - values[idx-lookback]

	var diverged bool
	switch direction {
	case shared.Buy:
		diverged = priceDelta < 0 && indicatorDelta > 0
	case shared.Sell:
		diverged = priceDelta > 0 && indicatorDelta < 0
	default:
		return reject("no direction proposed for divergence validation")
	}

	if !diverged {
		return reject(fmt.Sprintf("no %s divergence over lookback", direction.String()))
	}

	magnitude := math.Abs(indicatorDelta)
	if magnitude < cfg.MinDivergenceMagnitude {
		return reject(fmt.Sprintf("divergence magnitude %.3f below minimum %.3f",
			magnitude, cfg.MinDivergenceMagnitude))
	}

	if !priceConfirms(closes, idx, direction) {
		return reject(fmt.Sprintf("short-horizon price action opposes %s divergence", direction.String()))
	}

	confidence := 0.5 + (magnitude-cfg.MinDivergenceMagnitude)/(4*cfg.MinDivergenceMagnitude)
	return accept(confidence, fmt.Sprintf("%s divergence with %.3f indicator swing", direction.String(), magnitude))
}
