package validate

import (
	"fmt"
	"math"

	"github.com/dnldd/quorum/shared"
)

// Crossover validates a directional cross of the fast line over the slow
// line at the provided index.
func Crossover(fast shared.Series, slow shared.Series, closes []float64, idx int, direction shared.Direction, cfg Config) shared.ValidationResult {
	if idx < 1 || !fast.Valid(idx) || !fast.Valid(idx-1) || !slow.Valid(idx) || !slow.Valid(idx-1) {
		return reject("insufficient history for crossover validation")
	}

	var crossed bool
	switch direction {
	case shared.Buy:
		crossed = fast[idx-1] <= slow[idx-1] && fast[idx] > slow[idx]
	case shared.Sell:
		crossed = fast[idx-1] >= slow[idx-1] && fast[idx] < slow[idx]
	default:
		return reject("no direction proposed for crossover validation")
	}

	if !crossed {
		return reject(fmt.Sprintf("no %s crossover at current bar", direction.String()))
	}

	if slow[idx] == 0 {
		return reject("slow line at zero, separation undefined")
	}

	separation := math.Abs(fast[idx]-slow[idx]) / math.Abs(slow[idx])
	if separation < cfg.MinCrossoverSeparation {
		return reject(fmt.Sprintf("crossover separation %.5f below minimum %.5f",
			separation, cfg.MinCrossoverSeparation))
	}

	if !priceConfirms(closes, idx, direction) {
		return reject(fmt.Sprintf("short-horizon price action opposes %s crossover", direction.String()))
	}

	confidence := 0.5 + (separation-cfg.MinCrossoverSeparation)/cfg.SeparationNormalizer
	return accept(confidence, fmt.Sprintf("%s crossover with %.5f separation", direction.String(), separation))
}

// priceConfirms reports whether the last close moved in the proposed
// direction.
func priceConfirms(closes []float64, idx int, direction shared.Direction) bool {
	if idx < 1 || idx >= len(closes) {
		return false
	}

	switch direction {
	case shared.Buy:
		return closes[idx] >= closes[idx-1]
	case shared.Sell:
		return closes[idx] <= closes[idx-1]
	default:
		return false
	}
}
