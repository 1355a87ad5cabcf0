package validate

import (
	"fmt"

	"github.com/dnldd/quorum/shared"
)

// VolumeSpike validates a volume spike supporting the proposed direction at
// the provided index.
func VolumeSpike(volumes []float64, closes []float64, idx int, direction shared.Direction, cfg Config) shared.ValidationResult {
	if idx < cfg.VolumeAveragePeriod || idx >= len(volumes) || idx >= len(closes) {
		return reject("insufficient history for volume spike validation")
	}

	// Baseline excludes the bar under evaluation.
	var sum float64
	for widx := idx - cfg.VolumeAveragePeriod; widx < idx; widx++ {
		sum += volumes[widx]
	}
	baseline := sum / float64(cfg.VolumeAveragePeriod)
	if baseline <= 0 {
		return reject("degenerate volume baseline")
	}

	ratio := volumes[idx] / baseline
	if ratio <= 1 {
		return reject("no volume spike at current bar")
	}

	if ratio < cfg.MinVolumeSpikeRatio {
		return reject(fmt.Sprintf("volume spike ratio %.2f below minimum %.2f",
			ratio, cfg.MinVolumeSpikeRatio))
	}

	if !priceConfirms(closes, idx, direction) {
		return reject(fmt.Sprintf("short-horizon price action opposes %s volume spike", direction.String()))
	}

	confidence := 0.5 + (ratio-cfg.MinVolumeSpikeRatio)/cfg.MinVolumeSpikeRatio
	return accept(confidence, fmt.Sprintf("%s volume spike at %.2fx average", direction.String(), ratio))
}
