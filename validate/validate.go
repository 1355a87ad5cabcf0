// Package validate implements direction-specific acceptance rules that
// convert raw indicator events into validated opinions. Every validator
// runs its checks in a fixed order — sufficient history, the qualifying
// event itself, a minimum magnitude floor, then directional consistency
// with short-horizon price action — and rejects with the reason of the
// first failing check.
package validate

import (
	"errors"
	"fmt"

	"github.com/dnldd/quorum/shared"
)

// Config parameterizes signal validation.
type Config struct {
	// MinCrossoverSeparation is the minimum fractional separation between
	// crossed lines for a crossover to qualify.
	MinCrossoverSeparation float64
	// SeparationNormalizer scales how quickly confidence grows past the
	// separation floor.
	SeparationNormalizer float64
	// MinBandPenetration is the minimum fraction of band width price must
	// penetrate for a band touch to qualify.
	MinBandPenetration float64
	// VolumeAveragePeriod is the lookback for the volume baseline.
	VolumeAveragePeriod int
	// MinVolumeSpikeRatio is the minimum volume over baseline ratio for a
	// spike to qualify.
	MinVolumeSpikeRatio float64
	// DivergenceLookback is the span over which price and indicator
	// extremes are compared.
	DivergenceLookback int
	// MinDivergenceMagnitude is the minimum indicator move for a
	// divergence to qualify.
	MinDivergenceMagnitude float64
}

// DefaultConfig returns the default validation parameters.
func DefaultConfig() Config {
	return Config{
		MinCrossoverSeparation: 0.001,
		SeparationNormalizer:   0.01,
		MinBandPenetration:     0.05,
		VolumeAveragePeriod:    20,
		MinVolumeSpikeRatio:    1.5,
		DivergenceLookback:     10,
		MinDivergenceMagnitude: 2,
	}
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.MinCrossoverSeparation < 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum crossover separation cannot be negative: %f", cfg.MinCrossoverSeparation))
	}
	if cfg.SeparationNormalizer <= 0 {
		errs = errors.Join(errs, fmt.Errorf("separation normalizer must be positive: %f", cfg.SeparationNormalizer))
	}
	if cfg.MinBandPenetration < 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum band penetration cannot be negative: %f", cfg.MinBandPenetration))
	}
	if cfg.VolumeAveragePeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("volume average period must be positive: %d", cfg.VolumeAveragePeriod))
	}
	if cfg.MinVolumeSpikeRatio <= 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum volume spike ratio must be positive: %f", cfg.MinVolumeSpikeRatio))
	}
	if cfg.DivergenceLookback <= 0 {
		errs = errors.Join(errs, fmt.Errorf("divergence lookback must be positive: %d", cfg.DivergenceLookback))
	}
	if cfg.MinDivergenceMagnitude < 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum divergence magnitude cannot be negative: %f", cfg.MinDivergenceMagnitude))
	}

	return errs
}

// reject builds a rejection result with the provided reason.
func reject(reason string) shared.ValidationResult {
	return shared.ValidationResult{Reason: reason}
}

// accept builds an acceptance result with the provided confidence and reason.
func accept(confidence float64, reason string) shared.ValidationResult {
	return shared.ValidationResult{
		Accepted:   true,
		Confidence: clampUnit(confidence),
		Reason:     reason,
	}
}

// clampUnit clamps the provided value to [0,1].
func clampUnit(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}
