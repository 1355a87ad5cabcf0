// Package consensus aggregates strategy opinions into a single decision.
// One evaluation cycle walks a fixed sequence of phases, collecting every
// strategy opinion, filtering them into a vote, scoring the majority side
// and applying the decision gates, and emits zero or one trade decision.
package consensus

import (
	"errors"
	"fmt"

	"github.com/dnldd/quorum/market"
	"github.com/dnldd/quorum/position"
	"github.com/dnldd/quorum/strategy"
	"github.com/rs/zerolog"
)

// QualityWeights carries the point budget of every quality factor. The
// weights sum to the quality scale, and a factor contributes either its
// full weight or nothing.
type QualityWeights struct {
	// TrendAlignment rewards the context trend agreeing with the direction.
	TrendAlignment float64
	// Momentum rewards short-horizon price movement in the direction.
	Momentum float64
	// VolumeConfirmation rewards above average volume on the final bar.
	VolumeConfirmation float64
	// VolatilityBand rewards the volatility ratio sitting in the
	// acceptable band.
	VolatilityBand float64
	// OscillatorPosition rewards the RSI sitting in the favorable zone.
	OscillatorPosition float64
	// LevelProximity rewards a nearby level backing the direction.
	LevelProximity float64
	// ConsecutiveBars rewards consecutive same-direction closes.
	ConsecutiveBars float64
}

// qualityScale is the total point budget quality factors normalize against.
const qualityScale = float64(100)

// DefaultQualityWeights returns the default quality factor point budget.
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		TrendAlignment:     20,
		Momentum:           15,
		VolumeConfirmation: 15,
		VolatilityBand:     15,
		OscillatorPosition: 10,
		LevelProximity:     15,
		ConsecutiveBars:    10,
	}
}

// total sums the quality factor point budget.
func (w *QualityWeights) total() float64 {
	return w.TrendAlignment + w.Momentum + w.VolumeConfirmation + w.VolatilityBand +
		w.OscillatorPosition + w.LevelProximity + w.ConsecutiveBars
}

// Config parameterizes the consensus engine.
type Config struct {
	// Strategy parameterizes the strategy evaluators.
	Strategy strategy.Config
	// Context parameterizes market context analysis.
	Context market.ContextConfig
	// Sizer parameterizes position sizing.
	Sizer position.SizerConfig

	// AcceptanceFloor is the minimum opinion strength admitted to the
	// vote. It is intentionally lower than the final confidence floor so
	// the vote hears more opinions than the engine acts on.
	AcceptanceFloor float64
	// FinalConfidenceFloor is the minimum weighted confidence to approve
	// a decision.
	FinalConfidenceFloor float64
	// QualityFloor is the minimum quality score to approve a decision.
	QualityFloor float64
	// MinVotes is the minimum number of supporting votes to approve a
	// decision.
	MinVotes uint32
	// BaseWeight is the vote weight of a regular strategy.
	BaseWeight float64
	// EnhancedWeight is the vote weight of an enhanced strategy.
	EnhancedWeight float64
	// MTFBonus is the additive confidence bonus when the multi-timeframe
	// view aligns with the majority direction. It never gates a decision.
	MTFBonus float64
	// ExtremeVolatilityRatio is the volatility ratio at or above which the
	// engine refuses to trade.
	ExtremeVolatilityRatio float64
	// VolatilityBandLow and VolatilityBandHigh bound the acceptable
	// volatility ratio for quality scoring.
	VolatilityBandLow  float64
	VolatilityBandHigh float64
	// LevelQualityPercent is the fractional distance within which a
	// backing level earns quality points.
	LevelQualityPercent float64
	// Quality is the quality factor point budget.
	Quality QualityWeights

	// Logger represents the engine logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the default consensus parameters.
func DefaultConfig() Config {
	return Config{
		Strategy: strategy.DefaultConfig(),
		Context:  market.DefaultContextConfig(),
		Sizer:    position.DefaultSizerConfig(),

		AcceptanceFloor:        0.3,
		FinalConfidenceFloor:   0.55,
		QualityFloor:           0.5,
		MinVotes:               3,
		BaseWeight:             1,
		EnhancedWeight:         1.5,
		MTFBonus:               0.1,
		ExtremeVolatilityRatio: 2.5,
		VolatilityBandLow:      0.5,
		VolatilityBandHigh:     1.8,
		LevelQualityPercent:    0.03,
		Quality:                DefaultQualityWeights(),
	}
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	unitBounds := map[string]float64{
		"acceptance floor":       cfg.AcceptanceFloor,
		"final confidence floor": cfg.FinalConfidenceFloor,
		"quality floor":          cfg.QualityFloor,
		"mtf bonus":              cfg.MTFBonus,
	}
	for name, value := range unitBounds {
		if value < 0 || value > 1 {
			errs = errors.Join(errs, fmt.Errorf("%s must be within [0,1]: %f", name, value))
		}
	}

	if cfg.AcceptanceFloor > cfg.FinalConfidenceFloor {
		errs = errors.Join(errs, fmt.Errorf("acceptance floor must not exceed the final confidence floor: %f > %f",
			cfg.AcceptanceFloor, cfg.FinalConfidenceFloor))
	}
	if cfg.MinVotes == 0 {
		errs = errors.Join(errs, fmt.Errorf("minimum votes must be at least 1"))
	}
	if cfg.BaseWeight <= 0 {
		errs = errors.Join(errs, fmt.Errorf("base weight must be positive: %f", cfg.BaseWeight))
	}
	if cfg.EnhancedWeight < cfg.BaseWeight {
		errs = errors.Join(errs, fmt.Errorf("enhanced weight must not be below the base weight: %f < %f",
			cfg.EnhancedWeight, cfg.BaseWeight))
	}
	if cfg.ExtremeVolatilityRatio <= 0 {
		errs = errors.Join(errs, fmt.Errorf("extreme volatility ratio must be positive: %f", cfg.ExtremeVolatilityRatio))
	}
	if cfg.VolatilityBandLow < 0 || cfg.VolatilityBandHigh <= cfg.VolatilityBandLow {
		errs = errors.Join(errs, fmt.Errorf("volatility band must be ordered and non-negative: [%f, %f]",
			cfg.VolatilityBandLow, cfg.VolatilityBandHigh))
	}
	if cfg.LevelQualityPercent <= 0 {
		errs = errors.Join(errs, fmt.Errorf("level quality percent must be positive: %f", cfg.LevelQualityPercent))
	}
	if cfg.Quality.total() != qualityScale {
		errs = errors.Join(errs, fmt.Errorf("quality weights must total %.0f points: %f",
			qualityScale, cfg.Quality.total()))
	}

	if err := cfg.Strategy.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}
	if err := cfg.Context.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}
	if err := cfg.Sizer.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}
