// Package position derives sized order intents from approved decisions
// under a fixed fractional risk rule.
package position

import (
	"errors"
	"fmt"
	"math"

	"github.com/dnldd/quorum/indicator"
	"github.com/dnldd/quorum/shared"
)

// SizerConfig parameterizes position sizing.
type SizerConfig struct {
	// AccountEquity is the account equity the risk budget derives from.
	AccountEquity float64
	// RiskFraction is the fraction of equity risked per trade.
	RiskFraction float64
	// EntryOffsetPercent is the fractional entry offset from the latest
	// close in the trade direction.
	EntryOffsetPercent float64
	// StopATRMultiple is the default stop distance in ATR multiples.
	StopATRMultiple float64
	// MinStopPercent is the tightest acceptable stop as a fraction of price.
	MinStopPercent float64
	// MaxStopPercent is the widest acceptable stop as a fraction of price.
	MaxStopPercent float64
	// MinQualityMultiplier and MaxQualityMultiplier bound the quality
	// derived risk budget scaling.
	MinQualityMultiplier float64
	MaxQualityMultiplier float64
}

// DefaultSizerConfig returns the default sizing parameters.
func DefaultSizerConfig() SizerConfig {
	return SizerConfig{
		AccountEquity:        100000,
		RiskFraction:         0.01,
		EntryOffsetPercent:   0.001,
		StopATRMultiple:      1.5,
		MinStopPercent:       0.005,
		MaxStopPercent:       0.05,
		MinQualityMultiplier: 0.5,
		MaxQualityMultiplier: 1.5,
	}
}

// Validate asserts the config has sane inputs.
func (cfg *SizerConfig) Validate() error {
	var errs error

	if cfg.AccountEquity <= 0 {
		errs = errors.Join(errs, fmt.Errorf("account equity must be positive: %f", cfg.AccountEquity))
	}
	if cfg.RiskFraction <= 0 || cfg.RiskFraction > 1 {
		errs = errors.Join(errs, fmt.Errorf("risk fraction must be within (0,1]: %f", cfg.RiskFraction))
	}
	if cfg.EntryOffsetPercent < 0 {
		errs = errors.Join(errs, fmt.Errorf("entry offset percent cannot be negative: %f", cfg.EntryOffsetPercent))
	}
	if cfg.StopATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("stop atr multiple must be positive: %f", cfg.StopATRMultiple))
	}
	if cfg.MinStopPercent <= 0 || cfg.MaxStopPercent <= cfg.MinStopPercent {
		errs = errors.Join(errs, fmt.Errorf("stop percent band must be ordered and positive: [%f, %f]",
			cfg.MinStopPercent, cfg.MaxStopPercent))
	}
	if cfg.MinQualityMultiplier <= 0 || cfg.MaxQualityMultiplier < cfg.MinQualityMultiplier {
		errs = errors.Join(errs, fmt.Errorf("quality multiplier band must be ordered and positive: [%f, %f]",
			cfg.MinQualityMultiplier, cfg.MaxQualityMultiplier))
	}

	return errs
}

// Size derives a sized order intent from the provided decision, latest
// close, volatility measure and detected levels.
func Size(decision shared.Decision, lastClose float64, atr float64, levels []indicator.Level, cfg SizerConfig) (shared.OrderIntent, error) {
	if decision.Direction == shared.Hold {
		return shared.OrderIntent{}, fmt.Errorf("cannot size a hold decision")
	}
	if lastClose <= 0 {
		return shared.OrderIntent{}, fmt.Errorf("cannot size against a degenerate price: %f", lastClose)
	}

	var entry float64
	switch decision.Direction {
	case shared.Buy:
		entry = lastClose * (1 + cfg.EntryOffsetPercent)
	case shared.Sell:
		entry = lastClose * (1 - cfg.EntryOffsetPercent)
	}

	// Default stop distance follows volatility, a degenerate ATR falls
	// back to the tightest acceptable stop.
	stop := cfg.StopATRMultiple * atr
	if stop <= 0 {
		stop = cfg.MinStopPercent * entry
	}

	// A qualifying level replaces the volatility stop when its distance
	// sits inside the acceptable band, neither too tight nor implausibly
	// wide.
	if levelStop, ok := levelStopDistance(decision.Direction, entry, levels); ok {
		if levelStop >= cfg.MinStopPercent*entry && levelStop <= cfg.MaxStopPercent*entry {
			stop = levelStop
		}
	}

	multiplier := cfg.MinQualityMultiplier +
		(cfg.MaxQualityMultiplier-cfg.MinQualityMultiplier)*decision.QualityScore
	riskBudget := cfg.AccountEquity * cfg.RiskFraction * multiplier

	quantity := int64(math.Floor(riskBudget / stop))
	if quantity < 1 {
		quantity = 1
	}

	return shared.OrderIntent{
		EntryPrice:   entry,
		StopDistance: stop,
		Quantity:     quantity,
	}, nil
}

// levelStopDistance returns the distance to the nearest backing level for
// the provided direction.
func levelStopDistance(direction shared.Direction, entry float64, levels []indicator.Level) (float64, bool) {
	switch direction {
	case shared.Buy:
		support, found := indicator.NearestSupport(levels, entry)
		if !found {
			return 0, false
		}
		return entry - support.Price, true
	case shared.Sell:
		resistance, found := indicator.NearestResistance(levels, entry)
		if !found {
			return 0, false
		}
		return resistance.Price - entry, true
	default:
		return 0, false
	}
}
