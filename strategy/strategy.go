// Package strategy implements the independent strategy evaluators. Each
// evaluator consumes a candlestick window plus the market context snapshot
// and produces a single directional opinion. Evaluators guard their own
// minimum history and degrade to hold, never failing, when the window is
// too short or an input is degenerate.
package strategy

import (
	"errors"
	"fmt"

	"github.com/dnldd/quorum/indicator"
	"github.com/dnldd/quorum/market"
	"github.com/dnldd/quorum/shared"
	"github.com/dnldd/quorum/validate"
)

// Evaluator turns a candlestick window and context snapshot into an opinion.
type Evaluator func(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion

// Entry represents a registered strategy.
type Entry struct {
	// Name is the registry key for the strategy.
	Name string
	// Enhanced marks strategies that receive a higher consensus weight.
	Enhanced bool
	// MinBars is the minimum candlestick history the strategy needs.
	MinBars int
	// Eval is the strategy evaluator.
	Eval Evaluator
}

// Config parameterizes every strategy evaluator. All thresholds are
// explicit so per-market runs and parameterized tests never share ambient
// state.
type Config struct {
	// FastEMAPeriod is the fast EMA lookback.
	FastEMAPeriod int
	// MidEMAPeriod is the intermediate EMA lookback.
	MidEMAPeriod int
	// SlowEMAPeriod is the slow EMA lookback.
	SlowEMAPeriod int
	// MinEMASeparation is the minimum fractional EMA spread for alignment reads.
	MinEMASeparation float64

	// RSIPeriod is the RSI lookback.
	RSIPeriod int
	// RSIOverbought is the overbought RSI floor.
	RSIOverbought float64
	// RSIOversold is the oversold RSI ceiling.
	RSIOversold float64

	// MACDFastPeriod, MACDSlowPeriod and MACDSignalPeriod parameterize MACD.
	MACDFastPeriod   int
	MACDSlowPeriod   int
	MACDSignalPeriod int

	// BollingerPeriod and BollingerMultiplier parameterize the bands.
	BollingerPeriod     int
	BollingerMultiplier float64

	// ATRPeriod is the average true range lookback.
	ATRPeriod int
	// BreakoutATRMultiple is the minimum ATR multiple a breakout must
	// clear beyond its threshold.
	BreakoutATRMultiple float64
	// ThrustATRMultiple is the minimum single-bar move, in ATR multiples,
	// for a thrust breakout.
	ThrustATRMultiple float64
	// MinConsecutiveBars is the momentum gate for breakout strategies.
	MinConsecutiveBars int

	// ADXPeriod is the directional index lookback.
	ADXPeriod int
	// ADXStrongTrend is the ADX level above which a trend is strong.
	ADXStrongTrend float64
	// MinDIMargin is the minimum DI+ over DI- margin for a directional read.
	MinDIMargin float64

	// CCIPeriod is the commodity channel index lookback.
	CCIPeriod int
	// CCIExtreme is the CCI magnitude past which price is stretched.
	CCIExtreme float64

	// DonchianPeriod is the channel lookback.
	DonchianPeriod int

	// StochRSIPeriod, StochRSIKSmooth and StochRSIDSmooth parameterize the
	// stochastic RSI oscillator.
	StochRSIPeriod  int
	StochRSIKSmooth int
	StochRSIDSmooth int
	// StochRSIOverbought and StochRSIOversold are the oscillator extremes.
	StochRSIOverbought float64
	StochRSIOversold   float64

	// PivotLookback is the window pivots are derived from.
	PivotLookback int
	// LevelProximityPercent is the fractional distance within which price
	// is considered at a level.
	LevelProximityPercent float64

	// MTFFactor is the downsampling factor for the higher timeframe view.
	MTFFactor int

	// RegimeConfidenceFloor is the minimum regime confidence for regime
	// gated strategies.
	RegimeConfidenceFloor float64

	// FlowLookback is the span over which accumulation/distribution slope
	// is measured.
	FlowLookback int

	// Levels parameterizes support and resistance detection.
	Levels indicator.LevelConfig
	// Validation parameterizes signal validation.
	Validation validate.Config
}

// DefaultConfig returns the default strategy parameters.
func DefaultConfig() Config {
	return Config{
		FastEMAPeriod:    9,
		MidEMAPeriod:     21,
		SlowEMAPeriod:    50,
		MinEMASeparation: 0.001,

		RSIPeriod:     14,
		RSIOverbought: 70,
		RSIOversold:   30,

		MACDFastPeriod:   12,
		MACDSlowPeriod:   26,
		MACDSignalPeriod: 9,

		BollingerPeriod:     20,
		BollingerMultiplier: 2,

		ATRPeriod:           14,
		BreakoutATRMultiple: 0.25,
		ThrustATRMultiple:   1.5,
		MinConsecutiveBars:  2,

		ADXPeriod:      14,
		ADXStrongTrend: 25,
		MinDIMargin:    2,

		CCIPeriod:  20,
		CCIExtreme: 100,

		DonchianPeriod: 20,

		StochRSIPeriod:     14,
		StochRSIKSmooth:    3,
		StochRSIDSmooth:    3,
		StochRSIOverbought: 80,
		StochRSIOversold:   20,

		PivotLookback:         20,
		LevelProximityPercent: 0.01,

		MTFFactor: 4,

		RegimeConfidenceFloor: 0.5,

		FlowLookback: 10,

		Levels:     indicator.DefaultLevelConfig(),
		Validation: validate.DefaultConfig(),
	}
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	periods := map[string]int{
		"fast ema period":    cfg.FastEMAPeriod,
		"mid ema period":     cfg.MidEMAPeriod,
		"slow ema period":    cfg.SlowEMAPeriod,
		"rsi period":         cfg.RSIPeriod,
		"macd fast period":   cfg.MACDFastPeriod,
		"macd slow period":   cfg.MACDSlowPeriod,
		"macd signal period": cfg.MACDSignalPeriod,
		"bollinger period":   cfg.BollingerPeriod,
		"atr period":         cfg.ATRPeriod,
		"adx period":         cfg.ADXPeriod,
		"cci period":         cfg.CCIPeriod,
		"donchian period":    cfg.DonchianPeriod,
		"stoch rsi period":   cfg.StochRSIPeriod,
		"pivot lookback":     cfg.PivotLookback,
		"mtf factor":         cfg.MTFFactor,
		"flow lookback":      cfg.FlowLookback,
	}
	for name, period := range periods {
		if period <= 0 {
			errs = errors.Join(errs, fmt.Errorf("%s must be positive: %d", name, period))
		}
	}

	if cfg.FastEMAPeriod >= cfg.MidEMAPeriod || cfg.MidEMAPeriod >= cfg.SlowEMAPeriod {
		errs = errors.Join(errs, fmt.Errorf("ema periods must be strictly increasing: %d, %d, %d",
			cfg.FastEMAPeriod, cfg.MidEMAPeriod, cfg.SlowEMAPeriod))
	}
	if cfg.RSIOversold >= cfg.RSIOverbought {
		errs = errors.Join(errs, fmt.Errorf("rsi oversold must be below overbought: %f >= %f",
			cfg.RSIOversold, cfg.RSIOverbought))
	}
	if cfg.BreakoutATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("breakout atr multiple must be positive: %f", cfg.BreakoutATRMultiple))
	}
	if cfg.ThrustATRMultiple <= 0 {
		errs = errors.Join(errs, fmt.Errorf("thrust atr multiple must be positive: %f", cfg.ThrustATRMultiple))
	}
	if cfg.MinConsecutiveBars < 1 {
		errs = errors.Join(errs, fmt.Errorf("minimum consecutive bars must be at least 1: %d", cfg.MinConsecutiveBars))
	}
	if cfg.RegimeConfidenceFloor < 0 || cfg.RegimeConfidenceFloor > 1 {
		errs = errors.Join(errs, fmt.Errorf("regime confidence floor must be within [0,1]: %f", cfg.RegimeConfidenceFloor))
	}

	if err := cfg.Validation.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// Registry returns every strategy evaluator in a fixed order.
func Registry() []Entry {
	return []Entry{
		{Name: emaRSICrossName, Enhanced: true, MinBars: emaRSICrossMinBars, Eval: EMARSICross},
		{Name: tripleEMAName, MinBars: tripleEMAMinBars, Eval: TripleEMAAlignment},
		{Name: adxDirectionalName, MinBars: adxDirectionalMinBars, Eval: ADXDirectional},
		{Name: macdCrossName, MinBars: macdCrossMinBars, Eval: MACDCross},
		{Name: stochRSICrossName, MinBars: stochRSICrossMinBars, Eval: StochRSICross},
		{Name: vwapTrendName, MinBars: vwapTrendMinBars, Eval: VWAPTrend},

		{Name: bollingerReversionName, Enhanced: true, MinBars: bollingerReversionMinBars, Eval: BollingerRSIReversion},
		{Name: supportBounceName, MinBars: supportBounceMinBars, Eval: SupportBounce},
		{Name: resistanceRejectionName, MinBars: resistanceRejectionMinBars, Eval: ResistanceRejection},
		{Name: cciReversionName, MinBars: cciReversionMinBars, Eval: CCIReversion},
		{Name: stochRSIReversionName, MinBars: stochRSIReversionMinBars, Eval: StochRSIReversion},
		{Name: pivotReversionName, MinBars: pivotReversionMinBars, Eval: PivotReversion},

		{Name: donchianBreakoutName, Enhanced: true, MinBars: donchianBreakoutMinBars, Eval: DonchianBreakout},
		{Name: atrBreakoutName, MinBars: atrBreakoutMinBars, Eval: ATRBreakout},
		{Name: volumeBreakoutName, MinBars: volumeBreakoutMinBars, Eval: VolumeBreakout},
		{Name: pivotBreakoutName, MinBars: pivotBreakoutMinBars, Eval: PivotBreakout},
		{Name: squeezeBreakoutName, MinBars: squeezeBreakoutMinBars, Eval: SqueezeBreakout},

		{Name: macdDivergenceName, Enhanced: true, MinBars: macdDivergenceMinBars, Eval: MACDDivergence},
		{Name: rsiDivergenceName, MinBars: rsiDivergenceMinBars, Eval: RSIDivergence},
		{Name: MTFAlignmentName, Enhanced: true, MinBars: mtfAlignmentMinBars, Eval: MTFAlignment},
		{Name: regimeMomentumName, MinBars: regimeMomentumMinBars, Eval: RegimeMomentum},
		{Name: adLineTrendName, MinBars: adLineTrendMinBars, Eval: ADLineTrend},
	}
}

// hold builds a neutral opinion with the provided reason.
func hold(name string, reason string) shared.Opinion {
	return shared.NewHoldOpinion(name, reason)
}

// insufficient builds the standard insufficient data hold opinion.
func insufficient(name string, have int, need int) shared.Opinion {
	return hold(name, fmt.Sprintf("insufficient data: %d bars, need %d", have, need))
}

// opinion builds a directional opinion with a clamped strength.
func opinion(name string, direction shared.Direction, strength float64, reason string) shared.Opinion {
	return shared.Opinion{
		Strategy:  name,
		Direction: direction,
		Strength:  clampUnit(strength),
		Reason:    reason,
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
