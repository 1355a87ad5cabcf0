package strategy

import (
	"fmt"
	"math"

	"github.com/dnldd/quorum/indicator"
	"github.com/dnldd/quorum/market"
	"github.com/dnldd/quorum/shared"
	"github.com/dnldd/quorum/validate"
)

const (
	bollingerReversionName    = "bollinger-rsi-reversion"
	bollingerReversionMinBars = 60

	supportBounceName    = "support-bounce"
	supportBounceMinBars = 60

	resistanceRejectionName    = "resistance-rejection"
	resistanceRejectionMinBars = 60

	cciReversionName    = "cci-reversion"
	cciReversionMinBars = 60

	stochRSIReversionName    = "stochrsi-reversion"
	stochRSIReversionMinBars = 60

	pivotReversionName    = "pivot-reversion"
	pivotReversionMinBars = 60
)

// trendingRegime reports whether mean reversion attempts should be
// suppressed by a strongly trending classification.
func trendingRegime(snapshot *market.Snapshot, cfg *Config) bool {
	return snapshot.Regime.Kind == shared.TrendingRegime &&
		snapshot.Regime.Confidence >= cfg.RegimeConfidenceFloor
}

// BollingerRSIReversion signals a reversion when price stretches past an
// outer band with the RSI at a direction-specific extreme and, where
// volume is available, accumulation flow agreement.
func BollingerRSIReversion(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < bollingerReversionMinBars {
		return insufficient(bollingerReversionName, len(candles), bollingerReversionMinBars)
	}

	if trendingRegime(snapshot, cfg) {
		return hold(bollingerReversionName, "reversion suppressed in trending regime")
	}

	closes := shared.Closes(candles)
	bands := indicator.Bollinger(closes, cfg.BollingerPeriod, cfg.BollingerMultiplier)
	rsi := indicator.RSI(closes, cfg.RSIPeriod)

	rsiValue, rsiOk := rsi.Last()
	if !rsiOk {
		return hold(bollingerReversionName, "rsi unavailable for the window")
	}

	idx := len(closes) - 1
	for _, direction := range []shared.Direction{shared.Buy, shared.Sell} {
		result := validate.BandTouch(bands.Upper, bands.Lower, closes, idx, direction, cfg.Validation)
		if !result.Accepted {
			continue
		}

		switch direction {
		case shared.Buy:
			if rsiValue >= cfg.RSIOversold {
				return hold(bollingerReversionName,
					fmt.Sprintf("lower band touch without oversold rsi: %.1f", rsiValue))
			}
		case shared.Sell:
			if rsiValue <= cfg.RSIOverbought {
				return hold(bollingerReversionName,
					fmt.Sprintf("upper band touch without overbought rsi: %.1f", rsiValue))
			}
		}

		strength := result.Confidence
		if indicator.HasVolume(candles) {
			if !flowAgrees(candles, direction, cfg.FlowLookback) {
				return hold(bollingerReversionName, "volume flow opposes the reversion")
			}
			strength = clampUnit(strength + 0.1)
		}

		return opinion(bollingerReversionName, direction, strength,
			fmt.Sprintf("%s, rsi %.1f", result.Reason, rsiValue))
	}

	return hold(bollingerReversionName, "no qualifying band touch")
}

// flowAgrees reports whether the accumulation/distribution slope over the
// lookback supports the proposed direction.
func flowAgrees(candles []shared.Candlestick, direction shared.Direction, lookback int) bool {
	flow := indicator.AccumulationDistribution(candles)
	idx := len(flow) - 1
	if idx < lookback || !flow.Valid(idx) || !flow.Valid(idx-lookback) {
		return false
	}

	delta := flow[idx] - flow[idx-lookback]
	switch direction {
	case shared.Buy:
		return delta > 0
	case shared.Sell:
		return delta < 0
	default:
		return false
	}
}

// SupportBounce signals a reversion off the nearest detected support level.
func SupportBounce(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < supportBounceMinBars {
		return insufficient(supportBounceName, len(candles), supportBounceMinBars)
	}

	if trendingRegime(snapshot, cfg) && snapshot.TrendDown {
		return hold(supportBounceName, "bounce suppressed in trending down regime")
	}

	levels := indicator.DetectLevels(candles, cfg.Levels)
	idx := len(candles) - 1
	low := candles[idx].Low
	close := candles[idx].Close

	support, found := indicator.NearestSupport(levels, close)
	if !found || support.Price <= 0 {
		return hold(supportBounceName, "no support level below price")
	}

	proximity := (low - support.Price) / support.Price
	if proximity > cfg.LevelProximityPercent {
		return hold(supportBounceName,
			fmt.Sprintf("support %.2f not tagged, low %.4f away", support.Price, proximity))
	}

	// The bar must have turned back up off the level.
	if close <= candles[idx].Open || close <= candles[idx-1].Close {
		return hold(supportBounceName, "no turn up off the support level")
	}

	strength := clampUnit(0.4 + float64(support.Touches)*0.15)
	return opinion(supportBounceName, shared.Buy, strength,
		fmt.Sprintf("bounce off support %.2f with %d touches", support.Price, support.Touches))
}

// ResistanceRejection signals a reversion off the nearest detected
// resistance level.
func ResistanceRejection(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < resistanceRejectionMinBars {
		return insufficient(resistanceRejectionName, len(candles), resistanceRejectionMinBars)
	}

	if trendingRegime(snapshot, cfg) && snapshot.TrendUp {
		return hold(resistanceRejectionName, "rejection suppressed in trending up regime")
	}

	levels := indicator.DetectLevels(candles, cfg.Levels)
	idx := len(candles) - 1
	high := candles[idx].High
	close := candles[idx].Close

	resistance, found := indicator.NearestResistance(levels, close)
	if !found || resistance.Price <= 0 {
		return hold(resistanceRejectionName, "no resistance level above price")
	}

	proximity := (resistance.Price - high) / resistance.Price
	if proximity > cfg.LevelProximityPercent {
		return hold(resistanceRejectionName,
			fmt.Sprintf("resistance %.2f not tagged, high %.4f away", resistance.Price, proximity))
	}

	if close >= candles[idx].Open || close >= candles[idx-1].Close {
		return hold(resistanceRejectionName, "no turn down off the resistance level")
	}

	strength := clampUnit(0.4 + float64(resistance.Touches)*0.15)
	return opinion(resistanceRejectionName, shared.Sell, strength,
		fmt.Sprintf("rejection off resistance %.2f with %d touches", resistance.Price, resistance.Touches))
}

// CCIReversion signals a reversion when the commodity channel index
// stretches past a direction-specific extreme.
func CCIReversion(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < cciReversionMinBars {
		return insufficient(cciReversionName, len(candles), cciReversionMinBars)
	}

	if trendingRegime(snapshot, cfg) {
		return hold(cciReversionName, "reversion suppressed in trending regime")
	}

	highs, lows, closes := shared.Highs(candles), shared.Lows(candles), shared.Closes(candles)
	cci := indicator.CCI(highs, lows, closes, cfg.CCIPeriod)

	value, ok := cci.Last()
	if !ok {
		return hold(cciReversionName, "cci unavailable for the window")
	}

	if math.Abs(value) <= cfg.CCIExtreme {
		return hold(cciReversionName, fmt.Sprintf("cci %.1f inside extreme band", value))
	}

	idx := len(closes) - 1
	strength := clampUnit((math.Abs(value) - cfg.CCIExtreme) / cfg.CCIExtreme)
	switch {
	case value < 0 && closes[idx] >= closes[idx-1]:
		return opinion(cciReversionName, shared.Buy, strength,
			fmt.Sprintf("cci stretched to %.1f and turning", value))
	case value > 0 && closes[idx] <= closes[idx-1]:
		return opinion(cciReversionName, shared.Sell, strength,
			fmt.Sprintf("cci stretched to %.1f and turning", value))
	default:
		return hold(cciReversionName, "cci stretch without a turn")
	}
}

// StochRSIReversion signals a reversion when both oscillator lines sit in a
// direction-specific extreme zone.
func StochRSIReversion(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < stochRSIReversionMinBars {
		return insufficient(stochRSIReversionName, len(candles), stochRSIReversionMinBars)
	}

	if trendingRegime(snapshot, cfg) {
		return hold(stochRSIReversionName, "reversion suppressed in trending regime")
	}

	closes := shared.Closes(candles)
	stoch := indicator.StochRSI(closes, cfg.RSIPeriod, cfg.StochRSIPeriod, cfg.StochRSIKSmooth, cfg.StochRSIDSmooth)

	k, kOk := stoch.K.Last()
	d, dOk := stoch.D.Last()
	if !kOk || !dOk {
		return hold(stochRSIReversionName, "stochastic rsi unavailable for the window")
	}

	idx := len(closes) - 1
	switch {
	case k < cfg.StochRSIOversold && d < cfg.StochRSIOversold && closes[idx] >= closes[idx-1]:
		strength := clampUnit((cfg.StochRSIOversold - k) / cfg.StochRSIOversold)
		return opinion(stochRSIReversionName, shared.Buy, strength,
			fmt.Sprintf("stochastic rsi oversold at %.1f/%.1f", k, d))
	case k > cfg.StochRSIOverbought && d > cfg.StochRSIOverbought && closes[idx] <= closes[idx-1]:
		strength := clampUnit((k - cfg.StochRSIOverbought) / (100 - cfg.StochRSIOverbought))
		return opinion(stochRSIReversionName, shared.Sell, strength,
			fmt.Sprintf("stochastic rsi overbought at %.1f/%.1f", k, d))
	default:
		return hold(stochRSIReversionName, "oscillator not at an extreme")
	}
}

// PivotReversion signals a reversion off the classic pivot supports and
// resistances derived from the prior window.
func PivotReversion(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < pivotReversionMinBars {
		return insufficient(pivotReversionName, len(candles), pivotReversionMinBars)
	}
	if len(candles) <= cfg.PivotLookback {
		return insufficient(pivotReversionName, len(candles), cfg.PivotLookback+1)
	}

	if trendingRegime(snapshot, cfg) {
		return hold(pivotReversionName, "reversion suppressed in trending regime")
	}

	// Pivots come from the window preceding the current bar.
	idx := len(candles) - 1
	window := candles[idx-cfg.PivotLookback : idx]
	pivots, ok := indicator.PivotsFromWindow(shared.Highs(window), shared.Lows(window), shared.Closes(window))
	if !ok {
		return hold(pivotReversionName, "pivot window unavailable")
	}

	close := candles[idx].Close
	if close <= 0 {
		return hold(pivotReversionName, "degenerate price for pivot proximity")
	}

	turnUp := close > candles[idx].Open && close >= candles[idx-1].Close
	turnDown := close < candles[idx].Open && close <= candles[idx-1].Close

	for _, level := range []struct {
		price     float64
		direction shared.Direction
		label     string
	}{
		{pivots.Support1, shared.Buy, "s1"},
		{pivots.Support2, shared.Buy, "s2"},
		{pivots.Resistance1, shared.Sell, "r1"},
		{pivots.Resistance2, shared.Sell, "r2"},
	} {
		if level.price <= 0 {
			continue
		}

		proximity := math.Abs(close-level.price) / close
		if proximity > cfg.LevelProximityPercent {
			continue
		}

		if (level.direction == shared.Buy && !turnUp) || (level.direction == shared.Sell && !turnDown) {
			continue
		}

		strength := clampUnit(1 - proximity/cfg.LevelProximityPercent)
		return opinion(pivotReversionName, level.direction, strength,
			fmt.Sprintf("reversion at pivot %s %.2f", level.label, level.price))
	}

	return hold(pivotReversionName, "price not at a pivot level")
}
