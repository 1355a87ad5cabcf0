package strategy

import (
	"fmt"

	"github.com/dnldd/quorum/indicator"
	"github.com/dnldd/quorum/market"
	"github.com/dnldd/quorum/shared"
	"github.com/dnldd/quorum/validate"
)

const (
	macdDivergenceName    = "macd-divergence"
	macdDivergenceMinBars = 80

	rsiDivergenceName    = "rsi-divergence"
	rsiDivergenceMinBars = 80

	mtfAlignmentMinBars = 120

	regimeMomentumName    = "regime-momentum"
	regimeMomentumMinBars = 100

	adLineTrendName    = "adline-trend"
	adLineTrendMinBars = 60
)

// MTFAlignmentName is the registry name of the multi-timeframe alignment
// strategy, exported for collaborators that treat its agreement specially.
const MTFAlignmentName = "mtf-alignment"

// MACDDivergence signals on a validated divergence between price and the
// MACD histogram.
func MACDDivergence(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < macdDivergenceMinBars {
		return insufficient(macdDivergenceName, len(candles), macdDivergenceMinBars)
	}

	closes := shared.Closes(candles)
	macd := indicator.MACD(closes, cfg.MACDFastPeriod, cfg.MACDSlowPeriod, cfg.MACDSignalPeriod)

	// Histogram swings are far smaller than oscillator swings, so the
	// magnitude floor rescales against the validation default.
	histogramCfg := cfg.Validation
	histogramCfg.MinDivergenceMagnitude = cfg.Validation.MinDivergenceMagnitude / 100

	idx := len(closes) - 1
	for _, direction := range []shared.Direction{shared.Buy, shared.Sell} {
		result := validate.Divergence(macd.Histogram, closes, idx, direction, histogramCfg)
		if !result.Accepted {
			continue
		}

		return opinion(macdDivergenceName, direction, result.Confidence,
			fmt.Sprintf("macd histogram %s", result.Reason))
	}

	return hold(macdDivergenceName, "no validated macd divergence")
}

// RSIDivergence signals on a validated divergence between price and the RSI.
func RSIDivergence(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < rsiDivergenceMinBars {
		return insufficient(rsiDivergenceName, len(candles), rsiDivergenceMinBars)
	}

	closes := shared.Closes(candles)
	rsi := indicator.RSI(closes, cfg.RSIPeriod)

	idx := len(closes) - 1
	for _, direction := range []shared.Direction{shared.Buy, shared.Sell} {
		result := validate.Divergence(rsi, closes, idx, direction, cfg.Validation)
		if !result.Accepted {
			continue
		}

		return opinion(rsiDivergenceName, direction, result.Confidence,
			fmt.Sprintf("rsi %s", result.Reason))
	}

	return hold(rsiDivergenceName, "no validated rsi divergence")
}

// MTFAlignment signals when the current timeframe trend agrees with the
// downsampled higher timeframe view.
func MTFAlignment(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < mtfAlignmentMinBars {
		return insufficient(MTFAlignmentName, len(candles), mtfAlignmentMinBars)
	}

	closes := shared.Closes(candles)
	agreement := indicator.MultiTimeframeTrend(closes, cfg.MTFFactor, cfg.FastEMAPeriod, cfg.MidEMAPeriod)

	if !agreement.Aligned {
		return hold(MTFAlignmentName, fmt.Sprintf("timeframes disagree: %s vs %s",
			agreement.Current.String(), agreement.Higher.String()))
	}

	return opinion(MTFAlignmentName, agreement.Current, agreement.Strength,
		fmt.Sprintf("%s trend aligned across timeframes", agreement.Current.String()))
}

// RegimeMomentum signals with the prevailing trend when the regime
// classification is trending with sufficient confidence.
func RegimeMomentum(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < regimeMomentumMinBars {
		return insufficient(regimeMomentumName, len(candles), regimeMomentumMinBars)
	}

	if !snapshot.Complete {
		return hold(regimeMomentumName, "market context incomplete")
	}

	regime := snapshot.Regime
	if regime.Kind != shared.TrendingRegime {
		return hold(regimeMomentumName, fmt.Sprintf("regime %s, not trending", regime.Kind.String()))
	}

	if regime.Confidence < cfg.RegimeConfidenceFloor {
		return hold(regimeMomentumName, fmt.Sprintf("regime confidence %.2f below floor %.2f",
			regime.Confidence, cfg.RegimeConfidenceFloor))
	}

	strength := clampUnit(regime.Confidence * (0.5 + snapshot.TrendStrength/0.02))
	switch {
	case snapshot.TrendUp:
		return opinion(regimeMomentumName, shared.Buy, strength,
			fmt.Sprintf("trending regime with %.2f confidence, uptrend", regime.Confidence))
	case snapshot.TrendDown:
		return opinion(regimeMomentumName, shared.Sell, strength,
			fmt.Sprintf("trending regime with %.2f confidence, downtrend", regime.Confidence))
	default:
		return hold(regimeMomentumName, "trending regime without a directional read")
	}
}

// ADLineTrend signals when the accumulation/distribution flow and price
// trend agree over the flow lookback.
func ADLineTrend(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < adLineTrendMinBars {
		return insufficient(adLineTrendName, len(candles), adLineTrendMinBars)
	}

	if !indicator.HasVolume(candles) {
		return hold(adLineTrendName, "no volume data for flow analysis")
	}

	flow := indicator.AccumulationDistribution(candles)
	closes := shared.Closes(candles)

	idx := len(closes) - 1
	if idx < cfg.FlowLookback || !flow.Valid(idx) || !flow.Valid(idx-cfg.FlowLookback) {
		return hold(adLineTrendName, "flow unavailable over the lookback")
	}

	flowDelta := flow[idx] - flow[idx-cfg.FlowLookback]
	priceDelta := closes[idx] - closes[idx-cfg.FlowLookback]
	if closes[idx-cfg.FlowLookback] <= 0 {
		return hold(adLineTrendName, "degenerate price for flow comparison")
	}

	movePercent := priceDelta / closes[idx-cfg.FlowLookback]
	strength := clampUnit(0.3 + snapshot.TrendStrength/0.01*0.3)

	switch {
	case flowDelta > 0 && movePercent > cfg.MinEMASeparation:
		return opinion(adLineTrendName, shared.Buy, strength,
			fmt.Sprintf("accumulation flow rising with price up %.3f", movePercent))
	case flowDelta < 0 && movePercent < -cfg.MinEMASeparation:
		return opinion(adLineTrendName, shared.Sell, strength,
			fmt.Sprintf("distribution flow falling with price down %.3f", -movePercent))
	default:
		return hold(adLineTrendName, "flow and price trend disagree")
	}
}
