package strategy

import (
	"fmt"

	"github.com/dnldd/quorum/indicator"
	"github.com/dnldd/quorum/market"
	"github.com/dnldd/quorum/shared"
	"github.com/dnldd/quorum/validate"
)

const (
	emaRSICrossName    = "ema-rsi-cross"
	emaRSICrossMinBars = 60

	tripleEMAName    = "triple-ema-alignment"
	tripleEMAMinBars = 60

	adxDirectionalName    = "adx-directional"
	adxDirectionalMinBars = 60

	macdCrossName    = "macd-cross"
	macdCrossMinBars = 60

	stochRSICrossName    = "stochrsi-cross"
	stochRSICrossMinBars = 60

	vwapTrendName    = "vwap-trend"
	vwapTrendMinBars = 60
)

// EMARSICross signals on a fast over mid EMA cross validated for separation
// and short-horizon momentum, confirmed by RSI positioning.
func EMARSICross(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < emaRSICrossMinBars {
		return insufficient(emaRSICrossName, len(candles), emaRSICrossMinBars)
	}

	closes := shared.Closes(candles)
	fast := indicator.EMA(closes, cfg.FastEMAPeriod)
	mid := indicator.EMA(closes, cfg.MidEMAPeriod)
	rsi := indicator.RSI(closes, cfg.RSIPeriod)

	rsiValue, ok := rsi.Last()
	if !ok {
		return hold(emaRSICrossName, "rsi unavailable for the window")
	}

	idx := len(closes) - 1
	for _, direction := range []shared.Direction{shared.Buy, shared.Sell} {
		result := validate.Crossover(fast, mid, closes, idx, direction, cfg.Validation)
		if !result.Accepted {
			continue
		}

		// RSI must sit on the crossover's side of the midline.
		switch direction {
		case shared.Buy:
			if rsiValue <= 50 {
				return hold(emaRSICrossName, fmt.Sprintf("buy crossover without rsi confirmation: %.1f", rsiValue))
			}
		case shared.Sell:
			if rsiValue >= 50 {
				return hold(emaRSICrossName, fmt.Sprintf("sell crossover without rsi confirmation: %.1f", rsiValue))
			}
		}

		return opinion(emaRSICrossName, direction, result.Confidence,
			fmt.Sprintf("%s, rsi %.1f", result.Reason, rsiValue))
	}

	return hold(emaRSICrossName, "no validated ema crossover")
}

// TripleEMAAlignment signals when the fast, mid and slow EMAs stack in one
// direction with minimum separations and short-horizon momentum agreement.
func TripleEMAAlignment(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < tripleEMAMinBars {
		return insufficient(tripleEMAName, len(candles), tripleEMAMinBars)
	}

	closes := shared.Closes(candles)
	fast, fastOk := indicator.EMA(closes, cfg.FastEMAPeriod).Last()
	mid, midOk := indicator.EMA(closes, cfg.MidEMAPeriod).Last()
	slow, slowOk := indicator.EMA(closes, cfg.SlowEMAPeriod).Last()
	if !fastOk || !midOk || !slowOk || slow == 0 || mid == 0 {
		return hold(tripleEMAName, "ema stack unavailable for the window")
	}

	fastMid := (fast - mid) / mid
	midSlow := (mid - slow) / slow

	idx := len(closes) - 1
	momentumUp := closes[idx] > closes[idx-3]
	momentumDown := closes[idx] < closes[idx-3]

	switch {
	case fastMid > cfg.MinEMASeparation && midSlow > cfg.MinEMASeparation && momentumUp:
		strength := clampUnit((fastMid + midSlow - 2*cfg.MinEMASeparation) / 0.02)
		return opinion(tripleEMAName, shared.Buy, strength,
			fmt.Sprintf("bullish ema stack, separations %.4f/%.4f", fastMid, midSlow))
	case fastMid < -cfg.MinEMASeparation && midSlow < -cfg.MinEMASeparation && momentumDown:
		strength := clampUnit((-fastMid - midSlow - 2*cfg.MinEMASeparation) / 0.02)
		return opinion(tripleEMAName, shared.Sell, strength,
			fmt.Sprintf("bearish ema stack, separations %.4f/%.4f", fastMid, midSlow))
	default:
		return hold(tripleEMAName, "emas not aligned beyond minimum separation")
	}
}

// ADXDirectional signals when the trend strength measure is strong and one
// directional component dominates the other by a minimum margin.
func ADXDirectional(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < adxDirectionalMinBars {
		return insufficient(adxDirectionalName, len(candles), adxDirectionalMinBars)
	}

	highs, lows, closes := shared.Highs(candles), shared.Lows(candles), shared.Closes(candles)
	result := indicator.ADX(highs, lows, closes, cfg.ADXPeriod)

	adx, adxOk := result.ADX.Last()
	plusDI, plusOk := result.PlusDI.Last()
	minusDI, minusOk := result.MinusDI.Last()
	if !adxOk || !plusOk || !minusOk {
		return hold(adxDirectionalName, "directional index unavailable for the window")
	}

	if adx <= cfg.ADXStrongTrend {
		return hold(adxDirectionalName, fmt.Sprintf("adx %.1f below strong trend level %.1f", adx, cfg.ADXStrongTrend))
	}

	margin := plusDI - minusDI
	strength := clampUnit((adx - cfg.ADXStrongTrend) / cfg.ADXStrongTrend)

	idx := len(closes) - 1
	switch {
	case margin > cfg.MinDIMargin && closes[idx] >= closes[idx-1]:
		return opinion(adxDirectionalName, shared.Buy, strength,
			fmt.Sprintf("adx %.1f with di+ dominance %.1f", adx, margin))
	case margin < -cfg.MinDIMargin && closes[idx] <= closes[idx-1]:
		return opinion(adxDirectionalName, shared.Sell, strength,
			fmt.Sprintf("adx %.1f with di- dominance %.1f", adx, -margin))
	default:
		return hold(adxDirectionalName, "no dominant directional component")
	}
}

// MACDCross signals on a validated MACD line over signal line cross with the
// histogram agreeing.
func MACDCross(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < macdCrossMinBars {
		return insufficient(macdCrossName, len(candles), macdCrossMinBars)
	}

	closes := shared.Closes(candles)
	macd := indicator.MACD(closes, cfg.MACDFastPeriod, cfg.MACDSlowPeriod, cfg.MACDSignalPeriod)

	histogram, ok := macd.Histogram.Last()
	if !ok {
		return hold(macdCrossName, "macd unavailable for the window")
	}

	idx := len(closes) - 1

	// The macd lines live near zero, so the crossover separation floor is
	// checked against the histogram relative to price instead.
	for _, direction := range []shared.Direction{shared.Buy, shared.Sell} {
		var crossed bool
		switch direction {
		case shared.Buy:
			crossed = macd.Histogram.Valid(idx-1) && macd.Histogram[idx-1] <= 0 && histogram > 0
		case shared.Sell:
			crossed = macd.Histogram.Valid(idx-1) && macd.Histogram[idx-1] >= 0 && histogram < 0
		}

		if !crossed {
			continue
		}

		if closes[idx] <= 0 {
			return hold(macdCrossName, "degenerate price for macd separation check")
		}

		separation := histogram / closes[idx]
		if direction == shared.Sell {
			separation = -separation
		}
		if separation < cfg.Validation.MinCrossoverSeparation {
			return hold(macdCrossName, fmt.Sprintf("macd cross separation %.5f below minimum %.5f",
				separation, cfg.Validation.MinCrossoverSeparation))
		}

		momentumOk := (direction == shared.Buy && closes[idx] >= closes[idx-1]) ||
			(direction == shared.Sell && closes[idx] <= closes[idx-1])
		if !momentumOk {
			return hold(macdCrossName, "short-horizon price action opposes macd cross")
		}

		strength := 0.5 + (separation-cfg.Validation.MinCrossoverSeparation)/cfg.Validation.SeparationNormalizer
		return opinion(macdCrossName, direction, strength,
			fmt.Sprintf("%s macd cross, histogram %.4f", direction.String(), histogram))
	}

	return hold(macdCrossName, "no macd cross at current bar")
}

// StochRSICross signals on the oscillator's K line crossing D from an
// extreme zone.
func StochRSICross(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < stochRSICrossMinBars {
		return insufficient(stochRSICrossName, len(candles), stochRSICrossMinBars)
	}

	closes := shared.Closes(candles)
	stoch := indicator.StochRSI(closes, cfg.RSIPeriod, cfg.StochRSIPeriod, cfg.StochRSIKSmooth, cfg.StochRSIDSmooth)

	idx := len(closes) - 1
	if !stoch.K.Valid(idx) || !stoch.K.Valid(idx-1) || !stoch.D.Valid(idx) || !stoch.D.Valid(idx-1) {
		return hold(stochRSICrossName, "stochastic rsi unavailable for the window")
	}

	k, d := stoch.K[idx], stoch.D[idx]
	prevK, prevD := stoch.K[idx-1], stoch.D[idx-1]

	switch {
	case prevK <= prevD && k > d && prevK < cfg.StochRSIOversold:
		strength := clampUnit((cfg.StochRSIOversold - prevK) / cfg.StochRSIOversold)
		return opinion(stochRSICrossName, shared.Buy, strength,
			fmt.Sprintf("stochastic rsi bullish cross from %.1f", prevK))
	case prevK >= prevD && k < d && prevK > cfg.StochRSIOverbought:
		strength := clampUnit((prevK - cfg.StochRSIOverbought) / (100 - cfg.StochRSIOverbought))
		return opinion(stochRSICrossName, shared.Sell, strength,
			fmt.Sprintf("stochastic rsi bearish cross from %.1f", prevK))
	default:
		return hold(stochRSICrossName, "no stochastic rsi cross from an extreme")
	}
}

// VWAPTrend signals when price trends away from the volume weighted average
// price with the context trend agreeing.
func VWAPTrend(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < vwapTrendMinBars {
		return insufficient(vwapTrendName, len(candles), vwapTrendMinBars)
	}

	vwap := indicator.VWAP(candles)
	value, ok := vwap.Last()
	if !ok || value <= 0 {
		return hold(vwapTrendName, "vwap unavailable for the window")
	}

	if !snapshot.Complete {
		return hold(vwapTrendName, "market context incomplete")
	}

	distance := (snapshot.LastClose - value) / value
	switch {
	case distance > cfg.MinEMASeparation && snapshot.TrendUp:
		return opinion(vwapTrendName, shared.Buy, clampUnit(distance/0.02),
			fmt.Sprintf("price %.4f above vwap with uptrend", distance))
	case distance < -cfg.MinEMASeparation && snapshot.TrendDown:
		return opinion(vwapTrendName, shared.Sell, clampUnit(-distance/0.02),
			fmt.Sprintf("price %.4f below vwap with downtrend", -distance))
	default:
		return hold(vwapTrendName, "price not trending away from vwap")
	}
}
