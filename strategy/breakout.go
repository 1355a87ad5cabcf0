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
	donchianBreakoutName    = "donchian-breakout"
	donchianBreakoutMinBars = 60

	atrBreakoutName    = "atr-breakout"
	atrBreakoutMinBars = 60

	volumeBreakoutName    = "volume-breakout"
	volumeBreakoutMinBars = 60

	pivotBreakoutName    = "pivot-breakout"
	pivotBreakoutMinBars = 60

	squeezeBreakoutName    = "squeeze-breakout"
	squeezeBreakoutMinBars = 100

	// squeezeLookback is the span bandwidths are ranked over.
	squeezeLookback = 60
	// squeezeQuantile is the fraction of the bandwidth range treated as
	// compressed.
	squeezeQuantile = 0.25
)

// consecutiveGate reports whether the consecutive-bar momentum gate passes
// for the proposed direction.
func consecutiveGate(snapshot *market.Snapshot, direction shared.Direction, minBars int) bool {
	switch direction {
	case shared.Buy:
		return snapshot.ConsecutiveBars >= minBars
	case shared.Sell:
		return snapshot.ConsecutiveBars <= -minBars
	default:
		return false
	}
}

// DonchianBreakout signals when price clears the prior channel extreme by a
// minimum ATR multiple with the prior bar still inside the channel.
func DonchianBreakout(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < donchianBreakoutMinBars {
		return insufficient(donchianBreakoutName, len(candles), donchianBreakoutMinBars)
	}

	highs, lows, closes := shared.Highs(candles), shared.Lows(candles), shared.Closes(candles)
	channel := indicator.Donchian(highs, lows, cfg.DonchianPeriod)
	atr := indicator.ATR(highs, lows, closes, cfg.ATRPeriod)

	idx := len(closes) - 1
	atrValue, atrOk := atr.Last()
	if !atrOk || atrValue <= 0 || !channel.Upper.Valid(idx-1) || !channel.Lower.Valid(idx-1) {
		return hold(donchianBreakoutName, "channel or volatility unavailable for the window")
	}

	// The breakout threshold is the channel over the window ending at the
	// prior bar, so the current bar cannot raise its own hurdle.
	upper := channel.Upper[idx-1]
	lower := channel.Lower[idx-1]
	clearance := cfg.BreakoutATRMultiple * atrValue

	switch {
	case closes[idx] > upper+clearance:
		if closes[idx-1] > upper {
			return hold(donchianBreakoutName, "prior bar already above the channel, extended")
		}
		if !consecutiveGate(snapshot, shared.Buy, cfg.MinConsecutiveBars) {
			return hold(donchianBreakoutName, "consecutive bar momentum gate not met for breakout")
		}

		strength := clampUnit((closes[idx] - upper - clearance) / atrValue)
		return opinion(donchianBreakoutName, shared.Buy, strength,
			fmt.Sprintf("close %.2f cleared channel high %.2f by over %.2f atr", closes[idx], upper, cfg.BreakoutATRMultiple))
	case closes[idx] < lower-clearance:
		if closes[idx-1] < lower {
			return hold(donchianBreakoutName, "prior bar already below the channel, extended")
		}
		if !consecutiveGate(snapshot, shared.Sell, cfg.MinConsecutiveBars) {
			return hold(donchianBreakoutName, "consecutive bar momentum gate not met for breakdown")
		}

		strength := clampUnit((lower - clearance - closes[idx]) / atrValue)
		return opinion(donchianBreakoutName, shared.Sell, strength,
			fmt.Sprintf("close %.2f cleared channel low %.2f by over %.2f atr", closes[idx], lower, cfg.BreakoutATRMultiple))
	default:
		return hold(donchianBreakoutName, "price inside the channel clearance")
	}
}

// ATRBreakout signals on a single-bar thrust exceeding a multiple of the
// current average true range, with the prior bar not already extended.
func ATRBreakout(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < atrBreakoutMinBars {
		return insufficient(atrBreakoutName, len(candles), atrBreakoutMinBars)
	}

	highs, lows, closes := shared.Highs(candles), shared.Lows(candles), shared.Closes(candles)
	atr := indicator.ATR(highs, lows, closes, cfg.ATRPeriod)

	atrValue, ok := atr.Last()
	if !ok || atrValue <= 0 {
		return hold(atrBreakoutName, "volatility unavailable for the window")
	}

	idx := len(closes) - 1
	move := closes[idx] - closes[idx-1]
	priorMove := closes[idx-1] - closes[idx-2]
	threshold := cfg.ThrustATRMultiple * atrValue

	var direction shared.Direction
	switch {
	case move > threshold:
		direction = shared.Buy
	case move < -threshold:
		direction = shared.Sell
	default:
		return hold(atrBreakoutName, fmt.Sprintf("bar move %.4f inside %.1f atr threshold", move, cfg.ThrustATRMultiple))
	}

	// An equally large prior thrust means the move is already extended.
	if math.Abs(priorMove) > threshold {
		return hold(atrBreakoutName, "prior bar already extended past the thrust threshold")
	}

	if !consecutiveGate(snapshot, direction, cfg.MinConsecutiveBars) {
		return hold(atrBreakoutName, "consecutive bar momentum gate not met for thrust")
	}

	strength := clampUnit((math.Abs(move) - threshold) / atrValue)
	return opinion(atrBreakoutName, direction, strength,
		fmt.Sprintf("%s thrust of %.2f atr", direction.String(), math.Abs(move)/atrValue))
}

// VolumeBreakout signals a range breakout qualified by a validated volume
// spike.
func VolumeBreakout(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < volumeBreakoutMinBars {
		return insufficient(volumeBreakoutName, len(candles), volumeBreakoutMinBars)
	}

	qualified := indicator.SynthesizeVolume(candles)
	highs, lows, closes := shared.Highs(qualified), shared.Lows(qualified), shared.Closes(qualified)
	volumes := shared.Volumes(qualified)
	channel := indicator.Donchian(highs, lows, cfg.DonchianPeriod)

	idx := len(closes) - 1
	if !channel.Upper.Valid(idx-1) || !channel.Lower.Valid(idx-1) {
		return hold(volumeBreakoutName, "range unavailable for the window")
	}

	var direction shared.Direction
	switch {
	case closes[idx] > channel.Upper[idx-1] && closes[idx-1] <= channel.Upper[idx-1]:
		direction = shared.Buy
	case closes[idx] < channel.Lower[idx-1] && closes[idx-1] >= channel.Lower[idx-1]:
		direction = shared.Sell
	default:
		return hold(volumeBreakoutName, "no fresh range breakout at current bar")
	}

	result := validate.VolumeSpike(volumes, closes, idx, direction, cfg.Validation)
	if !result.Accepted {
		return hold(volumeBreakoutName, result.Reason)
	}

	return opinion(volumeBreakoutName, direction, result.Confidence,
		fmt.Sprintf("%s range breakout, %s", direction.String(), result.Reason))
}

// PivotBreakout signals when price clears a pivot resistance or support by
// a minimum ATR multiple.
func PivotBreakout(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < pivotBreakoutMinBars {
		return insufficient(pivotBreakoutName, len(candles), pivotBreakoutMinBars)
	}
	if len(candles) <= cfg.PivotLookback {
		return insufficient(pivotBreakoutName, len(candles), cfg.PivotLookback+1)
	}

	idx := len(candles) - 1
	window := candles[idx-cfg.PivotLookback : idx]
	pivots, ok := indicator.PivotsFromWindow(shared.Highs(window), shared.Lows(window), shared.Closes(window))
	if !ok {
		return hold(pivotBreakoutName, "pivot window unavailable")
	}

	highs, lows, closes := shared.Highs(candles), shared.Lows(candles), shared.Closes(candles)
	atr := indicator.ATR(highs, lows, closes, cfg.ATRPeriod)
	atrValue, atrOk := atr.Last()
	if !atrOk || atrValue <= 0 {
		return hold(pivotBreakoutName, "volatility unavailable for the window")
	}

	clearance := cfg.BreakoutATRMultiple * atrValue

	switch {
	case closes[idx] > pivots.Resistance1+clearance && closes[idx-1] <= pivots.Resistance1:
		if !consecutiveGate(snapshot, shared.Buy, cfg.MinConsecutiveBars) {
			return hold(pivotBreakoutName, "consecutive bar momentum gate not met for breakout")
		}

		strength := clampUnit((closes[idx] - pivots.Resistance1 - clearance) / atrValue)
		return opinion(pivotBreakoutName, shared.Buy, strength,
			fmt.Sprintf("close cleared pivot r1 %.2f", pivots.Resistance1))
	case closes[idx] < pivots.Support1-clearance && closes[idx-1] >= pivots.Support1:
		if !consecutiveGate(snapshot, shared.Sell, cfg.MinConsecutiveBars) {
			return hold(pivotBreakoutName, "consecutive bar momentum gate not met for breakdown")
		}

		strength := clampUnit((pivots.Support1 - clearance - closes[idx]) / atrValue)
		return opinion(pivotBreakoutName, shared.Sell, strength,
			fmt.Sprintf("close cleared pivot s1 %.2f", pivots.Support1))
	default:
		return hold(pivotBreakoutName, "price inside pivot clearance")
	}
}

// SqueezeBreakout signals when a volatility band compression resolves with
// price breaking an outer band.
func SqueezeBreakout(candles []shared.Candlestick, snapshot *market.Snapshot, cfg *Config) shared.Opinion {
	if len(candles) < squeezeBreakoutMinBars {
		return insufficient(squeezeBreakoutName, len(candles), squeezeBreakoutMinBars)
	}

	closes := shared.Closes(candles)
	bands := indicator.Bollinger(closes, cfg.BollingerPeriod, cfg.BollingerMultiplier)

	idx := len(closes) - 1
	priorWidth, priorOk := bands.Bandwidth(idx - 1)
	if !priorOk {
		return hold(squeezeBreakoutName, "band width unavailable for the window")
	}

	lowest := math.Inf(1)
	highest := math.Inf(-1)
	for widx := idx - squeezeLookback; widx < idx; widx++ {
		width, ok := bands.Bandwidth(widx)
		if !ok {
			return hold(squeezeBreakoutName, "band width unavailable for the window")
		}

		lowest = math.Min(lowest, width)
		highest = math.Max(highest, width)
	}

	spread := highest - lowest
	if spread <= 0 {
		return hold(squeezeBreakoutName, "band widths degenerate over the lookback")
	}

	// The squeeze only counts when the prior width sits in the compressed
	// quantile of the recent width range.
	if priorWidth > lowest+squeezeQuantile*spread {
		return hold(squeezeBreakoutName, fmt.Sprintf("band width %.4f not compressed", priorWidth))
	}

	switch {
	case bands.Upper.Valid(idx) && closes[idx] > bands.Upper[idx]:
		strength := clampUnit((closes[idx] - bands.Upper[idx]) / (bands.Upper[idx] - bands.Middle[idx]))
		return opinion(squeezeBreakoutName, shared.Buy, strength,
			fmt.Sprintf("squeeze resolved above upper band %.2f", bands.Upper[idx]))
	case bands.Lower.Valid(idx) && closes[idx] < bands.Lower[idx]:
		strength := clampUnit((bands.Lower[idx] - closes[idx]) / (bands.Middle[idx] - bands.Lower[idx]))
		return opinion(squeezeBreakoutName, shared.Sell, strength,
			fmt.Sprintf("squeeze resolved below lower band %.2f", bands.Lower[idx]))
	default:
		return hold(squeezeBreakoutName, "squeeze without a band break")
	}
}
