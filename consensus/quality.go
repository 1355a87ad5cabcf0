package consensus

import (
	"github.com/dnldd/quorum/indicator"
	"github.com/dnldd/quorum/market"
	"github.com/dnldd/quorum/shared"
)

// QualityFactor represents one scored quality factor.
type QualityFactor struct {
	Name   string
	Points float64
	Met    bool
}

// QualityBreakdown carries the per-factor contributions behind a quality
// score for auditability.
type QualityBreakdown struct {
	Factors []QualityFactor
	// Score is the normalized quality score in [0,1].
	Score float64
}

// scoreQuality computes the trade quality score for the provided direction.
// Every factor contributes its full point weight only when its qualifying
// condition holds, there is no unconditional baseline credit.
func scoreQuality(candles []shared.Candlestick, snapshot *market.Snapshot, levels []indicator.Level,
	direction shared.Direction, cfg *Config) QualityBreakdown {
	idx := len(candles) - 1
	closes := shared.Closes(candles)

	trendAligned := (direction == shared.Buy && snapshot.TrendUp) ||
		(direction == shared.Sell && snapshot.TrendDown)

	momentumAligned := false
	if idx >= 3 {
		switch direction {
		case shared.Buy:
			momentumAligned = closes[idx] > closes[idx-3]
		case shared.Sell:
			momentumAligned = closes[idx] < closes[idx-3]
		}
	}

	volumeConfirmed := false
	volumes := shared.Volumes(candles)
	average := indicator.SMA(volumes, cfg.Strategy.Validation.VolumeAveragePeriod)
	if value, ok := average.At(idx - 1); ok && value > 0 {
		volumeConfirmed = volumes[idx] > value
	}

	volatilityAcceptable := snapshot.VolatilityRatio >= cfg.VolatilityBandLow &&
		snapshot.VolatilityRatio <= cfg.VolatilityBandHigh

	oscillatorFavorable := false
	rsi := indicator.RSI(closes, cfg.Strategy.RSIPeriod)
	if value, ok := rsi.Last(); ok {
		switch direction {
		case shared.Buy:
			oscillatorFavorable = value > 50 && value < cfg.Strategy.RSIOverbought
		case shared.Sell:
			oscillatorFavorable = value < 50 && value > cfg.Strategy.RSIOversold
		}
	}

	levelBacked := false
	if snapshot.LastClose > 0 {
		switch direction {
		case shared.Buy:
			if support, found := indicator.NearestSupport(levels, snapshot.LastClose); found {
				levelBacked = (snapshot.LastClose-support.Price)/snapshot.LastClose <= cfg.LevelQualityPercent
			}
		case shared.Sell:
			if resistance, found := indicator.NearestResistance(levels, snapshot.LastClose); found {
				levelBacked = (resistance.Price-snapshot.LastClose)/snapshot.LastClose <= cfg.LevelQualityPercent
			}
		}
	}

	consecutiveAligned := (direction == shared.Buy && snapshot.ConsecutiveBars >= cfg.Strategy.MinConsecutiveBars) ||
		(direction == shared.Sell && snapshot.ConsecutiveBars <= -cfg.Strategy.MinConsecutiveBars)

	breakdown := QualityBreakdown{
		Factors: []QualityFactor{
			{Name: "trend alignment", Points: cfg.Quality.TrendAlignment, Met: trendAligned},
			{Name: "momentum", Points: cfg.Quality.Momentum, Met: momentumAligned},
			{Name: "volume confirmation", Points: cfg.Quality.VolumeConfirmation, Met: volumeConfirmed},
			{Name: "volatility band", Points: cfg.Quality.VolatilityBand, Met: volatilityAcceptable},
			{Name: "oscillator position", Points: cfg.Quality.OscillatorPosition, Met: oscillatorFavorable},
			{Name: "level proximity", Points: cfg.Quality.LevelProximity, Met: levelBacked},
			{Name: "consecutive bars", Points: cfg.Quality.ConsecutiveBars, Met: consecutiveAligned},
		},
	}

	var points float64
	for idx := range breakdown.Factors {
		if breakdown.Factors[idx].Met {
			points += breakdown.Factors[idx].Points
		}
	}
	breakdown.Score = points / qualityScale

	return breakdown
}
