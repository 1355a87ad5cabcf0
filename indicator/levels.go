package indicator

import (
	"math"
	"sort"

	"github.com/dnldd/quorum/shared"
)

// LevelKind represents the type of price level.
type LevelKind int

const (
	Support LevelKind = iota
	Resistance
)

// String stringifies the provided level kind.
func (l LevelKind) String() string {
	switch l {
	case Support:
		return "support"
	case Resistance:
		return "resistance"
	default:
		return "unknown"
	}
}

// Level represents a detected support or resistance level.
type Level struct {
	Price   float64
	Kind    LevelKind
	Touches int
}

// LevelConfig parameterizes support and resistance detection.
type LevelConfig struct {
	// SwingWindow is the number of bars on each side a swing extreme must
	// dominate.
	SwingWindow int
	// ClusterTolerancePercent is the price tolerance, as a fraction, within
	// which nearby levels merge into one.
	ClusterTolerancePercent float64
	// MaxLevels caps the number of strongest levels returned per side.
	MaxLevels int
}

// DefaultLevelConfig returns the default level detection parameters.
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		SwingWindow:             3,
		ClusterTolerancePercent: 0.005,
		MaxLevels:               5,
	}
}

// DetectLevels finds swing highs and lows in the provided candlesticks,
// clusters nearby extremes by percentage tolerance and counts touches. The
// returned levels are classified against the final close.
func DetectLevels(candles []shared.Candlestick, cfg LevelConfig) []Level {
	if cfg.SwingWindow <= 0 || len(candles) < 2*cfg.SwingWindow+1 {
		return nil
	}

	var swingHighs, swingLows []float64
	for idx := cfg.SwingWindow; idx < len(candles)-cfg.SwingWindow; idx++ {
		high, low := true, true
		for widx := idx - cfg.SwingWindow; widx <= idx+cfg.SwingWindow; widx++ {
			if widx == idx {
				continue
			}
			if candles[widx].High >= candles[idx].High {
				high = false
			}
			if candles[widx].Low <= candles[idx].Low {
				low = false
			}
		}

		if high {
			swingHighs = append(swingHighs, candles[idx].High)
		}
		if low {
			swingLows = append(swingLows, candles[idx].Low)
		}
	}

	lastClose := candles[len(candles)-1].Close
	levels := clusterLevels(swingHighs, cfg.ClusterTolerancePercent)
	levels = append(levels, clusterLevels(swingLows, cfg.ClusterTolerancePercent)...)

	for idx := range levels {
		switch {
		case levels[idx].Price > lastClose:
			levels[idx].Kind = Resistance
		default:
			levels[idx].Kind = Support
		}
	}

	// Strongest levels first, then trim each side to the configured cap.
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].Touches > levels[j].Touches
	})

	var supports, resistances int
	kept := make([]Level, 0, len(levels))
	for idx := range levels {
		switch levels[idx].Kind {
		case Support:
			if cfg.MaxLevels > 0 && supports >= cfg.MaxLevels {
				continue
			}
			supports++
		case Resistance:
			if cfg.MaxLevels > 0 && resistances >= cfg.MaxLevels {
				continue
			}
			resistances++
		}

		kept = append(kept, levels[idx])
	}

	return kept
}

// clusterLevels merges the provided prices into levels, grouping values
// within the provided fractional tolerance of the cluster mean.
func clusterLevels(prices []float64, tolerance float64) []Level {
	if len(prices) == 0 {
		return nil
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	var levels []Level
	clusterSum := sorted[0]
	clusterCount := 1

	for idx := 1; idx < len(sorted); idx++ {
		mean := clusterSum / float64(clusterCount)
		if mean > 0 && math.Abs(sorted[idx]-mean)/mean <= tolerance {
			clusterSum += sorted[idx]
			clusterCount++
			continue
		}

		levels = append(levels, Level{Price: mean, Touches: clusterCount})
		clusterSum = sorted[idx]
		clusterCount = 1
	}

	levels = append(levels, Level{Price: clusterSum / float64(clusterCount), Touches: clusterCount})

	return levels
}

// NearestSupport returns the closest support level below the provided price.
func NearestSupport(levels []Level, price float64) (Level, bool) {
	var nearest Level
	found := false
	for idx := range levels {
		if levels[idx].Kind != Support || levels[idx].Price >= price {
			continue
		}

		if !found || levels[idx].Price > nearest.Price {
			nearest = levels[idx]
			found = true
		}
	}

	return nearest, found
}

// NearestResistance returns the closest resistance level above the provided price.
func NearestResistance(levels []Level, price float64) (Level, bool) {
	var nearest Level
	found := false
	for idx := range levels {
		if levels[idx].Kind != Resistance || levels[idx].Price <= price {
			continue
		}

		if !found || levels[idx].Price < nearest.Price {
			nearest = levels[idx]
			found = true
		}
	}

	return nearest, found
}
