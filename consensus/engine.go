package consensus

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/quorum/indicator"
	"github.com/dnldd/quorum/market"
	"github.com/dnldd/quorum/position"
	"github.com/dnldd/quorum/shared"
	"github.com/dnldd/quorum/strategy"
)

// Phase represents the stage of an evaluation cycle.
type Phase int

const (
	// Collecting gathers an opinion from every registered strategy.
	Collecting Phase = iota
	// Voting filters opinions into directional votes.
	Voting
	// Scoring measures the majority side's quality.
	Scoring
	// Deciding applies the decision gates.
	Deciding
	// Done marks a finished cycle.
	Done
)

// String stringifies the provided phase.
func (p Phase) String() string {
	switch p {
	case Collecting:
		return "collecting"
	case Voting:
		return "voting"
	case Scoring:
		return "scoring"
	case Deciding:
		return "deciding"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome represents the full result of one evaluation cycle.
type Outcome struct {
	// Opinions holds every strategy opinion keyed by strategy name.
	Opinions map[string]shared.Opinion
	// Decision is the single consensus decision for the cycle.
	Decision shared.Decision
	// Intent is the sized order for a non-hold decision, nil otherwise.
	Intent *shared.OrderIntent
	// Phase is the phase the cycle settled in, Done for a fully gated
	// decision, an earlier phase when the cycle stopped short.
	Phase Phase
}

// Engine aggregates strategy opinions into consensus decisions. An engine
// is stateless across cycles, every evaluation derives its measures fresh
// from the provided window.
type Engine struct {
	cfg      *Config
	registry []strategy.Entry
}

// NewEngine initializes a consensus engine with the provided config.
func NewEngine(cfg *Config) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating consensus config: %w", err)
	}

	return &Engine{
		cfg:      cfg,
		registry: strategy.Registry(),
	}, nil
}

// Evaluate runs one full evaluation cycle over the provided candlesticks
// and returns every opinion alongside the consensus decision.
func (e *Engine) Evaluate(candles []shared.Candlestick) (*Outcome, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("cannot evaluate an empty candlestick window")
	}

	candles = shared.NormalizeCandles(candles)
	if !indicator.HasVolume(candles) {
		candles = indicator.SynthesizeVolume(candles)
	}

	snapshot := market.Analyze(candles, e.cfg.Context)
	levels := indicator.DetectLevels(candles, e.cfg.Strategy.Levels)

	outcome := &Outcome{
		Opinions: e.collect(candles, snapshot),
	}

	// Extreme relative volatility overrides any vote. The opinions are
	// still reported for observability.
	if snapshot.Complete && snapshot.VolatilityRatio >= e.cfg.ExtremeVolatilityRatio {
		outcome.Phase = Collecting
		outcome.Decision = shared.Decision{
			Direction: shared.Hold,
			Reason: fmt.Sprintf("extreme volatility: ratio %.2f at or above %.2f",
				snapshot.VolatilityRatio, e.cfg.ExtremeVolatilityRatio),
		}

		e.logDecision(outcome)
		return outcome, nil
	}

	direction, tallies := e.vote(outcome.Opinions)
	if direction == shared.Hold {
		outcome.Phase = Voting
		outcome.Decision = shared.Decision{
			Direction: shared.Hold,
			Reason:    "no directional majority among accepted opinions",
		}

		e.logDecision(outcome)
		return outcome, nil
	}

	breakdown := scoreQuality(candles, snapshot, levels, direction, e.cfg)

	confidence := tallies[direction].confidence()
	confidence = e.applyMTFBonus(confidence, direction, outcome.Opinions)

	cand := &candidate{
		confidence: confidence,
		quality:    breakdown.Score,
		votes:      tallies[direction].votes,
		opposing:   tallies[direction.Opposite()].votes,
	}

	approved, reason := applyGates(cand, e.cfg)
	if !approved {
		outcome.Phase = Deciding
		outcome.Decision = shared.Decision{
			Direction:       shared.Hold,
			Confidence:      cand.confidence,
			QualityScore:    cand.quality,
			SupportingVotes: cand.votes,
			Reason:          reason,
		}

		e.logDecision(outcome)
		return outcome, nil
	}

	outcome.Phase = Done
	outcome.Decision = shared.Decision{
		Direction:       direction,
		Confidence:      cand.confidence,
		QualityScore:    cand.quality,
		SupportingVotes: cand.votes,
		Reason: fmt.Sprintf("%d strategies agree on %s with %.2f confidence",
			cand.votes, direction.String(), cand.confidence),
	}

	intent, err := e.size(outcome.Decision, candles, snapshot, levels)
	if err != nil {
		return nil, fmt.Errorf("sizing approved decision: %w", err)
	}
	outcome.Intent = intent

	e.logDecision(outcome)
	return outcome, nil
}

// collect gathers an opinion from every registered strategy. A panicking
// strategy is demoted to a hold opinion rather than failing the cycle.
func (e *Engine) collect(candles []shared.Candlestick, snapshot *market.Snapshot) map[string]shared.Opinion {
	opinions := make(map[string]shared.Opinion, len(e.registry))
	for idx := range e.registry {
		entry := e.registry[idx]
		opinions[entry.Name] = e.safeEval(entry, candles, snapshot)
	}

	return opinions
}

// safeEval runs a single strategy evaluator with panic recovery.
func (e *Engine) safeEval(entry strategy.Entry, candles []shared.Candlestick, snapshot *market.Snapshot) (op shared.Opinion) {
	defer func() {
		if r := recover(); r != nil {
			e.cfg.Logger.Error().Str("strategy", entry.Name).
				Msgf("strategy evaluator panicked: %s", spew.Sdump(r))
			op = shared.NewHoldOpinion(entry.Name, fmt.Sprintf("evaluator panicked: %v", r))
		}
	}()

	return entry.Eval(candles, snapshot, &e.cfg.Strategy)
}

// vote partitions accepted opinions into directional tallies and returns
// the majority direction by vote count, hold on an empty or split vote.
func (e *Engine) vote(opinions map[string]shared.Opinion) (shared.Direction, map[shared.Direction]*tally) {
	tallies := map[shared.Direction]*tally{
		shared.Buy:  {},
		shared.Sell: {},
	}

	weights := make(map[string]float64, len(e.registry))
	for idx := range e.registry {
		weight := e.cfg.BaseWeight
		if e.registry[idx].Enhanced {
			weight = e.cfg.EnhancedWeight
		}
		weights[e.registry[idx].Name] = weight
	}

	for name, op := range opinions {
		if op.Direction == shared.Hold || op.Strength < e.cfg.AcceptanceFloor {
			continue
		}

		side := tallies[op.Direction]
		weight := weights[name]
		side.votes++
		side.weight += weight
		side.weightedStrength += weight * op.Strength
	}

	switch {
	case tallies[shared.Buy].votes > tallies[shared.Sell].votes:
		return shared.Buy, tallies
	case tallies[shared.Sell].votes > tallies[shared.Buy].votes:
		return shared.Sell, tallies
	default:
		return shared.Hold, tallies
	}
}

// applyMTFBonus adds the multi-timeframe agreement bonus to the provided
// confidence when the higher timeframe view voted the majority direction.
// The bonus only ever raises confidence, never gates, and the result is
// capped at 1.
func (e *Engine) applyMTFBonus(confidence float64, direction shared.Direction, opinions map[string]shared.Opinion) float64 {
	mtf, ok := opinions[strategy.MTFAlignmentName]
	if !ok || mtf.Direction != direction || mtf.Strength < e.cfg.AcceptanceFloor {
		return confidence
	}

	confidence += e.cfg.MTFBonus
	if confidence > 1 {
		confidence = 1
	}

	return confidence
}

// size derives the order intent for an approved decision.
func (e *Engine) size(decision shared.Decision, candles []shared.Candlestick,
	snapshot *market.Snapshot, levels []indicator.Level) (*shared.OrderIntent, error) {
	highs, lows, closes := shared.Highs(candles), shared.Lows(candles), shared.Closes(candles)
	atr, _ := indicator.ATR(highs, lows, closes, e.cfg.Strategy.ATRPeriod).Last()

	intent, err := position.Size(decision, snapshot.LastClose, atr, levels, e.cfg.Sizer)
	if err != nil {
		return nil, err
	}

	return &intent, nil
}

// logDecision emits the structured decision log for a finished cycle.
func (e *Engine) logDecision(outcome *Outcome) {
	e.cfg.Logger.Info().
		Str("phase", outcome.Phase.String()).
		Str("direction", outcome.Decision.Direction.String()).
		Float64("confidence", outcome.Decision.Confidence).
		Float64("quality", outcome.Decision.QualityScore).
		Uint32("votes", outcome.Decision.SupportingVotes).
		Str("reason", outcome.Decision.Reason).
		Msg("evaluation cycle complete")
}
