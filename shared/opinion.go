package shared

import "time"

// Opinion represents one strategy's directional output for an evaluation cycle.
type Opinion struct {
	// Strategy is the registry name of the strategy that produced the opinion.
	Strategy string
	// Direction is the proposed trade direction.
	Direction Direction
	// Strength is the conviction of the opinion in [0,1]. Hold opinions
	// always carry zero strength.
	Strength float64
	// Reason is the human readable justification for the opinion.
	Reason string
}

// NewHoldOpinion initializes a neutral opinion for the provided strategy.
func NewHoldOpinion(strategy string, reason string) Opinion {
	return Opinion{
		Strategy:  strategy,
		Direction: Hold,
		Reason:    reason,
	}
}

// ValidationResult represents the outcome of validating a raw indicator
// event against its qualifying checks.
type ValidationResult struct {
	// Accepted indicates whether the event passed every check.
	Accepted bool
	// Confidence is the validation confidence in [0,1], zero when rejected.
	Confidence float64
	// Reason describes the first failing check, or the acceptance grounds.
	Reason string
}

// Decision represents the consensus engine's single outcome for a cycle.
type Decision struct {
	// Direction is the approved trade direction, Hold when no side cleared
	// the decision gates.
	Direction Direction
	// Confidence is the weighted vote confidence for the approved side.
	Confidence float64
	// QualityScore is the independent setup favorability measure in [0,1].
	QualityScore float64
	// SupportingVotes is the number of strategies that voted the approved side.
	SupportingVotes uint32
	// Reason describes the approval grounds or the highest ranked rejection.
	Reason string
}

// OrderIntent represents a sized order derived from a non-hold decision.
type OrderIntent struct {
	EntryPrice   float64
	StopDistance float64
	Quantity     int64
}

// SignalRecord is the structured record the persistence collaborator accepts.
type SignalRecord struct {
	Market    string
	CreatedOn time.Time
	// Category labels the record source, a strategy name or "consensus".
	Category  string
	Direction Direction
	Detail    string
}
