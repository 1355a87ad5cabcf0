package consensus

import "fmt"

// tally aggregates the vote for one side of an evaluation cycle.
type tally struct {
	// votes is the number of strategies on this side.
	votes uint32
	// weight is the summed vote weight of this side.
	weight float64
	// weightedStrength is the weight scaled strength sum of this side.
	weightedStrength float64
}

// confidence returns the weighted average strength of the tally.
func (t *tally) confidence() float64 {
	if t.weight == 0 {
		return 0
	}
	return t.weightedStrength / t.weight
}

// gate is a named approval check applied to a candidate decision. Gates run
// in a fixed order and the first failing gate's reason becomes the
// rejection reason.
type gate struct {
	name  string
	check func(c *candidate, cfg *Config) (bool, string)
}

// candidate carries the majority side's measures through the decision gates.
type candidate struct {
	confidence float64
	quality    float64
	votes      uint32
	opposing   uint32
}

// decisionGates returns the approval checks in their fixed evaluation order.
func decisionGates() []gate {
	return []gate{
		{
			name: "quality",
			check: func(c *candidate, cfg *Config) (bool, string) {
				if c.quality < cfg.QualityFloor {
					return false, fmt.Sprintf("quality score %.2f below floor %.2f", c.quality, cfg.QualityFloor)
				}
				return true, ""
			},
		},
		{
			name: "confidence",
			check: func(c *candidate, cfg *Config) (bool, string) {
				if c.confidence < cfg.FinalConfidenceFloor {
					return false, fmt.Sprintf("confidence %.2f below floor %.2f", c.confidence, cfg.FinalConfidenceFloor)
				}
				return true, ""
			},
		},
		{
			name: "votes",
			check: func(c *candidate, cfg *Config) (bool, string) {
				if c.votes < cfg.MinVotes {
					return false, fmt.Sprintf("%d supporting votes below minimum %d", c.votes, cfg.MinVotes)
				}
				return true, ""
			},
		},
		{
			name: "majority",
			check: func(c *candidate, cfg *Config) (bool, string) {
				if c.votes <= c.opposing {
					return false, fmt.Sprintf("no strict majority: %d for vs %d against", c.votes, c.opposing)
				}
				return true, ""
			},
		},
	}
}

// applyGates runs the decision gates in order and returns the first failing
// gate's reason, or approval.
func applyGates(c *candidate, cfg *Config) (bool, string) {
	for _, g := range decisionGates() {
		passed, reason := g.check(c, cfg)
		if !passed {
			return false, reason
		}
	}

	return true, ""
}
