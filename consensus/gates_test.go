package consensus

import (
	"strings"
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestTallyConfidence(t *testing.T) {
	// Ensure an empty tally has zero confidence.
	empty := &tally{}
	assert.Equal(t, empty.confidence(), float64(0))

	// Ensure confidence is the weight scaled average strength.
	side := &tally{votes: 2, weight: 2, weightedStrength: 1.5}
	assert.Equal(t, side.confidence(), 0.75)
}

func TestApplyGates(t *testing.T) {
	cfg := DefaultConfig()

	// Ensure a candidate clearing every floor is approved.
	approved, reason := applyGates(&candidate{confidence: 0.8, quality: 0.75, votes: 5, opposing: 1}, &cfg)
	assert.True(t, approved)
	assert.Equal(t, reason, "")

	// Ensure each gate rejects independently.
	approved, reason = applyGates(&candidate{confidence: 0.8, quality: 0.2, votes: 5, opposing: 1}, &cfg)
	assert.False(t, approved)
	assert.True(t, strings.Contains(reason, "quality score"))

	approved, reason = applyGates(&candidate{confidence: 0.4, quality: 0.75, votes: 5, opposing: 1}, &cfg)
	assert.False(t, approved)
	assert.True(t, strings.Contains(reason, "confidence"))

	approved, reason = applyGates(&candidate{confidence: 0.8, quality: 0.75, votes: 2, opposing: 1}, &cfg)
	assert.False(t, approved)
	assert.True(t, strings.Contains(reason, "supporting votes below minimum"))

	approved, reason = applyGates(&candidate{confidence: 0.8, quality: 0.75, votes: 5, opposing: 5}, &cfg)
	assert.False(t, approved)
	assert.True(t, strings.Contains(reason, "no strict majority"))

	// Ensure boundary values pass, the floors are inclusive.
	approved, _ = applyGates(&candidate{
		confidence: cfg.FinalConfidenceFloor,
		quality:    cfg.QualityFloor,
		votes:      cfg.MinVotes,
		opposing:   cfg.MinVotes - 1,
	}, &cfg)
	assert.True(t, approved)

	// Ensure the first failing gate supplies the rejection reason.
	_, reason = applyGates(&candidate{confidence: 0.1, quality: 0.1, votes: 0, opposing: 0}, &cfg)
	assert.True(t, strings.Contains(reason, "quality score"))
}

func TestGateOrder(t *testing.T) {
	// Ensure the gate sequence is fixed.
	gates := decisionGates()
	names := make([]string, len(gates))
	for idx := range gates {
		names[idx] = gates[idx].name
	}

	assert.Equal(t, names, []string{"quality", "confidence", "votes", "majority"})
}
