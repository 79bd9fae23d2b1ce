package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	assert.Equal(t, DecisionShortlist, Decide(75, 75))
	assert.Equal(t, DecisionShortlist, Decide(100, 75))
	assert.Equal(t, DecisionReject, Decide(74, 75))
	assert.Equal(t, DecisionReject, Decide(0, 75))

	// custom threshold
	assert.Equal(t, DecisionShortlist, Decide(60, 60))
	assert.Equal(t, DecisionReject, Decide(59, 60))
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score int
		tier  Tier
	}{
		{100, TierExceptional},
		{90, TierExceptional},
		{89, TierStrong},
		{82, TierStrong},
		{80, TierStrong},
		{79, TierGood},
		{70, TierGood},
		{69, TierAverage},
		{60, TierAverage},
		{59, TierPoor},
		{58, TierPoor},
		{0, TierPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tier, TierFor(tt.score), "score %d", tt.score)
	}
}
