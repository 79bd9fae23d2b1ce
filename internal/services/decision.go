package services

type Decision string

const (
	DecisionShortlist Decision = "shortlist"
	DecisionReject    Decision = "reject"
)

type Tier string

const (
	TierExceptional Tier = "exceptional"
	TierStrong      Tier = "strong"
	TierGood        Tier = "good"
	TierAverage     Tier = "average"
	TierPoor        Tier = "poor"
)

// Decide maps a final score to shortlist or reject. Pure function: the
// threshold is the only input besides the score.
func Decide(score, shortlistThreshold int) Decision {
	if score >= shortlistThreshold {
		return DecisionShortlist
	}
	return DecisionReject
}

// TierFor buckets a score into a qualitative tier.
func TierFor(score int) Tier {
	switch {
	case score >= 90:
		return TierExceptional
	case score >= 80:
		return TierStrong
	case score >= 70:
		return TierGood
	case score >= 60:
		return TierAverage
	default:
		return TierPoor
	}
}
