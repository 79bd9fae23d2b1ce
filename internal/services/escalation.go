package services

import (
	"fmt"
	"strings"
)

type EscalationPriority string

const (
	PriorityLow    EscalationPriority = "low"
	PriorityMedium EscalationPriority = "medium"
	PriorityHigh   EscalationPriority = "high"
)

// EscalationCase flags one candidate for human review. It is orthogonal to
// the shortlist/reject decision: shortlisted candidates escalate too.
type EscalationCase struct {
	CandidateID       string
	Filename          string
	CandidateName     string
	Score             int
	Decision          Decision
	Reasons           []string
	Priority          EscalationPriority
	RecommendedAction string
}

const (
	reasonBorderline  = "Borderline score requiring human review"
	reasonLowAI       = "Low AI confidence in analysis"
	reasonHighScore   = "High score with multiple concerns"
	reasonExceptional = "Exceptional candidate - consider priority processing"
)

// DetectEscalations runs the escalation rules over every analysis result.
// Rules are non-exclusive; a candidate with no matching rule produces no
// case.
func DetectEscalations(results []*AnalysisResult) []EscalationCase {
	var cases []EscalationCase

	for _, result := range results {
		reasons := escalationReasons(result)
		if len(reasons) == 0 {
			continue
		}

		cases = append(cases, EscalationCase{
			CandidateID:       result.Candidate.FileID,
			Filename:          result.Candidate.Filename,
			CandidateName:     result.CandidateName,
			Score:             result.Score,
			Decision:          result.Decision,
			Reasons:           reasons,
			Priority:          escalationPriority(reasons),
			RecommendedAction: recommendedAction(reasons),
		})
	}

	return cases
}

func escalationReasons(result *AnalysisResult) []string {
	var reasons []string

	if result.Score >= 70 && result.Score <= 79 {
		reasons = append(reasons, reasonBorderline)
	}

	if result.Confidence < 0.6 {
		reasons = append(reasons, reasonLowAI)
	}

	if result.Score >= 75 && len(result.Weaknesses) >= 3 {
		reasons = append(reasons, reasonHighScore)
	}

	if len(result.RedFlags) > 0 {
		reasons = append(reasons, fmt.Sprintf("Red flags identified: %s", strings.Join(result.RedFlags, ", ")))
	}

	if result.Score >= 95 {
		reasons = append(reasons, reasonExceptional)
	}

	return reasons
}

func escalationPriority(reasons []string) EscalationPriority {
	for _, reason := range reasons {
		lower := strings.ToLower(reason)
		if strings.Contains(lower, "exceptional") || strings.Contains(lower, "red flag") {
			return PriorityHigh
		}
	}
	for _, reason := range reasons {
		if strings.Contains(strings.ToLower(reason), "borderline") {
			return PriorityMedium
		}
	}
	return PriorityLow
}

func recommendedAction(reasons []string) string {
	has := func(fragment string) bool {
		for _, reason := range reasons {
			if strings.Contains(strings.ToLower(reason), fragment) {
				return true
			}
		}
		return false
	}

	switch {
	case has("exceptional"):
		return "Fast-track for senior review and immediate interview scheduling"
	case has("red flag"):
		return "Detailed manual review required before proceeding"
	case has("borderline"):
		return "Human recruiter review to make final decision"
	default:
		return "Additional review recommended"
	}
}
