package services

import "math"

type QualityScore string

const (
	QualityHigh   QualityScore = "high"
	QualityMedium QualityScore = "medium"
	QualityLow    QualityScore = "low"
)

// ScoreStatistics summarizes the score distribution of one screening run.
type ScoreStatistics struct {
	TotalCandidates  int            `json:"total_candidates"`
	ShortlistedCount int            `json:"shortlisted_count"`
	RejectedCount    int            `json:"rejected_count"`
	AverageScore     float64        `json:"average_score"`
	HighestScore     int            `json:"highest_score"`
	LowestScore      int            `json:"lowest_score"`
	ShortlistRate    float64        `json:"shortlist_rate"`
	ScoreStdDev      float64        `json:"score_std_dev"`
	Distribution     map[string]int `json:"score_distribution"`
}

// StageQuality is the assessment of a single pipeline stage.
type StageQuality struct {
	Score   QualityScore       `json:"quality_score"`
	Metrics map[string]float64 `json:"metrics"`
}

// QualityAssessment carries per-stage quality tags plus process
// recommendations for the whole run.
type QualityAssessment struct {
	Extraction      StageQuality `json:"data_extraction_quality"`
	Scoring         StageQuality `json:"scoring_quality"`
	Execution       StageQuality `json:"execution_quality"`
	Recommendations []string     `json:"recommendations"`
}

// ComputeStatistics derives the run statistics from all analysis results.
// Std dev is population std dev; fewer than two scores yield zero.
func ComputeStatistics(results []*AnalysisResult) ScoreStatistics {
	stats := ScoreStatistics{
		Distribution: map[string]int{
			"exceptional": 0,
			"strong":      0,
			"good":        0,
			"average":     0,
			"poor":        0,
		},
	}
	if len(results) == 0 {
		return stats
	}

	stats.TotalCandidates = len(results)
	stats.HighestScore = results[0].Score
	stats.LowestScore = results[0].Score

	var sum float64
	for _, result := range results {
		sum += float64(result.Score)
		if result.Score > stats.HighestScore {
			stats.HighestScore = result.Score
		}
		if result.Score < stats.LowestScore {
			stats.LowestScore = result.Score
		}
		if result.Decision == DecisionShortlist {
			stats.ShortlistedCount++
		} else {
			stats.RejectedCount++
		}
		stats.Distribution[string(TierFor(result.Score))]++
	}

	stats.AverageScore = sum / float64(len(results))
	stats.ShortlistRate = float64(stats.ShortlistedCount) / float64(len(results)) * 100

	if len(results) >= 2 {
		var squares float64
		for _, result := range results {
			diff := float64(result.Score) - stats.AverageScore
			squares += diff * diff
		}
		stats.ScoreStdDev = math.Sqrt(squares / float64(len(results)))
	}

	return stats
}

// AssessQuality grades the three stages of a run against fixed thresholds.
func AssessQuality(totalFiles, extracted int, stats ScoreStatistics, emails []RejectionEmail, escalations []EscalationCase, shortlist []ShortlistEntry) QualityAssessment {
	extraction := assessExtraction(totalFiles, extracted)
	scoring := assessScoring(stats)
	execution := assessExecution(stats, emails, escalations)

	return QualityAssessment{
		Extraction:      extraction,
		Scoring:         scoring,
		Execution:       execution,
		Recommendations: processRecommendations(stats, escalations, shortlist),
	}
}

func assessExtraction(totalFiles, extracted int) StageQuality {
	successRate := 100.0
	if totalFiles > 0 {
		successRate = float64(extracted) / float64(totalFiles) * 100
	}

	score := QualityLow
	switch {
	case successRate >= 90:
		score = QualityHigh
	case successRate >= 70:
		score = QualityMedium
	}

	return StageQuality{
		Score: score,
		Metrics: map[string]float64{
			"success_rate":           successRate,
			"total_files":            float64(totalFiles),
			"successful_extractions": float64(extracted),
		},
	}
}

func assessScoring(stats ScoreStatistics) StageQuality {
	score := QualityHigh
	// Tight clustering suggests the scorer is not discriminating
	if stats.ScoreStdDev < 10 {
		score = QualityMedium
	}
	if stats.ShortlistRate < 10 || stats.ShortlistRate > 40 {
		score = QualityLow
	}

	return StageQuality{
		Score: score,
		Metrics: map[string]float64{
			"score_std_dev":  stats.ScoreStdDev,
			"shortlist_rate": stats.ShortlistRate,
			"average_score":  stats.AverageScore,
		},
	}
}

func assessExecution(stats ScoreStatistics, emails []RejectionEmail, escalations []EscalationCase) StageQuality {
	personalizationRate := 100.0
	if len(emails) > 0 {
		personalized := 0
		for _, email := range emails {
			if email.PersonalizationLevel == PersonalizationHigh {
				personalized++
			}
		}
		personalizationRate = float64(personalized) / float64(len(emails)) * 100
	}

	escalationRate := 0.0
	if stats.TotalCandidates > 0 {
		escalationRate = float64(len(escalations)) / float64(stats.TotalCandidates) * 100
	}

	score := QualityHigh
	if personalizationRate < 80 {
		score = QualityMedium
	}
	if escalationRate > 30 {
		score = QualityLow
	}

	return StageQuality{
		Score: score,
		Metrics: map[string]float64{
			"personalization_rate": personalizationRate,
			"escalation_rate":      escalationRate,
			"emails_generated":     float64(len(emails)),
		},
	}
}

func processRecommendations(stats ScoreStatistics, escalations []EscalationCase, shortlist []ShortlistEntry) []string {
	var recommendations []string

	if stats.TotalCandidates > 0 {
		if stats.ShortlistRate > 50 {
			recommendations = append(recommendations, "High shortlist rate detected - consider tightening criteria")
		} else if stats.ShortlistRate < 10 {
			recommendations = append(recommendations, "Low shortlist rate - consider reviewing job requirements")
		}

		if float64(len(escalations)) > float64(stats.TotalCandidates)*0.3 {
			recommendations = append(recommendations, "High escalation rate - consider improving AI training data")
		}
	}

	if len(shortlist) > 0 {
		var sum float64
		for _, entry := range shortlist {
			sum += float64(entry.Result.Score)
		}
		if sum/float64(len(shortlist)) < 80 {
			recommendations = append(recommendations, "Average shortlist score is low - review selection criteria")
		}
	}

	return recommendations
}
