package models

import "time"

// ScreenResponse is the synchronous result of POST /screen.
type ScreenResponse struct {
	JobID            string               `json:"job_id"`
	Status           string               `json:"status"`
	Candidates       []CandidateResult    `json:"candidates"`
	RejectionEmails  []RejectionEmailData `json:"rejection_emails"`
	EscalatedCases   []EscalationData     `json:"escalated_cases"`
	TotalProcessed   int                  `json:"total_processed"`
	ShortlistedCount int                  `json:"shortlisted_count"`
	RejectedCount    int                  `json:"rejected_count"`
	AverageScore     float64              `json:"average_score"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
	Quality          QualityData          `json:"quality"`
	Recommendations  []string             `json:"recommendations"`
}

type CandidateResult struct {
	ID       string   `json:"id"`
	FileName string   `json:"file_name"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Score    int      `json:"score"`
	Status   string   `json:"status"`
	Tier     string   `json:"tier"`
	Rank     int      `json:"rank,omitempty"`
	Summary  string   `json:"summary"`
	Skills   []string `json:"skills"`
}

type RejectionEmailData struct {
	CandidateID          string `json:"candidate_id"`
	CandidateName        string `json:"candidate_name"`
	Email                string `json:"email"`
	Subject              string `json:"subject"`
	Body                 string `json:"body"`
	PersonalizationLevel string `json:"personalization_level"`
}

type EscalationData struct {
	CandidateID       string   `json:"candidate_id"`
	FileName          string   `json:"file_name"`
	CandidateName     string   `json:"candidate_name"`
	Score             int      `json:"score"`
	Decision          string   `json:"decision"`
	Reasons           []string `json:"reasons"`
	Priority          string   `json:"priority"`
	RecommendedAction string   `json:"recommended_action"`
}

type QualityData struct {
	Extraction string `json:"extraction"`
	Scoring    string `json:"scoring"`
	Execution  string `json:"execution"`
}

type JobHistory struct {
	ID               string    `json:"id"`
	JobDescription   string    `json:"job_description"`
	TotalProcessed   int       `json:"total_processed"`
	ShortlistedCount int       `json:"shortlisted_count"`
	RejectedCount    int       `json:"rejected_count"`
	AverageScore     float64   `json:"average_score"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

type JobDetails struct {
	JobHistory
	Candidates      []CandidateResult    `json:"candidates"`
	RejectionEmails []RejectionEmailData `json:"rejection_emails"`
}
