package models

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           string    `gorm:"type:text;not null;index" json:"user_id"`
	JobDescription   string    `gorm:"type:text" json:"job_description"`
	TotalProcessed   int       `gorm:"not null" json:"total_processed"`
	ShortlistedCount int       `gorm:"not null" json:"shortlisted_count"`
	RejectedCount    int       `gorm:"not null" json:"rejected_count"`
	EscalatedCount   int       `gorm:"not null" json:"escalated_count"`
	AverageScore     float64   `gorm:"type:decimal(5,2)" json:"average_score"`
	ProcessingTimeMs int64     `gorm:"not null" json:"processing_time_ms"`
	QualityMetadata  string    `gorm:"type:jsonb" json:"quality_metadata"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
