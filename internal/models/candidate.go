package models

import (
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	StatusShortlisted CandidateStatus = "shortlisted"
	StatusRejected    CandidateStatus = "rejected"
)

type Candidate struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	FileID    string          `gorm:"type:text" json:"file_id"`
	FileName  string          `gorm:"type:text" json:"file_name"`
	Name      string          `gorm:"type:text" json:"name"`
	Email     string          `gorm:"type:text" json:"email"`
	Phone     string          `gorm:"type:text" json:"phone"`
	Score     int             `gorm:"not null" json:"score"`
	Status    CandidateStatus `gorm:"not null" json:"status"`
	Tier      string          `gorm:"type:text" json:"tier"`
	Rank      int             `json:"rank"`
	Summary   string          `gorm:"type:text" json:"summary"`
	Skills    []string        `gorm:"type:jsonb;serializer:json" json:"skills"`
	CreatedAt time.Time       `gorm:"type:timestamp;default:now()" json:"created_at"`

	Job Job `gorm:"foreignKey:JobID" json:"-"`
}

func (Candidate) TableName() string {
	return "candidates"
}
