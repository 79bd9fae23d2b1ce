package models

import (
	"time"

	"github.com/google/uuid"
)

type RejectionEmail struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID                uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	CandidateID          string    `gorm:"type:text" json:"candidate_id"`
	CandidateName        string    `gorm:"type:text" json:"candidate_name"`
	Email                string    `gorm:"type:text" json:"email"`
	Subject              string    `gorm:"type:text" json:"subject"`
	Body                 string    `gorm:"type:text" json:"body"`
	PersonalizationLevel string    `gorm:"type:text" json:"personalization_level"`
	CreatedAt            time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`

	Job Job `gorm:"foreignKey:JobID" json:"-"`
}

func (RejectionEmail) TableName() string {
	return "rejection_emails"
}
