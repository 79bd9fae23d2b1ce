package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

type RejectionEmailRepository interface {
	CreateBatch(emails []models.RejectionEmail) error
	FindByJob(jobID uuid.UUID) ([]models.RejectionEmail, error)
}

type rejectionEmailRepository struct {
	db *gorm.DB
}

func NewRejectionEmailRepository(db *gorm.DB) RejectionEmailRepository {
	return &rejectionEmailRepository{db: db}
}

// CreateBatch implements RejectionEmailRepository.
func (r *rejectionEmailRepository) CreateBatch(emails []models.RejectionEmail) error {
	if len(emails) == 0 {
		return nil
	}
	if err := r.db.Create(&emails).Error; err != nil {
		return fmt.Errorf("failed to create rejection emails: %w", err)
	}
	return nil
}

// FindByJob implements RejectionEmailRepository.
func (r *rejectionEmailRepository) FindByJob(jobID uuid.UUID) ([]models.RejectionEmail, error) {
	var emails []models.RejectionEmail
	err := r.db.
		Where("job_id = ?", jobID).
		Find(&emails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find rejection emails: %w", err)
	}
	return emails, nil
}
