package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

type CandidateRepository interface {
	CreateBatch(candidates []models.Candidate) error
	FindByJob(jobID uuid.UUID) ([]models.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// CreateBatch implements CandidateRepository.
func (r *candidateRepository) CreateBatch(candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	if err := r.db.Create(&candidates).Error; err != nil {
		return fmt.Errorf("failed to create candidates: %w", err)
	}
	return nil
}

// FindByJob implements CandidateRepository.
func (r *candidateRepository) FindByJob(jobID uuid.UUID) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.
		Where("job_id = ?", jobID).
		Order("score DESC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return candidates, nil
}
