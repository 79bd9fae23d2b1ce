package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(job *models.Job) error
	CreateWithResults(job *models.Job, candidates []models.Candidate, emails []models.RejectionEmail) error
	FindByID(id uuid.UUID) (*models.Job, error)
	FindByUser(userID string) ([]models.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create implements JobRepository.
func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// CreateWithResults implements JobRepository. The job and its results are
// written in one transaction so a failed run never leaves partial rows.
func (r *jobRepository) CreateWithResults(job *models.Job, candidates []models.Candidate, emails []models.RejectionEmail) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		for i := range candidates {
			candidates[i].JobID = job.ID
		}
		if len(candidates) > 0 {
			if err := tx.Create(&candidates).Error; err != nil {
				return err
			}
		}
		for i := range emails {
			emails[i].JobID = job.ID
		}
		if len(emails) > 0 {
			if err := tx.Create(&emails).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist screening results: %w", err)
	}
	return nil
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// FindByUser implements JobRepository.
func (r *jobRepository) FindByUser(userID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs for user: %w", err)
	}
	return jobs, nil
}
