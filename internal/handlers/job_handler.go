package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type JobHandler struct {
	jobRepo       repositories.JobRepository
	candidateRepo repositories.CandidateRepository
	emailRepo     repositories.RejectionEmailRepository
	log           *zap.Logger
}

func NewJobHandler(
	jobRepo repositories.JobRepository,
	candidateRepo repositories.CandidateRepository,
	emailRepo repositories.RejectionEmailRepository,
	log *zap.Logger,
) *JobHandler {
	return &JobHandler{
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		emailRepo:     emailRepo,
		log:           log,
	}
}

// HandleHistory lists the caller's screening runs, newest first.
func (h *JobHandler) HandleHistory(c *fiber.Ctx) error {
	userID := UserID(c)

	jobs, err := h.jobRepo.FindByUser(userID)
	if err != nil {
		h.log.Error("failed to load job history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load job history",
		})
	}

	history := make([]models.JobHistory, 0, len(jobs))
	for _, job := range jobs {
		history = append(history, jobHistoryFrom(&job))
	}

	return c.JSON(fiber.Map{
		"jobs": history,
	})
}

// HandleDetails returns one run with its candidates and rejection emails.
// Runs belong to the user who created them; anyone else gets 403.
func (h *JobHandler) HandleDetails(c *fiber.Ctx) error {
	userID := UserID(c)

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job id",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job not found",
			})
		}
		h.log.Error("failed to load job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load job",
		})
	}

	if job.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "you do not have access to this job",
		})
	}

	candidates, err := h.candidateRepo.FindByJob(job.ID)
	if err != nil {
		h.log.Error("failed to load candidates", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load candidates",
		})
	}

	emails, err := h.emailRepo.FindByJob(job.ID)
	if err != nil {
		h.log.Error("failed to load rejection emails", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load rejection emails",
		})
	}

	details := models.JobDetails{
		JobHistory:      jobHistoryFrom(job),
		Candidates:      make([]models.CandidateResult, 0, len(candidates)),
		RejectionEmails: make([]models.RejectionEmailData, 0, len(emails)),
	}

	for _, candidate := range candidates {
		details.Candidates = append(details.Candidates, models.CandidateResult{
			ID:       candidate.FileID,
			FileName: candidate.FileName,
			Name:     candidate.Name,
			Email:    candidate.Email,
			Phone:    candidate.Phone,
			Score:    candidate.Score,
			Status:   string(candidate.Status),
			Tier:     candidate.Tier,
			Rank:     candidate.Rank,
			Summary:  candidate.Summary,
			Skills:   candidate.Skills,
		})
	}

	for _, email := range emails {
		details.RejectionEmails = append(details.RejectionEmails, models.RejectionEmailData{
			CandidateID:          email.CandidateID,
			CandidateName:        email.CandidateName,
			Email:                email.Email,
			Subject:              email.Subject,
			Body:                 email.Body,
			PersonalizationLevel: email.PersonalizationLevel,
		})
	}

	return c.JSON(details)
}

func jobHistoryFrom(job *models.Job) models.JobHistory {
	return models.JobHistory{
		ID:               job.ID.String(),
		JobDescription:   job.JobDescription,
		TotalProcessed:   job.TotalProcessed,
		ShortlistedCount: job.ShortlistedCount,
		RejectedCount:    job.RejectedCount,
		AverageScore:     job.AverageScore,
		ProcessingTimeMs: job.ProcessingTimeMs,
		CreatedAt:        job.CreatedAt,
	}
}
