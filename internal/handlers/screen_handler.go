package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

// ScreeningWorkflow runs one screening batch end to end.
type ScreeningWorkflow interface {
	Run(ctx context.Context, files []services.InputFile, jobDescription string) (*services.WorkflowReport, error)
}

type screenRequest struct {
	JobDescription string `validate:"required,min=10"`
}

type ScreenHandler struct {
	workflow     ScreeningWorkflow
	jobRepo      repositories.JobRepository
	maxBatchSize int
	validate     *validator.Validate
	log          *zap.Logger
}

func NewScreenHandler(
	workflow ScreeningWorkflow,
	jobRepo repositories.JobRepository,
	maxBatchSize int,
	log *zap.Logger,
) *ScreenHandler {
	return &ScreenHandler{
		workflow:     workflow,
		jobRepo:      jobRepo,
		maxBatchSize: maxBatchSize,
		validate:     validator.New(),
		log:          log,
	}
}

// HandleScreen runs a synchronous screening batch: multipart "resumes" files
// plus a "job_description" field. Results are persisted only when the whole
// run succeeds.
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	userID := UserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	req := screenRequest{
		JobDescription: strings.TrimSpace(c.FormValue("job_description")),
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required and must be at least 10 characters",
		})
	}

	fileHeaders := form.File["resumes"]
	if len(fileHeaders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no resume files uploaded. Attach files under the 'resumes' field",
		})
	}
	if len(fileHeaders) > h.maxBatchSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("too many files: %d uploaded, maximum is %d per batch", len(fileHeaders), h.maxBatchSize),
		})
	}

	files := make([]services.InputFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to open uploaded file %s", header.Filename),
			})
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to read uploaded file %s", header.Filename),
			})
		}
		files = append(files, services.InputFile{
			Filename: header.Filename,
			Content:  content,
		})
	}

	report, err := h.workflow.Run(c.UserContext(), files, req.JobDescription)
	if err != nil {
		var workflowErr *services.WorkflowError
		if errors.As(err, &workflowErr) {
			h.log.Error("screening run failed",
				zap.String("stage", workflowErr.Stage),
				zap.Error(workflowErr.Err))
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": workflowErr.Error(),
				"stage": workflowErr.Stage,
			})
		}
		h.log.Error("screening run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "screening run failed",
		})
	}

	job, candidates, emails := buildPersistenceModels(userID, req.JobDescription, report)
	if err := h.jobRepo.CreateWithResults(job, candidates, emails); err != nil {
		h.log.Error("failed to persist screening results", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to persist screening results",
		})
	}

	return c.Status(fiber.StatusOK).JSON(buildScreenResponse(job.ID.String(), report))
}

func buildPersistenceModels(userID, jobDescription string, report *services.WorkflowReport) (*models.Job, []models.Candidate, []models.RejectionEmail) {
	quality, _ := json.Marshal(report.Quality)

	job := &models.Job{
		UserID:           userID,
		JobDescription:   jobDescription,
		TotalProcessed:   report.ExtractedCount,
		ShortlistedCount: len(report.Shortlist),
		RejectedCount:    len(report.RejectionEmails),
		EscalatedCount:   len(report.Escalations),
		AverageScore:     report.Statistics.AverageScore,
		ProcessingTimeMs: report.ProcessingTime.Milliseconds(),
		QualityMetadata:  string(quality),
	}

	var candidates []models.Candidate
	for _, entry := range report.Shortlist {
		result := entry.Result
		candidates = append(candidates, models.Candidate{
			FileID:   result.Candidate.FileID,
			FileName: result.Candidate.Filename,
			Name:     result.CandidateName,
			Email:    result.CandidateEmail,
			Phone:    result.CandidatePhone,
			Score:    result.Score,
			Status:   models.StatusShortlisted,
			Tier:     string(result.Tier),
			Rank:     entry.Rank,
			Summary:  result.Reasoning,
			Skills:   result.Candidate.Skills,
		})
	}
	for _, result := range report.Results {
		if result.Decision == services.DecisionShortlist {
			continue
		}
		candidates = append(candidates, models.Candidate{
			FileID:   result.Candidate.FileID,
			FileName: result.Candidate.Filename,
			Name:     result.CandidateName,
			Email:    result.CandidateEmail,
			Phone:    result.CandidatePhone,
			Score:    result.Score,
			Status:   models.StatusRejected,
			Tier:     string(result.Tier),
			Summary:  result.Reasoning,
			Skills:   result.Candidate.Skills,
		})
	}

	var emails []models.RejectionEmail
	for _, email := range report.RejectionEmails {
		emails = append(emails, models.RejectionEmail{
			CandidateID:          email.CandidateID,
			CandidateName:        email.CandidateName,
			Email:                email.Email,
			Subject:              email.Subject,
			Body:                 email.Body,
			PersonalizationLevel: email.PersonalizationLevel,
		})
	}

	return job, candidates, emails
}

func buildScreenResponse(jobID string, report *services.WorkflowReport) models.ScreenResponse {
	response := models.ScreenResponse{
		JobID:            jobID,
		Status:           "completed",
		Candidates:       []models.CandidateResult{},
		RejectionEmails:  []models.RejectionEmailData{},
		EscalatedCases:   []models.EscalationData{},
		TotalProcessed:   report.ExtractedCount,
		ShortlistedCount: len(report.Shortlist),
		RejectedCount:    len(report.RejectionEmails),
		AverageScore:     report.Statistics.AverageScore,
		ProcessingTimeMs: report.ProcessingTime.Milliseconds(),
		Quality: models.QualityData{
			Extraction: string(report.Quality.Extraction.Score),
			Scoring:    string(report.Quality.Scoring.Score),
			Execution:  string(report.Quality.Execution.Score),
		},
		Recommendations: report.Quality.Recommendations,
	}

	for _, entry := range report.Shortlist {
		result := entry.Result
		response.Candidates = append(response.Candidates, models.CandidateResult{
			ID:       result.Candidate.FileID,
			FileName: result.Candidate.Filename,
			Name:     result.CandidateName,
			Email:    result.CandidateEmail,
			Phone:    result.CandidatePhone,
			Score:    result.Score,
			Status:   string(models.StatusShortlisted),
			Tier:     string(result.Tier),
			Rank:     entry.Rank,
			Summary:  result.Reasoning,
			Skills:   result.Candidate.Skills,
		})
	}
	for _, result := range report.Results {
		if result.Decision == services.DecisionShortlist {
			continue
		}
		response.Candidates = append(response.Candidates, models.CandidateResult{
			ID:       result.Candidate.FileID,
			FileName: result.Candidate.Filename,
			Name:     result.CandidateName,
			Email:    result.CandidateEmail,
			Phone:    result.CandidatePhone,
			Score:    result.Score,
			Status:   string(models.StatusRejected),
			Tier:     string(result.Tier),
			Summary:  result.Reasoning,
			Skills:   result.Candidate.Skills,
		})
	}

	for _, email := range report.RejectionEmails {
		response.RejectionEmails = append(response.RejectionEmails, models.RejectionEmailData{
			CandidateID:          email.CandidateID,
			CandidateName:        email.CandidateName,
			Email:                email.Email,
			Subject:              email.Subject,
			Body:                 email.Body,
			PersonalizationLevel: email.PersonalizationLevel,
		})
	}

	for _, escalation := range report.Escalations {
		response.EscalatedCases = append(response.EscalatedCases, models.EscalationData{
			CandidateID:       escalation.CandidateID,
			FileName:          escalation.Filename,
			CandidateName:     escalation.CandidateName,
			Score:             escalation.Score,
			Decision:          string(escalation.Decision),
			Reasons:           escalation.Reasons,
			Priority:          string(escalation.Priority),
			RecommendedAction: escalation.RecommendedAction,
		})
	}

	return response
}
