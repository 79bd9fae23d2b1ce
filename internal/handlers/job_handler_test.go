package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type stubJobRepo struct {
	jobs map[uuid.UUID]*models.Job
}

func (s *stubJobRepo) Create(job *models.Job) error { return nil }

func (s *stubJobRepo) CreateWithResults(job *models.Job, candidates []models.Candidate, emails []models.RejectionEmail) error {
	return nil
}

func (s *stubJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	if job, ok := s.jobs[id]; ok {
		return job, nil
	}
	return nil, repositories.ErrJobNotFound
}

func (s *stubJobRepo) FindByUser(userID string) ([]models.Job, error) {
	var jobs []models.Job
	for _, job := range s.jobs {
		if job.UserID == userID {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}

type stubCandidateRepo struct {
	candidates []models.Candidate
}

func (s *stubCandidateRepo) CreateBatch(candidates []models.Candidate) error { return nil }

func (s *stubCandidateRepo) FindByJob(jobID uuid.UUID) ([]models.Candidate, error) {
	return s.candidates, nil
}

type stubEmailRepo struct {
	emails []models.RejectionEmail
}

func (s *stubEmailRepo) CreateBatch(emails []models.RejectionEmail) error { return nil }

func (s *stubEmailRepo) FindByJob(jobID uuid.UUID) ([]models.RejectionEmail, error) {
	return s.emails, nil
}

func jobTestApp(jobRepo repositories.JobRepository, candidateRepo repositories.CandidateRepository, emailRepo repositories.RejectionEmailRepository) *fiber.App {
	app := fiber.New()
	handler := NewJobHandler(jobRepo, candidateRepo, emailRepo, zap.NewNop())
	app.Get("/jobs", JWTAuth(testSecret), handler.HandleHistory)
	app.Get("/jobs/:id", JWTAuth(testSecret), handler.HandleDetails)
	return app
}

func TestHandleHistory(t *testing.T) {
	jobID := uuid.New()
	repo := &stubJobRepo{jobs: map[uuid.UUID]*models.Job{
		jobID: {ID: jobID, UserID: "user-1", JobDescription: "Backend role", TotalProcessed: 5},
	}}
	app := jobTestApp(repo, &stubCandidateRepo{}, &stubEmailRepo{})

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Jobs []models.JobHistory `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Jobs, 1)
	assert.Equal(t, jobID.String(), payload.Jobs[0].ID)
	assert.Equal(t, 5, payload.Jobs[0].TotalProcessed)
}

func TestHandleHistoryOtherUsersJobsHidden(t *testing.T) {
	jobID := uuid.New()
	repo := &stubJobRepo{jobs: map[uuid.UUID]*models.Job{
		jobID: {ID: jobID, UserID: "someone-else"},
	}}
	app := jobTestApp(repo, &stubCandidateRepo{}, &stubEmailRepo{})

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload struct {
		Jobs []models.JobHistory `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Empty(t, payload.Jobs)
}

func TestHandleDetailsInvalidID(t *testing.T) {
	app := jobTestApp(&stubJobRepo{}, &stubCandidateRepo{}, &stubEmailRepo{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleDetailsNotFound(t *testing.T) {
	app := jobTestApp(&stubJobRepo{jobs: map[uuid.UUID]*models.Job{}}, &stubCandidateRepo{}, &stubEmailRepo{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.New().String(), nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleDetailsForbiddenForOtherUser(t *testing.T) {
	jobID := uuid.New()
	repo := &stubJobRepo{jobs: map[uuid.UUID]*models.Job{
		jobID: {ID: jobID, UserID: "owner"},
	}}
	app := jobTestApp(repo, &stubCandidateRepo{}, &stubEmailRepo{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+jobID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "intruder"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestHandleDetailsSuccess(t *testing.T) {
	jobID := uuid.New()
	repo := &stubJobRepo{jobs: map[uuid.UUID]*models.Job{
		jobID: {ID: jobID, UserID: "user-1", JobDescription: "Backend role", ShortlistedCount: 1, RejectedCount: 1},
	}}
	candidateRepo := &stubCandidateRepo{candidates: []models.Candidate{
		{JobID: jobID, FileID: "f1", Name: "Jane Doe", Score: 88, Status: models.StatusShortlisted, Rank: 1},
		{JobID: jobID, FileID: "f2", Name: "John Roe", Score: 50, Status: models.StatusRejected},
	}}
	emailRepo := &stubEmailRepo{emails: []models.RejectionEmail{
		{JobID: jobID, CandidateID: "f2", CandidateName: "John Roe", Subject: "Thank you", PersonalizationLevel: "basic"},
	}}
	app := jobTestApp(repo, candidateRepo, emailRepo)

	req := httptest.NewRequest(http.MethodGet, "/jobs/"+jobID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var details models.JobDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&details))
	assert.Equal(t, jobID.String(), details.ID)
	require.Len(t, details.Candidates, 2)
	assert.Equal(t, "Jane Doe", details.Candidates[0].Name)
	require.Len(t, details.RejectionEmails, 1)
	assert.Equal(t, "John Roe", details.RejectionEmails[0].CandidateName)
}
