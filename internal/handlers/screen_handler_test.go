package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const testSecret = "test-secret"

type fakeWorkflow struct {
	report *services.WorkflowReport
	err    error

	gotFiles          []services.InputFile
	gotJobDescription string
}

func (f *fakeWorkflow) Run(ctx context.Context, files []services.InputFile, jobDescription string) (*services.WorkflowReport, error) {
	f.gotFiles = files
	f.gotJobDescription = jobDescription
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeJobRepo struct {
	created *models.Job
	err     error
}

func (f *fakeJobRepo) Create(job *models.Job) error { return f.err }

func (f *fakeJobRepo) CreateWithResults(job *models.Job, candidates []models.Candidate, emails []models.RejectionEmail) error {
	if f.err != nil {
		return f.err
	}
	job.ID = uuid.New()
	f.created = job
	return nil
}

func (f *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) { return nil, f.err }

func (f *fakeJobRepo) FindByUser(userID string) ([]models.Job, error) { return nil, f.err }

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func screeningApp(workflow ScreeningWorkflow, repo *fakeJobRepo) *fiber.App {
	app := fiber.New()
	handler := NewScreenHandler(workflow, repo, 20, zap.NewNop())
	app.Post("/screen", JWTAuth(testSecret), handler.HandleScreen)
	return app
}

func multipartRequest(t *testing.T, jobDescription string, filenames ...string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if jobDescription != "" {
		require.NoError(t, writer.WriteField("job_description", jobDescription))
	}
	for _, name := range filenames {
		part, err := writer.CreateFormFile("resumes", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("resume content"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/screen", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func minimalReport() *services.WorkflowReport {
	result := &services.AnalysisResult{
		Candidate:     &services.CandidateRecord{FileID: "f1", Filename: "jane.txt"},
		Score:         88,
		Decision:      services.DecisionShortlist,
		Tier:          services.TierFor(88),
		CandidateName: "Jane Doe",
	}
	return &services.WorkflowReport{
		RunID:          uuid.New().String(),
		TotalFiles:     1,
		ExtractedCount: 1,
		Results:        []*services.AnalysisResult{result},
		Shortlist:      []services.ShortlistEntry{{Result: result, Rank: 1}},
		Statistics:     services.ComputeStatistics([]*services.AnalysisResult{result}),
	}
}

func TestHandleScreenRequiresAuth(t *testing.T) {
	app := screeningApp(&fakeWorkflow{report: minimalReport()}, &fakeJobRepo{})

	req := multipartRequest(t, "A job description long enough", "jane.txt")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleScreenRejectsBlankJobDescription(t *testing.T) {
	app := screeningApp(&fakeWorkflow{report: minimalReport()}, &fakeJobRepo{})

	req := multipartRequest(t, "   ", "jane.txt")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleScreenRejectsMissingFiles(t *testing.T) {
	app := screeningApp(&fakeWorkflow{report: minimalReport()}, &fakeJobRepo{})

	req := multipartRequest(t, "A job description long enough")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleScreenRejectsOversizedBatch(t *testing.T) {
	app := screeningApp(&fakeWorkflow{report: minimalReport()}, &fakeJobRepo{})

	names := make([]string, 21)
	for i := range names {
		names[i] = "resume.txt"
	}
	req := multipartRequest(t, "A job description long enough", names...)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "maximum is 20")
}

func TestHandleScreenSuccess(t *testing.T) {
	workflow := &fakeWorkflow{report: minimalReport()}
	repo := &fakeJobRepo{}
	app := screeningApp(workflow, repo)

	req := multipartRequest(t, "Backend engineer wanted for platform team", "jane.txt")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "Backend engineer wanted for platform team", workflow.gotJobDescription)
	require.Len(t, workflow.gotFiles, 1)
	assert.Equal(t, "jane.txt", workflow.gotFiles[0].Filename)

	require.NotNil(t, repo.created)
	assert.Equal(t, "user-1", repo.created.UserID)
	assert.Equal(t, 1, repo.created.ShortlistedCount)

	var response models.ScreenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	assert.Equal(t, "completed", response.Status)
	assert.Equal(t, repo.created.ID.String(), response.JobID)
	require.Len(t, response.Candidates, 1)
	assert.Equal(t, "Jane Doe", response.Candidates[0].Name)
	assert.Equal(t, 1, response.Candidates[0].Rank)
}

func TestHandleScreenWorkflowFailure(t *testing.T) {
	workflow := &fakeWorkflow{err: &services.WorkflowError{
		Stage: services.StageExtraction,
		Err:   errors.New("no resumes could be extracted"),
	}}
	repo := &fakeJobRepo{}
	app := screeningApp(workflow, repo)

	req := multipartRequest(t, "A job description long enough", "broken.docx")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Nil(t, repo.created, "failed runs persist nothing")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), services.StageExtraction)
}

func TestHandleScreenPersistenceFailure(t *testing.T) {
	workflow := &fakeWorkflow{report: minimalReport()}
	repo := &fakeJobRepo{err: errors.New("db down")}
	app := screeningApp(workflow, repo)

	req := multipartRequest(t, "A job description long enough", "jane.txt")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user-1"))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
