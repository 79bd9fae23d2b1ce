package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	PersonalizationHigh  = "high"
	PersonalizationBasic = "basic"
)

// RejectionEmail is the composed rejection communication for one candidate.
// PersonalizationLevel records whether the text came from the generative
// collaborator (high) or the deterministic template (basic); quality metrics
// depend on it.
type RejectionEmail struct {
	CandidateID          string
	CandidateName        string
	Email                string
	Subject              string
	Body                 string
	Score                int
	Reasons              []string
	PersonalizationLevel string
}

var roleKeywords = []string{"engineer", "developer", "manager", "analyst", "specialist"}

// RejectionComposer produces a rejection email per rejected candidate,
// personalized when the collaborator cooperates and templated otherwise.
type RejectionComposer struct {
	generator   TextGenerator
	prompts     *PromptBuilder
	concurrency int
	log         *zap.Logger
}

func NewRejectionComposer(generator TextGenerator, concurrency int, log *zap.Logger) *RejectionComposer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RejectionComposer{
		generator:   generator,
		prompts:     NewPromptBuilder(),
		concurrency: concurrency,
		log:         log,
	}
}

// Compose generates one email per rejected candidate with bounded
// parallelism. No candidate is ever skipped: a failed generation gets the
// template fallback.
func (c *RejectionComposer) Compose(ctx context.Context, rejected []*AnalysisResult, jobDescription string) []RejectionEmail {
	jobTitle := ExtractJobTitle(jobDescription)

	emails := make([]RejectionEmail, len(rejected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, result := range rejected {
		g.Go(func() error {
			emails[i] = c.compose(gctx, result, jobTitle, jobDescription)
			return nil
		})
	}
	_ = g.Wait()

	return emails
}

func (c *RejectionComposer) compose(ctx context.Context, result *AnalysisResult, jobTitle, jobDescription string) RejectionEmail {
	if c.generator == nil || ctx.Err() != nil {
		return c.fallbackEmail(result, jobTitle)
	}

	prompt := c.prompts.BuildRejectionPrompt(result, jobTitle, jobDescription)
	response, err := c.generator.GenerateText(ctx, prompt, 0.7)
	if err != nil {
		c.log.Warn("rejection email generation failed, using template",
			zap.String("file", result.Candidate.Filename),
			zap.Error(err))
		return c.fallbackEmail(result, jobTitle)
	}

	var content struct {
		Subject string `json:"subject"`
		Content string `json:"content"`
	}
	if err := DecodeFirstObject(response, &content); err != nil || content.Subject == "" || content.Content == "" {
		c.log.Warn("rejection email response malformed, using template",
			zap.String("file", result.Candidate.Filename))
		return c.fallbackEmail(result, jobTitle)
	}

	return RejectionEmail{
		CandidateID:          result.Candidate.FileID,
		CandidateName:        result.CandidateName,
		Email:                result.CandidateEmail,
		Subject:              content.Subject,
		Body:                 content.Content,
		Score:                result.Score,
		Reasons:              result.Weaknesses,
		PersonalizationLevel: PersonalizationHigh,
	}
}

func (c *RejectionComposer) fallbackEmail(result *AnalysisResult, jobTitle string) RejectionEmail {
	name := result.CandidateName
	if name == "" {
		name = "Candidate"
	}

	body := fmt.Sprintf(`Dear %s,

Thank you for taking the time to apply for the %s position at our company. We appreciate your interest in joining our team.

After careful review of your application and qualifications, we have decided to move forward with other candidates whose experience more closely aligns with our current requirements.

Specifically, while we were impressed by your background, we found that other candidates had stronger alignment in the following areas:
- Technical skills that more closely match our immediate needs
- Experience level that better fits our current requirements

We encourage you to continue developing your skills and to apply for future opportunities that may be a better fit for your experience level.

Thank you again for your interest in our company.

Best regards,
HR Team`, name, jobTitle)

	return RejectionEmail{
		CandidateID:          result.Candidate.FileID,
		CandidateName:        name,
		Email:                result.CandidateEmail,
		Subject:              fmt.Sprintf("Thank you for your application - %s Position", jobTitle),
		Body:                 body,
		Score:                result.Score,
		Reasons:              result.Weaknesses,
		PersonalizationLevel: PersonalizationBasic,
	}
}

// ExtractJobTitle scans the first three lines of the job description for a
// short line naming a role; everything else falls back to "Position".
func ExtractJobTitle(jobDescription string) string {
	lines := strings.Split(jobDescription, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= 100 {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range roleKeywords {
			if strings.Contains(lower, keyword) {
				return line
			}
		}
	}

	return "Position"
}
