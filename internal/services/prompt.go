package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the semantic-analysis prompt for one candidate.
// retrievedContext is optional job-description context from the retrieval
// layer; empty means none was available.
func (pb *PromptBuilder) BuildAnalysisPrompt(rec *CandidateRecord, jobDescription, retrievedContext string) string {
	contextSection := ""
	if retrievedContext != "" {
		contextSection = fmt.Sprintf("\nRELEVANT JOB DESCRIPTION CONTEXT:\n%s\n", retrievedContext)
	}

	return fmt.Sprintf(`You are an expert HR recruiter and talent acquisition specialist. Analyze this resume against the job description and provide a comprehensive assessment.

JOB DESCRIPTION:
%s
%s
RESUME CONTENT:
%s

STRUCTURED DATA EXTRACTED:
- Emails: %s
- Skills Found: %s
- Max Years of Experience: %d
- Job Titles Found: %s
- Education: %s

Provide a detailed analysis in the following JSON format:

{
    "candidate_info": {
        "name": "Full name of candidate",
        "email": "Email address",
        "phone": "Phone number if available",
        "location": "Location if mentioned"
    },
    "score": 85,
    "reasoning": "Detailed explanation of the score and decision",
    "strengths": ["List", "of", "candidate", "strengths"],
    "weaknesses": ["List", "of", "areas", "for", "improvement"],
    "fit_assessment": {
        "technical_fit": 90,
        "experience_fit": 80,
        "education_fit": 85,
        "cultural_fit": 85
    },
    "red_flags": ["Any", "concerns", "or", "issues"],
    "confidence": 0.9
}

SCORING CRITERIA:
- Technical Skills Match (30%%): How well do their skills align with job requirements?
- Experience Relevance (25%%): Years and quality of relevant experience
- Education Background (15%%): Educational qualifications and relevance
- Career Progression (15%%): Growth trajectory and achievements
- Cultural Fit Indicators (15%%): Communication, leadership, teamwork signs

Score Range:
- 90-100: Exceptional candidate, perfect fit
- 80-89: Strong candidate, very good fit
- 70-79: Good candidate, decent fit
- 60-69: Average candidate, some concerns
- Below 60: Poor fit, significant gaps

Provide only the JSON response, no additional text.`,
		jobDescription,
		contextSection,
		rec.RawText,
		strings.Join(rec.Contact.Emails, ", "),
		strings.Join(rec.Skills, ", "),
		rec.Experience.MaxYears,
		strings.Join(rec.Experience.JobTitles, ", "),
		strings.Join(rec.Education, ", "))
}

// BuildEnrichmentPrompt creates the shortlist-enrichment prompt.
func (pb *PromptBuilder) BuildEnrichmentPrompt(result *AnalysisResult, jobDescription string) string {
	return fmt.Sprintf(`Based on the candidate analysis, provide additional insights for the interview shortlist.

CANDIDATE: %s
SCORE: %d/100
REASONING: %s
STRENGTHS: %s
WEAKNESSES: %s

JOB DESCRIPTION:
%s

Provide enhanced insights in JSON format:
{
    "interview_focus_areas": ["Key areas to explore in interview"],
    "potential_concerns": ["Areas that need clarification"],
    "value_proposition": "Why this candidate stands out",
    "next_steps": "Recommended next steps for this candidate",
    "interview_questions": ["Suggested interview questions"],
    "cultural_fit_indicators": ["Signs of cultural alignment"],
    "growth_potential": "Assessment of the candidate's growth potential"
}

Provide only the JSON response, no additional text.`,
		result.CandidateName,
		result.Score,
		result.Reasoning,
		strings.Join(result.Strengths, "; "),
		strings.Join(result.Weaknesses, "; "),
		jobDescription)
}

// BuildRejectionPrompt creates the personalized rejection-email prompt. The
// job description is truncated to keep the prompt short.
func (pb *PromptBuilder) BuildRejectionPrompt(result *AnalysisResult, jobTitle, jobDescription string) string {
	if len(jobDescription) > 500 {
		jobDescription = jobDescription[:500] + "..."
	}

	return fmt.Sprintf(`Create a professional, empathetic rejection email for a job candidate.

CANDIDATE DETAILS:
- Name: %s
- Score: %d/100
- Strengths: %s
- Areas for improvement: %s
- Reasoning: %s

JOB DETAILS:
- Position: %s
- Job Description: %s

REQUIREMENTS:
1. Professional and empathetic tone
2. Specific feedback based on the candidate's profile
3. Constructive criticism that helps the candidate improve
4. Encouragement for future applications
5. Mention specific strengths to soften the rejection

Provide the email in JSON format:
{
    "subject": "Professional subject line",
    "content": "Complete email content with proper formatting and personalization"
}

The email should be honest but encouraging, specific but not harsh.`,
		result.CandidateName,
		result.Score,
		strings.Join(result.Strengths, "; "),
		strings.Join(result.Weaknesses, "; "),
		result.Reasoning,
		jobTitle,
		jobDescription)
}

// FormatRetrievedContext renders retrieval hits into a prompt section.
func FormatRetrievedContext(chunks []ContextChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var parts []string
	for i, chunk := range chunks {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, chunk.Score, strings.TrimSpace(chunk.Text)))
	}

	return strings.Join(parts, "\n\n")
}
