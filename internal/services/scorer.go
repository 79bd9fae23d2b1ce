package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
)

// FitAssessment is the sub-score breakdown reported alongside the overall
// score.
type FitAssessment struct {
	Technical  int `json:"technical_fit"`
	Experience int `json:"experience_fit"`
	Education  int `json:"education_fit"`
	Cultural   int `json:"cultural_fit"`
}

// AnalysisResult is the scored, decided view of one candidate. Invariants:
// score in [0,100]; Decision == shortlist exactly when the score clears the
// configured threshold; Tier is a pure function of the score.
type AnalysisResult struct {
	Candidate      *CandidateRecord
	Score          int
	Decision       Decision
	Tier           Tier
	Reasoning      string
	Strengths      []string
	Weaknesses     []string
	Fit            FitAssessment
	Confidence     float64
	RedFlags       []string
	CandidateName  string
	CandidateEmail string
	CandidatePhone string
	Location       string
	Method         string
}

const (
	methodHybrid    = "hybrid_ai_rule_based"
	methodRuleBased = "rule_based"

	// defaultHybridConfidence fills in when a well-formed semantic response
	// omits the confidence field. It sits above the escalation trigger (0.6)
	// so a missing field alone never flags the candidate for review.
	defaultHybridConfidence = 0.8
)

// RuleScores holds the deterministic sub-scores, each in [0,100].
type RuleScores struct {
	SkillMatch int
	Experience int
	Education  int
	Overall    int
}

// SemanticAnalysis is the typed schema expected inside the generative
// collaborator's free-text response. Pointer fields distinguish "absent"
// from zero so validation can fill documented defaults.
type SemanticAnalysis struct {
	CandidateInfo struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location string `json:"location"`
	} `json:"candidate_info"`
	Score         *float64 `json:"score"`
	Reasoning     string   `json:"reasoning"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	FitAssessment *struct {
		TechnicalFit  float64 `json:"technical_fit"`
		ExperienceFit float64 `json:"experience_fit"`
		EducationFit  float64 `json:"education_fit"`
		CulturalFit   float64 `json:"cultural_fit"`
	} `json:"fit_assessment"`
	RedFlags   []string `json:"red_flags"`
	Confidence *float64 `json:"confidence"`
}

var relevantEducationTerms = []string{"computer", "engineering", "science", "technology", "business"}

var advancedDegreeTerms = []string{"master", "phd", "doctorate", "mba"}

// Scorer computes the deterministic rule score for a candidate and blends it
// with the semantic score obtained from the generative collaborator. A
// missing or malformed semantic response never fails the candidate: scoring
// degrades to rule-only with the configured low-confidence constant.
type Scorer struct {
	cfg       config.ScreeningConfig
	generator TextGenerator
	prompts   *PromptBuilder
	log       *zap.Logger
}

func NewScorer(cfg config.ScreeningConfig, generator TextGenerator, log *zap.Logger) *Scorer {
	return &Scorer{
		cfg:       cfg,
		generator: generator,
		prompts:   NewPromptBuilder(),
		log:       log,
	}
}

// Analyze scores one candidate against the job description. retrievedContext
// may be empty; when present it is folded into the semantic-analysis prompt.
func (s *Scorer) Analyze(ctx context.Context, rec *CandidateRecord, jobDescription, retrievedContext string) *AnalysisResult {
	rule := s.RuleScores(rec, jobDescription)

	var semantic *SemanticAnalysis
	if s.generator != nil {
		sem, err := s.requestSemanticAnalysis(ctx, rec, jobDescription, retrievedContext)
		if err != nil {
			s.log.Warn("semantic analysis unavailable, using rule-based scoring",
				zap.String("file", rec.Filename),
				zap.Error(err))
		} else {
			semantic = sem
		}
	}

	return s.combine(rec, rule, semantic)
}

// RuleScores computes the deterministic sub-scores and their weighted
// overall. Re-running on identical inputs always yields identical results.
func (s *Scorer) RuleScores(rec *CandidateRecord, jobDescription string) RuleScores {
	jobDescLower := strings.ToLower(jobDescription)

	skillMatch := s.skillMatchScore(rec.Skills, jobDescLower)
	experience := s.experienceScore(rec.Experience, jobDescLower)
	education := s.educationScore(rec.Education, jobDescLower)

	overall := int(math.Round(
		float64(skillMatch)*s.cfg.SkillWeight +
			float64(experience)*s.cfg.ExperienceWeight +
			float64(education)*s.cfg.EducationWeight,
	))

	return RuleScores{
		SkillMatch: skillMatch,
		Experience: experience,
		Education:  education,
		Overall:    clampScore(overall),
	}
}

func (s *Scorer) skillMatchScore(skills []string, jobDescLower string) int {
	if len(skills) == 0 {
		return 30
	}

	matched := 0
	for _, skill := range skills {
		if strings.Contains(jobDescLower, strings.ToLower(skill)) {
			matched++
		}
	}

	score := math.Min(100, float64(matched)/float64(len(skills))*100)
	if matched >= 5 {
		score = math.Min(100, score+10)
	}

	return int(score)
}

func (s *Scorer) experienceScore(exp ExperienceInfo, jobDescLower string) int {
	var score int
	switch {
	case exp.MaxYears >= 5:
		score = 90
	case exp.MaxYears >= 3:
		score = 75
	case exp.MaxYears >= 1:
		score = 60
	default:
		score = 40
	}

	for _, title := range exp.JobTitles {
		if strings.Contains(jobDescLower, strings.ToLower(title)) {
			score += 5
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

func (s *Scorer) educationScore(education []string, jobDescLower string) int {
	if len(education) == 0 {
		return 50
	}

	score := 60

	for _, edu := range education {
		eduLower := strings.ToLower(edu)
		for _, term := range relevantEducationTerms {
			if strings.Contains(eduLower, term) && strings.Contains(jobDescLower, term) {
				score += 10
			}
		}
	}

	for _, edu := range education {
		eduLower := strings.ToLower(edu)
		hasAdvanced := false
		for _, degree := range advancedDegreeTerms {
			if strings.Contains(eduLower, degree) {
				hasAdvanced = true
				break
			}
		}
		if hasAdvanced {
			score += 15
			break
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

func (s *Scorer) requestSemanticAnalysis(ctx context.Context, rec *CandidateRecord, jobDescription, retrievedContext string) (*SemanticAnalysis, error) {
	prompt := s.prompts.BuildAnalysisPrompt(rec, jobDescription, retrievedContext)

	response, err := s.generator.GenerateText(ctx, prompt, 0.3)
	if err != nil {
		return nil, fmt.Errorf("semantic analysis request failed: %w", err)
	}

	var analysis SemanticAnalysis
	if err := DecodeFirstObject(response, &analysis); err != nil {
		return nil, fmt.Errorf("semantic analysis response malformed: %w", err)
	}

	if analysis.Score == nil {
		return nil, fmt.Errorf("semantic analysis response missing score")
	}

	return &analysis, nil
}

func (s *Scorer) combine(rec *CandidateRecord, rule RuleScores, semantic *SemanticAnalysis) *AnalysisResult {
	result := &AnalysisResult{
		Candidate: rec,
		Fit: FitAssessment{
			Technical:  rule.SkillMatch,
			Experience: rule.Experience,
			Education:  rule.Education,
		},
	}

	if semantic != nil {
		semScore := clampScore(int(math.Round(*semantic.Score)))
		result.Score = clampScore(int(math.Round(
			float64(semScore)*s.cfg.SemanticWeight + float64(rule.Overall)*s.cfg.RuleWeight,
		)))
		result.Method = methodHybrid
		result.Reasoning = semantic.Reasoning
		result.Strengths = semantic.Strengths
		result.Weaknesses = semantic.Weaknesses
		result.RedFlags = semantic.RedFlags
		result.CandidateName = semantic.CandidateInfo.Name
		result.CandidateEmail = semantic.CandidateInfo.Email
		result.CandidatePhone = semantic.CandidateInfo.Phone
		result.Location = semantic.CandidateInfo.Location

		if semantic.Confidence != nil {
			result.Confidence = *semantic.Confidence
		} else {
			result.Confidence = defaultHybridConfidence
		}

		if semantic.FitAssessment != nil {
			result.Fit = FitAssessment{
				Technical:  clampScore(int(math.Round(semantic.FitAssessment.TechnicalFit))),
				Experience: clampScore(int(math.Round(semantic.FitAssessment.ExperienceFit))),
				Education:  clampScore(int(math.Round(semantic.FitAssessment.EducationFit))),
				Cultural:   clampScore(int(math.Round(semantic.FitAssessment.CulturalFit))),
			}
		} else {
			result.Fit.Cultural = result.Score
		}
	} else {
		result.Score = rule.Overall
		result.Method = methodRuleBased
		result.Reasoning = fmt.Sprintf("Rule-based analysis: score %d/100 (skills %d, experience %d, education %d)",
			rule.Overall, rule.SkillMatch, rule.Experience, rule.Education)
		result.Confidence = s.cfg.RuleOnlyConfidence
		result.Fit.Cultural = rule.Overall
	}

	if result.Reasoning == "" {
		result.Reasoning = fmt.Sprintf("Candidate scored %d/100", result.Score)
	}
	if len(result.Strengths) == 0 {
		result.Strengths = defaultStrengths(rec)
	}
	if len(result.Weaknesses) == 0 && semantic == nil {
		result.Weaknesses = []string{"Detailed analysis unavailable"}
	}

	if result.CandidateName == "" {
		result.CandidateName = fallbackName(rec)
	}
	if result.CandidateEmail == "" && len(rec.Contact.Emails) > 0 {
		result.CandidateEmail = rec.Contact.Emails[0]
	}
	if result.CandidatePhone == "" && len(rec.Contact.Phones) > 0 {
		result.CandidatePhone = rec.Contact.Phones[0]
	}

	result.Decision = Decide(result.Score, s.cfg.ShortlistThreshold)
	result.Tier = TierFor(result.Score)

	return result
}

func defaultStrengths(rec *CandidateRecord) []string {
	var strengths []string
	if len(rec.Skills) > 0 {
		strengths = append(strengths, "Skills identified")
	}
	if rec.Experience.MaxYears > 0 {
		strengths = append(strengths, "Experience detected")
	}
	if len(strengths) == 0 {
		strengths = []string{"Resume submitted"}
	}
	return strengths
}

func fallbackName(rec *CandidateRecord) string {
	if len(rec.Contact.PotentialNames) > 0 {
		return rec.Contact.PotentialNames[0]
	}
	return "Candidate"
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
