package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Enrichment is the interview-guidance payload attached to each shortlisted
// candidate.
type Enrichment struct {
	InterviewFocusAreas   []string `json:"interview_focus_areas"`
	PotentialConcerns     []string `json:"potential_concerns"`
	ValueProposition      string   `json:"value_proposition"`
	NextSteps             string   `json:"next_steps"`
	InterviewQuestions    []string `json:"interview_questions"`
	CulturalFitIndicators []string `json:"cultural_fit_indicators"`
	GrowthPotential       string   `json:"growth_potential"`
}

// ShortlistEntry is a shortlisted candidate with enrichment and final rank.
type ShortlistEntry struct {
	Result     *AnalysisResult
	Enrichment Enrichment
	Enhanced   bool
	Rank       int
}

// defaultEnrichment substitutes when the collaborator fails or returns
// something unusable. The candidate stays on the shortlist either way.
func defaultEnrichment() Enrichment {
	return Enrichment{
		InterviewFocusAreas:   []string{"Technical skills", "Experience relevance"},
		PotentialConcerns:     []string{"None identified"},
		ValueProposition:      "Strong candidate with relevant experience",
		NextSteps:             "Schedule technical interview",
		InterviewQuestions:    []string{"Tell me about your experience with the core technologies in this role"},
		CulturalFitIndicators: []string{"Professional communication"},
		GrowthPotential:       "Good potential for growth",
	}
}

// ShortlistEnhancer enriches shortlisted candidates with interview guidance
// and assigns contiguous ranks by descending score. Ties keep their original
// processing order.
type ShortlistEnhancer struct {
	generator   TextGenerator
	prompts     *PromptBuilder
	concurrency int
	log         *zap.Logger
}

func NewShortlistEnhancer(generator TextGenerator, concurrency int, log *zap.Logger) *ShortlistEnhancer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ShortlistEnhancer{
		generator:   generator,
		prompts:     NewPromptBuilder(),
		concurrency: concurrency,
		log:         log,
	}
}

// Enhance builds the ranked shortlist. Enrichment requests run with bounded
// parallelism; a failed request falls back to the default payload and never
// drops the candidate.
func (e *ShortlistEnhancer) Enhance(ctx context.Context, shortlisted []*AnalysisResult, jobDescription string) []ShortlistEntry {
	entries := make([]ShortlistEntry, len(shortlisted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, result := range shortlisted {
		g.Go(func() error {
			enrichment, enhanced := e.enrich(gctx, result, jobDescription)
			entries[i] = ShortlistEntry{
				Result:     result,
				Enrichment: enrichment,
				Enhanced:   enhanced,
			}
			return nil
		})
	}
	_ = g.Wait()

	// Stable sort keeps original processing order for equal scores
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Result.Score > entries[b].Result.Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

func (e *ShortlistEnhancer) enrich(ctx context.Context, result *AnalysisResult, jobDescription string) (Enrichment, bool) {
	if e.generator == nil {
		return defaultEnrichment(), false
	}
	if err := ctx.Err(); err != nil {
		return defaultEnrichment(), false
	}

	prompt := e.prompts.BuildEnrichmentPrompt(result, jobDescription)
	response, err := e.generator.GenerateText(ctx, prompt, 0.5)
	if err != nil {
		e.log.Warn("shortlist enrichment failed, using default payload",
			zap.String("file", result.Candidate.Filename),
			zap.Error(err))
		return defaultEnrichment(), false
	}

	var enrichment Enrichment
	if err := DecodeFirstObject(response, &enrichment); err != nil {
		e.log.Warn("shortlist enrichment response malformed, using default payload",
			zap.String("file", result.Candidate.Filename),
			zap.Error(err))
		return defaultEnrichment(), false
	}

	fillEnrichmentDefaults(&enrichment)
	return enrichment, true
}

// fillEnrichmentDefaults backfills missing keys so downstream consumers can
// rely on the full payload shape.
func fillEnrichmentDefaults(enrichment *Enrichment) {
	def := defaultEnrichment()
	if len(enrichment.InterviewFocusAreas) == 0 {
		enrichment.InterviewFocusAreas = def.InterviewFocusAreas
	}
	if len(enrichment.PotentialConcerns) == 0 {
		enrichment.PotentialConcerns = def.PotentialConcerns
	}
	if enrichment.ValueProposition == "" {
		enrichment.ValueProposition = def.ValueProposition
	}
	if enrichment.NextSteps == "" {
		enrichment.NextSteps = def.NextSteps
	}
	if len(enrichment.InterviewQuestions) == 0 {
		enrichment.InterviewQuestions = def.InterviewQuestions
	}
	if len(enrichment.CulturalFitIndicators) == 0 {
		enrichment.CulturalFitIndicators = def.CulturalFitIndicators
	}
	if enrichment.GrowthPotential == "" {
		enrichment.GrowthPotential = def.GrowthPotential
	}
}

// Summary renders a one-line shortlist entry for logs.
func (s ShortlistEntry) Summary() string {
	return fmt.Sprintf("#%d %s (%d)", s.Rank, s.Result.CandidateName, s.Result.Score)
}
