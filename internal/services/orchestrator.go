package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-screener/internal/config"
)

const (
	StageExtraction = "extraction"
	StageScoring    = "scoring"
	StageExecution  = "execution"
	StageFinalize   = "finalize"
)

// WorkflowError marks a structural failure of one pipeline stage. Per-item
// failures inside a stage never produce one; an empty extraction or a
// cancelled context does.
type WorkflowError struct {
	Stage string
	Err   error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("workflow stage %s failed: %v", e.Stage, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// InputFile is one uploaded resume held in memory.
type InputFile struct {
	Filename string
	Content  []byte
}

// ActivityEntry is one line of the append-only run log.
type ActivityEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// WorkflowReport is the complete outcome of one screening run. It only
// exists for successful runs; failures return a WorkflowError and nothing is
// kept.
type WorkflowReport struct {
	RunID           string
	TotalFiles      int
	ExtractedCount  int
	Results         []*AnalysisResult
	Shortlist       []ShortlistEntry
	Escalations     []EscalationCase
	RejectionEmails []RejectionEmail
	Statistics      ScoreStatistics
	Quality         QualityAssessment
	StageTimings    map[string]time.Duration
	ProcessingTime  time.Duration
	ActivityLog     []ActivityEntry
}

// Orchestrator drives the screening pipeline: extraction, scoring, execution
// (escalations, shortlist enrichment, rejection emails), then finalize.
// Stages run strictly in order; items within a stage run with bounded
// parallelism.
type Orchestrator struct {
	extractor   TextExtractor
	normalizer  *Normalizer
	scorer      *Scorer
	enhancer    *ShortlistEnhancer
	composer    *RejectionComposer
	retriever   ContextRetriever
	concurrency int
	log         *zap.Logger
}

// activityLog collects run events; extraction workers append concurrently.
type activityLog struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (l *activityLog) add(message string, details map[string]any) {
	l.mu.Lock()
	l.entries = append(l.entries, ActivityEntry{
		Timestamp: time.Now().UTC(),
		Message:   message,
		Details:   details,
	})
	l.mu.Unlock()
}

func NewOrchestrator(
	cfg config.WorkerConfig,
	extractor TextExtractor,
	scorer *Scorer,
	enhancer *ShortlistEnhancer,
	composer *RejectionComposer,
	retriever ContextRetriever,
	log *zap.Logger,
) *Orchestrator {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{
		extractor:   extractor,
		normalizer:  NewNormalizer(),
		scorer:      scorer,
		enhancer:    enhancer,
		composer:    composer,
		retriever:   retriever,
		concurrency: concurrency,
		log:         log,
	}
}

// Run executes one screening run over the uploaded files. It either returns
// a complete report or a *WorkflowError naming the stage that broke.
func (o *Orchestrator) Run(ctx context.Context, files []InputFile, jobDescription string) (*WorkflowReport, error) {
	runID := uuid.New().String()
	start := time.Now()
	timings := make(map[string]time.Duration)
	activity := &activityLog{}

	activity.add("workflow started", map[string]any{
		"run_id":      runID,
		"total_files": len(files),
	})

	// Stage 1: extraction
	stageStart := time.Now()
	records := o.runExtraction(ctx, files, activity)
	timings[StageExtraction] = time.Since(stageStart)

	if err := ctx.Err(); err != nil {
		return nil, &WorkflowError{Stage: StageExtraction, Err: err}
	}
	if len(records) == 0 {
		activity.add("extraction produced no candidates", nil)
		return nil, &WorkflowError{Stage: StageExtraction, Err: errors.New("no resumes could be extracted")}
	}
	activity.add("extraction completed", map[string]any{
		"extracted": len(records),
		"failed":    len(files) - len(records),
	})

	// Stage 2: scoring
	stageStart = time.Now()
	retrievalEnabled := o.indexJobDescription(ctx, runID, jobDescription)
	results := o.runScoring(ctx, runID, records, jobDescription, retrievalEnabled)
	timings[StageScoring] = time.Since(stageStart)

	if err := ctx.Err(); err != nil {
		return nil, &WorkflowError{Stage: StageScoring, Err: err}
	}
	activity.add("scoring completed", map[string]any{
		"analyzed": len(results),
	})

	// Stage 3: execution
	stageStart = time.Now()
	var shortlisted, rejected []*AnalysisResult
	for _, result := range results {
		if result.Decision == DecisionShortlist {
			shortlisted = append(shortlisted, result)
		} else {
			rejected = append(rejected, result)
		}
	}

	escalations := DetectEscalations(results)

	var shortlist []ShortlistEntry
	var emails []RejectionEmail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		shortlist = o.enhancer.Enhance(gctx, shortlisted, jobDescription)
		return nil
	})
	g.Go(func() error {
		emails = o.composer.Compose(gctx, rejected, jobDescription)
		return nil
	})
	_ = g.Wait()
	timings[StageExecution] = time.Since(stageStart)

	if err := ctx.Err(); err != nil {
		return nil, &WorkflowError{Stage: StageExecution, Err: err}
	}
	activity.add("execution completed", map[string]any{
		"shortlisted": len(shortlist),
		"rejected":    len(emails),
		"escalated":   len(escalations),
	})

	// Stage 4: finalize
	stageStart = time.Now()
	stats := ComputeStatistics(results)
	quality := AssessQuality(len(files), len(records), stats, emails, escalations, shortlist)
	timings[StageFinalize] = time.Since(stageStart)

	activity.add("workflow completed", map[string]any{
		"run_id":             runID,
		"processing_time_ms": time.Since(start).Milliseconds(),
	})

	return &WorkflowReport{
		RunID:           runID,
		TotalFiles:      len(files),
		ExtractedCount:  len(records),
		Results:         results,
		Shortlist:       shortlist,
		Escalations:     escalations,
		RejectionEmails: emails,
		Statistics:      stats,
		Quality:         quality,
		StageTimings:    timings,
		ProcessingTime:  time.Since(start),
		ActivityLog:     activity.entries,
	}, nil
}

// runExtraction extracts and normalizes every readable file. Unreadable
// files are logged and skipped; input order is preserved.
func (o *Orchestrator) runExtraction(ctx context.Context, files []InputFile, activity *activityLog) []*CandidateRecord {
	slots := make([]*CandidateRecord, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, file := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			text, err := o.extractor.ExtractText(file.Filename, file.Content)
			if err != nil {
				o.log.Warn("resume extraction failed, skipping file",
					zap.String("file", file.Filename),
					zap.Error(err))
				activity.add("file skipped", map[string]any{
					"file":  file.Filename,
					"error": err.Error(),
				})
				return nil
			}

			fileID := uuid.New().String()
			slots[i] = o.normalizer.Normalize(fileID, file.Filename, CleanText(text))
			return nil
		})
	}
	_ = g.Wait()

	var records []*CandidateRecord
	for _, rec := range slots {
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

// indexJobDescription seeds the retrieval collection for this run. Failure
// disables retrieval for the run but never fails it.
func (o *Orchestrator) indexJobDescription(ctx context.Context, runID, jobDescription string) bool {
	if o.retriever == nil {
		return false
	}
	if err := o.retriever.IndexJobDescription(ctx, runID, jobDescription); err != nil {
		o.log.Warn("job description indexing failed, scoring without retrieved context",
			zap.Error(err))
		return false
	}
	return true
}

func (o *Orchestrator) runScoring(ctx context.Context, runID string, records []*CandidateRecord, jobDescription string, retrievalEnabled bool) []*AnalysisResult {
	results := make([]*AnalysisResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, rec := range records {
		g.Go(func() error {
			retrievedContext := ""
			if retrievalEnabled {
				retrievedContext = o.retrieveContext(gctx, runID, rec)
			}
			results[i] = o.scorer.Analyze(gctx, rec, jobDescription, retrievedContext)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// retrieveContext fetches the job-description fragments closest to this
// candidate's profile. Soft-fails to empty context.
func (o *Orchestrator) retrieveContext(ctx context.Context, runID string, rec *CandidateRecord) string {
	query := strings.Join(rec.Skills, ", ")
	if query == "" {
		query = rec.RawText
		if len(query) > 1000 {
			query = query[:1000]
		}
	}

	chunks, err := o.retriever.Retrieve(ctx, runID, query, 3)
	if err != nil {
		o.log.Warn("context retrieval failed, scoring without retrieved context",
			zap.String("file", rec.Filename),
			zap.Error(err))
		return ""
	}
	return FormatRetrievedContext(chunks)
}
