package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alfredoptarigan/resume-match/internal/models"
	"github.com/alfredoptarigan/resume-match/internal/repositories"
)

// NotInitializedPlaceholder stands in for a parsed section when the AI
// client is unavailable.
const NotInitializedPlaceholder = "Error: AI Client not initialized."

type Stage string

const (
	StageStart        Stage = "start"
	StageResumeParsed Stage = "resume_parsed"
	StageJobParsed    Stage = "job_parsed"
	StageScored       Stage = "scored"
	StageFailed       Stage = "failed"
)

type AnalysisInput struct {
	ResumeFilename string
	ResumeText     string
	JobDescription string
}

type AnalyzerService interface {
	Analyze(ctx context.Context, input AnalysisInput) (*models.AnalysisResult, error)
}

type analyzerService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	limiter       InputLimiter
	analysisRepo  repositories.AnalysisRepository
}

// NewAnalyzerService wires the pipeline. analysisRepo may be nil, in which
// case no audit record is written.
func NewAnalyzerService(
	geminiService GeminiService,
	limiter InputLimiter,
	analysisRepo repositories.AnalysisRepository,
) AnalyzerService {
	return &analyzerService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		limiter:       limiter,
		analysisRepo:  analysisRepo,
	}
}

// DegradedResult is returned in place of a model score when the AI client
// was never initialized.
func DegradedResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Score:   0,
		Summary: "AI Error: Client not connected.",
		Feedback: models.Feedback{
			Verdict:      "Could not analyze due to server configuration error.",
			PursueSkills: []string{},
			NextSteps:    "Check server logs.",
		},
	}
}

// analysisRun holds the state of a single request as it moves through the
// pipeline.
type analysisRun struct {
	stage  Stage
	record models.AnalysisRecord
}

func (r *analysisRun) advance(next Stage) {
	log.Printf("🔄 Analysis stage %s -> %s", r.stage, next)
	r.stage = next
}

func (a *analyzerService) Analyze(ctx context.Context, input AnalysisInput) (*models.AnalysisResult, error) {
	started := time.Now()
	run := &analysisRun{
		stage: StageStart,
		record: models.AnalysisRecord{
			ResumeFilename:      input.ResumeFilename,
			ResumeChars:         utf8.RuneCountInString(input.ResumeText),
			JobDescriptionChars: utf8.RuneCountInString(input.JobDescription),
			ExtractionEmpty:     strings.TrimSpace(input.ResumeText) == "",
			Degraded:            a.geminiService.Status() != ClientReady,
		},
	}

	if run.record.ExtractionEmpty {
		log.Printf("⚠️  No text extracted from %q, continuing with empty resume context", input.ResumeFilename)
	}

	result, err := a.run(ctx, run, input)
	if err != nil {
		run.advance(StageFailed)
	}

	a.audit(ctx, run, result, err, time.Since(started))

	return result, err
}

func (a *analyzerService) run(ctx context.Context, run *analysisRun, input AnalysisInput) (*models.AnalysisResult, error) {
	log.Println("🤖 Parsing resume...")
	parsedResume, err := a.parseSection(ctx, run, a.promptBuilder.BuildResumePrompt, input.ResumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	run.advance(StageResumeParsed)

	log.Println("🤖 Parsing job description...")
	parsedJobDescription, err := a.parseSection(ctx, run, a.promptBuilder.BuildJobDescriptionPrompt, a.limiter.Sanitize(input.JobDescription))
	if err != nil {
		return nil, fmt.Errorf("failed to parse job description: %w", err)
	}
	run.advance(StageJobParsed)

	log.Println("🤖 Generating match score...")
	result, err := a.score(ctx, parsedResume, parsedJobDescription)
	if err != nil {
		return nil, err
	}
	run.advance(StageScored)

	return result, nil
}

func (a *analyzerService) parseSection(ctx context.Context, run *analysisRun, build func(string) string, text string) (string, error) {
	text, truncated := a.limiter.Limit(text)
	if truncated {
		log.Printf("⚠️  Input truncated to %d characters", utf8.RuneCountInString(text))
		run.record.InputTruncated = true
	}

	if a.geminiService.Status() != ClientReady {
		return NotInitializedPlaceholder, nil
	}

	prompt := build(text)
	log.Printf("📝 Prompt length: %d characters", len(prompt))

	response, err := a.geminiService.Generate(ctx, prompt, OutputText)
	if errors.Is(err, ErrClientNotInitialized) {
		return NotInitializedPlaceholder, nil
	}
	if errors.Is(err, ErrEmptyResponse) {
		log.Println("⚠️  Empty parse response, continuing with empty context")
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return response, nil
}

func (a *analyzerService) score(ctx context.Context, parsedResume, parsedJobDescription string) (*models.AnalysisResult, error) {
	if a.geminiService.Status() != ClientReady {
		log.Println("⚠️  AI client not initialized, returning placeholder analysis")
		return DegradedResult(), nil
	}

	prompt := a.promptBuilder.BuildScoringPrompt(parsedResume, parsedJobDescription)

	response, err := a.geminiService.Generate(ctx, prompt, OutputJSON)
	if errors.Is(err, ErrClientNotInitialized) {
		return DegradedResult(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}

	log.Printf("✅ Analysis response received: %d characters", len(response))

	result, err := parseAnalysisResult(response)
	if err != nil {
		log.Printf("❌ Failed to parse analysis response: %v", err)
		return nil, err
	}

	return result, nil
}

func (a *analyzerService) audit(ctx context.Context, run *analysisRun, result *models.AnalysisResult, runErr error, elapsed time.Duration) {
	if a.analysisRepo == nil {
		return
	}

	record := run.record
	record.DurationMs = elapsed.Milliseconds()
	record.Status = models.StatusCompleted
	if runErr != nil {
		msg := runErr.Error()
		record.Status = models.StatusFailed
		record.ErrorMessage = &msg
	}
	if result != nil {
		score := result.Score
		record.Score = &score
	}

	if err := a.analysisRepo.Create(context.WithoutCancel(ctx), &record); err != nil {
		log.Printf("⚠️  Failed to write analysis audit record: %v", err)
	}
}

type rawFeedback struct {
	Verdict      string   `json:"verdict"`
	PursueSkills []string `json:"pursueSkills"`
	NextSteps    string   `json:"nextSteps"`
}

type rawAnalysisResult struct {
	Score    *float64     `json:"score"`
	Summary  *string      `json:"summary"`
	Feedback *rawFeedback `json:"feedback"`
}

// parseAnalysisResult validates the scoring response against the analysis
// result schema. Out of range scores are clamped to 0-100.
func parseAnalysisResult(response string) (*models.AnalysisResult, error) {
	var raw rawAnalysisResult
	if err := json.Unmarshal([]byte(extractJSON(response)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	switch {
	case raw.Score == nil:
		return nil, fmt.Errorf("%w: missing score", ErrMalformedOutput)
	case *raw.Score != math.Trunc(*raw.Score):
		return nil, fmt.Errorf("%w: score %v is not an integer", ErrMalformedOutput, *raw.Score)
	case raw.Summary == nil:
		return nil, fmt.Errorf("%w: missing summary", ErrMalformedOutput)
	case raw.Feedback == nil:
		return nil, fmt.Errorf("%w: missing feedback", ErrMalformedOutput)
	}

	score := int(math.Max(0, math.Min(100, *raw.Score)))

	skills := raw.Feedback.PursueSkills
	if skills == nil {
		skills = []string{}
	}

	return &models.AnalysisResult{
		Score:   score,
		Summary: *raw.Summary,
		Feedback: models.Feedback{
			Verdict:      raw.Feedback.Verdict,
			PursueSkills: skills,
			NextSteps:    raw.Feedback.NextSteps,
		},
	}, nil
}

// extractJSON strips a surrounding markdown fence and prose from a model
// response, returning the outermost JSON object. Backticks inside string
// values are left alone.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
