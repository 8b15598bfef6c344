package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alfredoptarigan/resume-match/internal/models"
	"github.com/alfredoptarigan/resume-match/internal/services"
	"github.com/alfredoptarigan/resume-match/mocks"
)

const scoreJSON = `{"score": 82, "summary": "Strong backend match.", "feedback": {"verdict": "Good fit.", "pursueSkills": ["Kubernetes", "gRPC"], "nextSteps": "Apply."}}`

func readyGemini(resumeOut, jdOut, scoreOut string) *mocks.MockGeminiService {
	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientReady)
	gemini.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "Extract skills")
	}), services.OutputText).Return(resumeOut, nil)
	gemini.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, "Extract Required Skills")
	}), services.OutputText).Return(jdOut, nil)
	gemini.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "final ATS evaluation")
	}), services.OutputJSON).Return(scoreOut, nil)
	return gemini
}

func TestAnalyze_Success(t *testing.T) {
	gemini := readyGemini("- Go\n- Postgres", "- Go required", scoreJSON)
	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	result, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeFilename: "cv.pdf",
		ResumeText:     "Senior Go engineer",
		JobDescription: "Backend engineer, Go",
	})

	require.NoError(t, err)
	assert.Equal(t, 82, result.Score)
	assert.Equal(t, "Strong backend match.", result.Summary)
	assert.Equal(t, []string{"Kubernetes", "gRPC"}, result.Feedback.PursueSkills)
	gemini.AssertExpectations(t)
}

func TestAnalyze_ScoringPromptEmbedsParsedSections(t *testing.T) {
	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientReady)
	gemini.On("Generate", mock.Anything, mock.Anything, services.OutputText).Return("PARSED-SECTION", nil).Twice()
	gemini.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Count(p, "PARSED-SECTION") == 2
	}), services.OutputJSON).Return(scoreJSON, nil).Once()

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	_, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     "resume",
		JobDescription: "jd",
	})

	require.NoError(t, err)
	gemini.AssertExpectations(t)
}

func TestAnalyze_Degraded(t *testing.T) {
	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientUninitialized)

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	result, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     "resume",
		JobDescription: "jd",
	})

	require.NoError(t, err)
	assert.Equal(t, services.DegradedResult(), result)
	assert.Equal(t, 0, result.Score)
	assert.NotNil(t, result.Feedback.PursueSkills)
	gemini.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyze_EmptyExtractedTextStillCompletes(t *testing.T) {
	gemini := readyGemini("No resume content.", "- Go", scoreJSON)
	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	result, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeFilename: "scan.pdf",
		ResumeText:     "",
		JobDescription: "Go developer",
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
}

func TestAnalyze_MalformedScoringOutput(t *testing.T) {
	gemini := readyGemini("r", "j", "this is not json")
	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	result, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     "resume",
		JobDescription: "jd",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, services.ErrMalformedOutput)
}

func TestAnalyze_BackendErrorStopsPipeline(t *testing.T) {
	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientReady)
	gemini.On("Generate", mock.Anything, mock.Anything, services.OutputText).
		Return("", services.ErrTransient).Once()

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	_, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     "resume",
		JobDescription: "jd",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrTransient)
	assert.Contains(t, err.Error(), "failed to parse resume")
	gemini.AssertNumberOfCalls(t, "Generate", 1)
}

func TestAnalyze_Idempotent(t *testing.T) {
	gemini := readyGemini("- Go", "- Go", scoreJSON)
	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)
	input := services.AnalysisInput{ResumeText: "resume", JobDescription: "jd"}

	first, err := analyzer.Analyze(context.Background(), input)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), input)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, a, b)
}

func TestAnalyze_TruncatesLongInput(t *testing.T) {
	long := strings.Repeat("word ", 100)

	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientReady)
	gemini.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return len(p) < 200
	}), services.OutputText).Return("ok", nil).Twice()
	gemini.On("Generate", mock.Anything, mock.Anything, services.OutputJSON).Return(scoreJSON, nil)

	repo := new(mocks.MockAnalysisRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.AnalysisRecord) bool {
		return r.InputTruncated
	})).Return(nil)

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(50), repo)

	_, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     long,
		JobDescription: long,
	})

	require.NoError(t, err)
	gemini.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestAnalyze_AuditRecordsFailure(t *testing.T) {
	gemini := readyGemini("r", "j", `{"summary": "no score"}`)

	repo := new(mocks.MockAnalysisRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.AnalysisRecord) bool {
		return r.Status == models.StatusFailed &&
			r.ErrorMessage != nil &&
			r.Score == nil &&
			r.ResumeFilename == "cv.docx" &&
			!r.ExtractionEmpty
	})).Return(nil).Once()

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), repo)

	_, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeFilename: "cv.docx",
		ResumeText:     "resume",
		JobDescription: "jd",
	})

	assert.ErrorIs(t, err, services.ErrMalformedOutput)
	repo.AssertExpectations(t)
}

func TestAnalyze_AuditFailureIsNotSurfaced(t *testing.T) {
	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientUninitialized)

	repo := new(mocks.MockAnalysisRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.AnalysisRecord) bool {
		return r.Degraded && r.Status == models.StatusCompleted && r.Score != nil && *r.Score == 0
	})).Return(errors.New("connection refused"))

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), repo)

	result, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     "resume",
		JobDescription: "jd",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	repo.AssertExpectations(t)
}

func TestAnalyze_EmptyParseResponseContinues(t *testing.T) {
	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientReady)
	gemini.On("Generate", mock.Anything, mock.Anything, services.OutputText).
		Return("", services.ErrEmptyResponse).Twice()
	gemini.On("Generate", mock.Anything, mock.Anything, services.OutputJSON).Return(scoreJSON, nil).Once()

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	result, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     "resume",
		JobDescription: "jd",
	})

	require.NoError(t, err)
	assert.Equal(t, 82, result.Score)
	gemini.AssertExpectations(t)
}

func TestAnalyze_EmptyScoringResponseFails(t *testing.T) {
	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientReady)
	gemini.On("Generate", mock.Anything, mock.Anything, services.OutputText).Return("- Go", nil)
	gemini.On("Generate", mock.Anything, mock.Anything, services.OutputJSON).
		Return("", services.ErrEmptyResponse)

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	_, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     "resume",
		JobDescription: "jd",
	})

	assert.ErrorIs(t, err, services.ErrEmptyResponse)
}

func TestAnalyze_ResumeAngleBracketsReachPrompt(t *testing.T) {
	gemini := new(mocks.MockGeminiService)
	gemini.On("Status").Return(services.ClientReady)
	gemini.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasSuffix(p, "Jane Doe <jane.doe@example.com>\nList<T>")
	}), services.OutputText).Return("- Go", nil).Once()
	gemini.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasSuffix(p, "Job Description:\nBackend Engineer\nGo required")
	}), services.OutputText).Return("- Go", nil).Once()
	gemini.On("Generate", mock.Anything, mock.Anything, services.OutputJSON).Return(scoreJSON, nil)

	analyzer := services.NewAnalyzerService(gemini, services.NewInputLimiter(0), nil)

	_, err := analyzer.Analyze(context.Background(), services.AnalysisInput{
		ResumeText:     "Jane Doe <jane.doe@example.com>\nList<T>",
		JobDescription: "<h2>Backend Engineer</h2><p>Go required</p>",
	})

	require.NoError(t, err)
	gemini.AssertExpectations(t)
}
