package models

// AnalysisResult is the payload returned by POST /analyze. Its shape is
// fixed: degraded and fallback paths return the same structure.
type AnalysisResult struct {
	Score    int      `json:"score"`
	Summary  string   `json:"summary"`
	Feedback Feedback `json:"feedback"`
}

type Feedback struct {
	Verdict      string   `json:"verdict"`
	PursueSkills []string `json:"pursueSkills"`
	NextSteps    string   `json:"nextSteps"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	AIClient string `json:"ai_client"`
}
