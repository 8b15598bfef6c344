package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumePrompt asks the model to pull skills, experience and education
// out of the resume text.
func (pb *PromptBuilder) BuildResumePrompt(resumeText string) string {
	return fmt.Sprintf("Extract skills, Experience, and Education from this resume in bullet points:\n%s", resumeText)
}

// BuildJobDescriptionPrompt asks the model for the requirements of the job.
func (pb *PromptBuilder) BuildJobDescriptionPrompt(jobDescription string) string {
	return fmt.Sprintf("Extract Required Skills and Qualifications from this Job Description:\n%s", jobDescription)
}

// BuildScoringPrompt combines both parsed sections into the final ATS
// evaluation request. The model must answer with the analysis result JSON.
func (pb *PromptBuilder) BuildScoringPrompt(parsedResume, parsedJobDescription string) string {
	return fmt.Sprintf(`Based on the parsed Resume and Job Description below, generate a final ATS evaluation.

Resume Info: %s
JD Info: %s

Return ONLY a JSON object with this structure:
{
  "score": (integer 0-100),
  "summary": "Short 2-sentence match summary",
  "feedback": {
    "verdict": "A professional paragraph assessing the candidate's fit",
    "pursueSkills": ["Skill 1", "Skill 2", "Skill 3"],
    "nextSteps": "Specific advice"
  }
}`, parsedResume, parsedJobDescription)
}
