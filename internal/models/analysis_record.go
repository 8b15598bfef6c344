package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusCompleted AnalysisStatus = "completed"
	StatusFailed    AnalysisStatus = "failed"
)

// AnalysisRecord is one row of the audit log. It is written after every
// analysis and never read back by the pipeline.
type AnalysisRecord struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeFilename      string         `gorm:"type:text" json:"resume_filename"`
	ResumeChars         int            `gorm:"not null;default:0" json:"resume_chars"`
	JobDescriptionChars int            `gorm:"not null;default:0" json:"job_description_chars"`
	ExtractionEmpty     bool           `gorm:"not null;default:false" json:"extraction_empty"`
	InputTruncated      bool           `gorm:"not null;default:false" json:"input_truncated"`
	Degraded            bool           `gorm:"not null;default:false" json:"degraded"`
	Score               *int           `json:"score,omitempty"`
	Status              AnalysisStatus `gorm:"not null" json:"status"`
	ErrorMessage        *string        `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs          int64          `json:"duration_ms"`
	CreatedAt           time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AnalysisRecord) TableName() string {
	return "analyses"
}
