package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alfredoptarigan/resume-match/internal/models"
)

// AnalysisRepository is the write side of the analysis audit log.
type AnalysisRepository interface {
	Create(ctx context.Context, record *models.AnalysisRecord) error
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create analysis record: %w", err)
	}

	return nil
}
