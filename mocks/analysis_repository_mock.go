package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/alfredoptarigan/resume-match/internal/models"
)

type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}
