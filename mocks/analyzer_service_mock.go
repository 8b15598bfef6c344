package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/alfredoptarigan/resume-match/internal/models"
	"github.com/alfredoptarigan/resume-match/internal/services"
)

type MockAnalyzerService struct {
	mock.Mock
}

func (m *MockAnalyzerService) Analyze(ctx context.Context, input services.AnalysisInput) (*models.AnalysisResult, error) {
	args := m.Called(ctx, input)

	result, _ := args.Get(0).(*models.AnalysisResult)
	return result, args.Error(1)
}
