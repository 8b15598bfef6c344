package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/alfredoptarigan/resume-match/internal/services"
)

type MockGeminiService struct {
	mock.Mock
}

func (m *MockGeminiService) Status() services.ClientStatus {
	args := m.Called()

	return args.Get(0).(services.ClientStatus)
}

func (m *MockGeminiService) Generate(ctx context.Context, prompt string, mode services.OutputMode) (string, error) {
	args := m.Called(ctx, prompt, mode)

	return args.String(0), args.Error(1)
}
