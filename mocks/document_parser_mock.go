package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockDocumentParser struct {
	mock.Mock
}

func (m *MockDocumentParser) ExtractText(filePath string) string {
	args := m.Called(filePath)

	return args.String(0)
}
