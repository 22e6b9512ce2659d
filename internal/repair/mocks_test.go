package repair

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSourceStore is a mock implementation of SourceStore.
type MockSourceStore struct {
	mock.Mock
}

func (m *MockSourceStore) Load(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

// MockTestOracle is a mock implementation of TestOracle.
type MockTestOracle struct {
	mock.Mock
}

func (m *MockTestOracle) Run(ctx context.Context, filePath string) string {
	args := m.Called(ctx, filePath)
	return args.String(0)
}

// MockPatchOracle is a mock implementation of PatchOracle.
type MockPatchOracle struct {
	mock.Mock
}

func (m *MockPatchOracle) Generate(ctx context.Context, s *RepairSession) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

// MockPatchApplier is a mock implementation of PatchApplier.
type MockPatchApplier struct {
	mock.Mock
}

func (m *MockPatchApplier) Apply(path, code string, lineNo int, newLine string) (string, error) {
	args := m.Called(path, code, lineNo, newLine)
	return args.String(0), args.Error(1)
}
