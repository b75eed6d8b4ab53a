package llm

import (
	"context"
	"time"

	"github.com/jllopis/council/pkg/errors"
)

// MockProvider is a testing implementation of Provider.
type MockProvider struct {
	BackendName  string
	Model        string
	Response     string
	Err          error
	GenerateFunc func(ctx context.Context, prompt string, round int) (*Reply, error)
}

func (m *MockProvider) Name() string {
	if m.BackendName == "" {
		return "mock"
	}
	return m.BackendName
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, round int) (*Reply, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, round)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	model := m.Model
	if model == "" {
		model = "mock-model"
	}
	return &Reply{
		Backend: m.Name(),
		Model:   model,
		Round:   round,
		Content: m.Response,
		Latency: time.Millisecond,
		Tokens:  20,
	}, nil
}

// FailingMockProvider always fails.
type FailingMockProvider struct {
	BackendName string
	Err         error
}

func (f *FailingMockProvider) Name() string {
	if f.BackendName == "" {
		return "failing"
	}
	return f.BackendName
}

func (f *FailingMockProvider) Generate(ctx context.Context, prompt string, round int) (*Reply, error) {
	if f.Err == nil {
		return nil, errors.New(errors.CodeBackendError, "mock backend failure", nil)
	}
	return nil, f.Err
}

var (
	_ Provider = (*MockProvider)(nil)
	_ Provider = (*FailingMockProvider)(nil)
)
