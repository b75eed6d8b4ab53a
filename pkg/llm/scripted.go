package llm

import (
	"context"
	"sync"
	"time"

	"github.com/jllopis/council/pkg/errors"
)

// ScriptedStep is one pre-defined Generate outcome for ScriptedProvider.
// When Err is set the step fails with that error, otherwise it succeeds
// with Content.
type ScriptedStep struct {
	Content string
	Err     error
	// Delay makes the step block before returning, to exercise timeouts.
	Delay time.Duration
}

// CapturedCall records the arguments one Generate invocation observed.
type CapturedCall struct {
	Prompt string
	Round  int
	// Timeout is the remaining context deadline at call time, zero when the
	// context carried none.
	Timeout time.Duration
}

// ScriptedProvider is a mock provider that returns a pre-defined sequence of
// outcomes and records every call it receives. Useful for testing multi-round
// debates, retry behavior, and per-attempt deadlines.
type ScriptedProvider struct {
	mu    sync.Mutex
	name  string
	model string
	steps []ScriptedStep
	calls []CapturedCall
}

// NewScriptedProvider creates a ScriptedProvider answering with the given
// contents in order.
func NewScriptedProvider(name string, contents ...string) *ScriptedProvider {
	steps := make([]ScriptedStep, 0, len(contents))
	for _, c := range contents {
		steps = append(steps, ScriptedStep{Content: c})
	}
	return &ScriptedProvider{name: name, model: name + "-scripted", steps: steps}
}

// NewScriptedProviderSteps creates a ScriptedProvider from explicit steps,
// allowing error and delay injection.
func NewScriptedProviderSteps(name string, steps ...ScriptedStep) *ScriptedProvider {
	return &ScriptedProvider{name: name, model: name + "-scripted", steps: steps}
}

func (s *ScriptedProvider) Name() string {
	return s.name
}

// Generate pops the next scripted step, recording the call first.
func (s *ScriptedProvider) Generate(ctx context.Context, prompt string, round int) (*Reply, error) {
	s.mu.Lock()
	call := CapturedCall{Prompt: prompt, Round: round}
	if deadline, ok := ctx.Deadline(); ok {
		call.Timeout = time.Until(deadline)
	}
	s.calls = append(s.calls, call)

	if len(s.steps) == 0 {
		s.mu.Unlock()
		return nil, errors.New(errors.CodeBackendError, "scripted provider: no more steps", nil)
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	s.mu.Unlock()

	if step.Delay > 0 {
		select {
		case <-time.After(step.Delay):
		case <-ctx.Done():
			return nil, errors.New(errors.CodeTimeout, "scripted provider: context expired", ctx.Err())
		}
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return &Reply{
		Backend: s.name,
		Model:   s.model,
		Round:   round,
		Content: step.Content,
		Latency: step.Delay,
		Tokens:  20,
	}, nil
}

// AddStep appends a step to the script.
func (s *ScriptedProvider) AddStep(step ScriptedStep) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

// CallCount returns how many times Generate has been invoked.
func (s *ScriptedProvider) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Calls returns a copy of every recorded invocation in order.
func (s *ScriptedProvider) Calls() []CapturedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedCall, len(s.calls))
	copy(out, s.calls)
	return out
}

var _ Provider = (*ScriptedProvider)(nil)
