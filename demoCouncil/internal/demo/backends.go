// Package demo assembles a five-backend council from the SDK provider
// modules and drives a full debate through the library API.
package demo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jllopis/council/pkg/debate"
	"github.com/jllopis/council/pkg/llm"
	"github.com/jllopis/council/providers/anthropic"
	"github.com/jllopis/council/providers/deepseek"
	"github.com/jllopis/council/providers/gemini"
	"github.com/jllopis/council/providers/openai"
)

// Options control how the panel is assembled.
type Options struct {
	// Mock swaps every backend whose API key is absent for a canned provider
	// so the demo runs offline.
	Mock    bool
	Timeout time.Duration
}

type backendSpec struct {
	name   string
	keyEnv string
	build  func(ctx context.Context, key string) (llm.Provider, error)
}

func specs() []backendSpec {
	return []backendSpec{
		{
			name:   "claude",
			keyEnv: "ANTHROPIC_API_KEY",
			build: func(_ context.Context, key string) (llm.Provider, error) {
				return anthropic.NewWithAPIKey(key), nil
			},
		},
		{
			name:   "gemini",
			keyEnv: "GEMINI_API_KEY",
			build: func(ctx context.Context, key string) (llm.Provider, error) {
				return gemini.NewWithAPIKey(ctx, key)
			},
		},
		{
			name:   "openai",
			keyEnv: "OPENAI_API_KEY",
			build: func(_ context.Context, key string) (llm.Provider, error) {
				return openai.NewWithAPIKey(key), nil
			},
		},
		{
			name:   "grok",
			keyEnv: "XAI_API_KEY",
			build: func(_ context.Context, key string) (llm.Provider, error) {
				return openai.NewXAI(key), nil
			},
		},
		{
			name:   "deepseek",
			keyEnv: "DEEPSEEK_API_KEY",
			build: func(_ context.Context, key string) (llm.Provider, error) {
				return deepseek.New(key), nil
			},
		},
	}
}

var cannedReplies = map[string]string{
	"claude":   "I would weigh maintainability first. Start with the smallest design that survives contact with production, then grow it where the pain shows up.",
	"gemini":   "The data suggests incremental adoption wins. Pilot the change behind a flag, measure the failure modes, and only then commit the whole team.",
	"openai":   "Both positions have merit, but the deciding factor is operational cost. Pick the option the on-call rotation can actually debug at 3am.",
	"grok":     "Most teams overthink this. Ship the simple version this week, collect real usage, and let the evidence retire the speculative arguments.",
	"deepseek": "Consider the second-order effects. The cheap option today often sets the migration cost of the next two years, so price that in now.",
}

// Backends builds the council panel. Backends without an API key are skipped
// and reported by name, or faked when opts.Mock is set.
func Backends(ctx context.Context, opts Options) ([]debate.Backend, []string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	var backends []debate.Backend
	var skipped []string
	for _, spec := range specs() {
		key := strings.TrimSpace(os.Getenv(spec.keyEnv))
		var provider llm.Provider
		if key == "" {
			if !opts.Mock {
				skipped = append(skipped, spec.name)
				continue
			}
			provider = &llm.MockProvider{
				BackendName: spec.name,
				Model:       spec.name + "-demo",
				Response:    cannedReplies[spec.name],
			}
		} else {
			built, err := spec.build(ctx, key)
			if err != nil {
				return nil, nil, fmt.Errorf("build %s: %w", spec.name, err)
			}
			provider = built
		}
		backends = append(backends, debate.Backend{Provider: provider, Timeout: timeout})
	}

	if len(backends) < 2 {
		return nil, skipped, fmt.Errorf("only %d backend(s) have API keys; a council needs at least 2 (set keys or pass -mock)", len(backends))
	}
	return backends, skipped, nil
}
