// SPDX-License-Identifier: Apache-2.0

// Package health verifies that backends answer before a debate starts.
// Every available backend is pinged in parallel with a fixed prompt; the
// caller decides what to do with backends that stay silent.
package health

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jllopis/council/pkg/llm"
	"github.com/jllopis/council/pkg/resilience"
)

// PingPrompt is the fixed prompt sent to every backend during a check.
const PingPrompt = "Reply with the word OK only."

// DefaultTimeout bounds a single ping.
const DefaultTimeout = 15 * time.Second

// Status represents the outcome of a backend ping.
type Status string

const (
	StatusHealthy   Status = "HEALTHY"
	StatusUnhealthy Status = "UNHEALTHY"
)

// Result is the outcome of pinging one backend.
type Result struct {
	Backend   string
	Status    Status
	Message   string
	Latency   time.Duration
	CheckedAt time.Time
	Err       error
}

// OK reports whether the backend answered the ping.
func (r Result) OK() bool { return r.Status == StatusHealthy }

// Checker pings backends in parallel, each bounded by the same timeout.
type Checker struct {
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout overrides the per-ping bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for check progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker with the default 15s ping bound.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAll pings every provider concurrently and returns one result per
// provider, in input order.
func (c *Checker) CheckAll(ctx context.Context, providers []llm.Provider) []Result {
	c.logger.Debug("health.check.start", slog.Int("backends", len(providers)))

	results := make([]Result, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p llm.Provider) {
			defer wg.Done()
			results[i] = c.check(ctx, p)
		}(i, p)
	}
	wg.Wait()

	return results
}

func (c *Checker) check(ctx context.Context, p llm.Provider) Result {
	start := time.Now()
	value, err := resilience.WithTimeoutResult(ctx, c.timeout, func(ctx context.Context) (interface{}, error) {
		return p.Generate(ctx, PingPrompt, 0)
	})

	result := Result{
		Backend:   p.Name(),
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}
	if err != nil {
		c.logger.Warn("health.backend.failed",
			slog.String("backend", p.Name()),
			slog.String("error", err.Error()))
		result.Status = StatusUnhealthy
		result.Message = err.Error()
		result.Err = err
		return result
	}
	reply, ok := value.(*llm.Reply)
	if !ok || reply == nil {
		result.Status = StatusUnhealthy
		result.Message = "backend returned no reply"
		return result
	}

	result.Status = StatusHealthy
	result.Message = firstLine(reply.Content)
	return result
}

// Healthy returns the names of the backends that answered, in input order.
func Healthy(results []Result) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		if r.OK() {
			names = append(names, r.Backend)
		}
	}
	return names
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
