// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package debate implements the council's core loop: sequential rounds of
// concurrent backend calls with anonymized critique, followed by a single
// synthesis call that merges the full transcript into one answer.
package debate

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/llm"
	"github.com/jllopis/council/pkg/telemetry"
)

// Backend couples a provider with its per-call settings.
type Backend struct {
	Provider llm.Provider

	// Timeout bounds each call attempt. Zero means no per-attempt bound.
	// The timeout retry policy escalates this value for its single retry;
	// the field itself is never mutated.
	Timeout time.Duration
}

// Name returns the provider name.
func (b Backend) Name() string { return b.Provider.Name() }

// Engine drives a debate. It owns the panel backends and the prompt
// templates and runs rounds strictly in sequence.
type Engine struct {
	backends        []Backend
	prompts         Prompts
	logger          *slog.Logger
	metrics         *telemetry.DebateMetrics
	tracer          trace.Tracer
	onRoundComplete func(*Round)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches debate metrics. Nil leaves metrics disabled.
func WithMetrics(m *telemetry.DebateMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithOnRoundComplete registers a callback invoked after each round is
// final, for progress reporting. It runs on the driver goroutine.
func WithOnRoundComplete(fn func(*Round)) Option {
	return func(e *Engine) { e.onRoundComplete = fn }
}

// New creates a debate engine over the given panel. A debate needs at
// least two backends with distinct names; fewer is a selection error that
// is reported before any round executes.
func New(backends []Backend, prompts Prompts, opts ...Option) (*Engine, error) {
	if len(backends) < 2 {
		return nil, errors.New(errors.CodeInvalidInput, "debate requires at least 2 backends", nil).
			WithContext("backends", len(backends))
	}
	seen := make(map[string]bool, len(backends))
	for _, b := range backends {
		if b.Provider == nil {
			return nil, errors.New(errors.CodeInvalidInput, "backend without provider", nil)
		}
		name := b.Name()
		if seen[name] {
			return nil, errors.New(errors.CodeInvalidInput, "duplicate backend in panel", nil).
				WithContext("backend", name)
		}
		seen[name] = true
	}

	e := &Engine{
		backends: backends,
		prompts:  prompts,
		logger:   slog.Default(),
		tracer:   otel.Tracer("council/debate"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes rounds 1..numRounds strictly in sequence. Round k>1 builds
// its prompts from exactly round k-1's replies. When every backend fails in
// a round, Run stops and returns the rounds completed so far together with
// a CodeRoundFailed error; no Round is appended for the failed round.
//
// The round count is caller-supplied; the max_rounds ceiling is enforced by
// the CLI, not here.
func (e *Engine) Run(ctx context.Context, question Question, numRounds int) ([]*Round, error) {
	if numRounds < 1 {
		return nil, errors.New(errors.CodeInvalidInput, "debate needs at least 1 round", nil).
			WithContext("rounds", numRounds)
	}

	ctx, runID := EnsureRunID(ctx)
	ctx, span := e.tracer.Start(ctx, "Debate.Run", trace.WithAttributes(
		telemetry.DebateAttributes(runID, numRounds, len(e.backends), "")...,
	))
	defer span.End()

	e.logger.Info("debate.start",
		slog.String("run_id", runID),
		slog.Int("rounds", numRounds),
		slog.Int("panel_size", len(e.backends)),
		slog.String("source", question.Source),
	)

	rounds := make([]*Round, 0, numRounds)
	for number := 1; number <= numRounds; number++ {
		var prior []*llm.Reply
		if number > 1 {
			prior = rounds[len(rounds)-1].Replies
		}

		round, err := e.executeRound(ctx, question, number, prior)
		if err != nil {
			e.logger.Error("debate.round.failed",
				slog.String("run_id", runID),
				slog.Int("round", number),
				slog.String("error", err.Error()),
			)
			return rounds, err
		}

		rounds = append(rounds, round)
		e.metrics.RecordRound(ctx, number, len(round.Replies))
		if e.onRoundComplete != nil {
			e.onRoundComplete(round)
		}
	}

	e.logger.Info("debate.complete",
		slog.String("run_id", runID),
		slog.Int("rounds", len(rounds)),
	)
	return rounds, nil
}
