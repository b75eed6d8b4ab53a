// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/debate"
	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/health"
	"github.com/jllopis/council/pkg/llm"
	"github.com/jllopis/council/pkg/output"
	"github.com/jllopis/council/pkg/panel"
	"github.com/jllopis/council/pkg/telemetry"
)

// debateRunner owns the provider pool shared by ask, inbox and mcp serve.
// Providers are built and health-checked once; every debate after that
// draws its panel from the surviving backends.
type debateRunner struct {
	cfg     *config.Config
	out     io.Writer
	printer *output.Printer
	metrics *telemetry.DebateMetrics
	logger  *slog.Logger

	backends map[string]debate.Backend
}

type runnerOptions struct {
	SkipHealthCheck bool
}

func newDebateRunner(ctx context.Context, cfg *config.Config, out io.Writer, metrics *telemetry.DebateMetrics, opts runnerOptions) (*debateRunner, error) {
	r := &debateRunner{
		cfg:      cfg,
		out:      out,
		printer:  output.NewPrinter(out),
		metrics:  metrics,
		logger:   slog.Default(),
		backends: make(map[string]debate.Backend),
	}

	for _, name := range cfg.AvailableModels() {
		mc, ok := cfg.Model(name)
		if !ok {
			continue
		}
		provider, err := buildProvider(mc)
		if err != nil {
			r.logger.Warn("backend.build.failed",
				slog.String("backend", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		r.backends[name] = debate.Backend{Provider: provider, Timeout: mc.Timeout()}
	}
	if len(r.backends) == 0 {
		return nil, NewNoProvidersError()
	}

	if !opts.SkipHealthCheck {
		if err := r.healthFilter(ctx); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// healthFilter pings every constructed backend and drops the ones that
// cannot answer. Panel selection later works against the survivors only.
func (r *debateRunner) healthFilter(ctx context.Context) error {
	names := r.backendNames()
	providers := make([]llm.Provider, 0, len(names))
	for _, name := range names {
		providers = append(providers, r.backends[name].Provider)
	}

	fmt.Fprintln(r.out, "Checking backends...")
	checker := health.NewChecker(health.WithLogger(r.logger))
	results := checker.CheckAll(ctx, providers)

	failed := 0
	for _, res := range results {
		if res.OK() {
			fmt.Fprintf(r.out, "  OK   %s (%.1fs)\n", res.Backend, res.Latency.Seconds())
			continue
		}
		failed++
		fmt.Fprintf(r.out, "  FAIL %s: %s\n", res.Backend, res.Message)
		delete(r.backends, res.Backend)
	}

	if len(r.backends) == 0 {
		ce := errors.New(errors.CodeBackendError, "all backends failed the health check", nil).
			WithRecoverable(true)
		return NewCLIError(ce, "check network connectivity and API keys in .env, or rerun with --skip-health-check")
	}
	if failed > 0 {
		r.logger.Warn("backend.health.degraded",
			slog.Int("failed", failed),
			slog.Int("healthy", len(r.backends)),
		)
	}
	return nil
}

func (r *debateRunner) backendNames() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runRequest describes one debate. Zero values defer to the configured
// defaults.
type runRequest struct {
	Question    debate.Question
	Rounds      int
	Models      string
	UseFull     bool
	Synthesizer string
	OutputDir   string
	Slug        string
}

// run executes the full pipeline for one question: panel selection, the
// debate rounds, synthesis, console summaries and the markdown transcript.
// It returns the outcome and the saved transcript path.
func (r *debateRunner) run(ctx context.Context, req runRequest) (*debate.Outcome, string, error) {
	started := time.Now()

	rounds := req.Rounds
	if rounds < 1 {
		rounds = r.cfg.Defaults.Rounds
	}
	if rounds < 1 {
		rounds = 1
	}
	if limit := r.cfg.Defaults.MaxRounds; limit > 0 && rounds > limit {
		fmt.Fprintf(r.out, "Warning: capping rounds at %d (requested %d)\n", limit, rounds)
		rounds = limit
	}

	synthPref := strings.TrimSpace(req.Synthesizer)
	if synthPref == "" {
		synthPref = r.cfg.Defaults.Synthesizer
	}

	selected := panel.Determine(r.cfg.Defaults.DefaultPanel, r.cfg.Defaults.FullPanel, req.Models, req.UseFull)
	available := r.backendNames()

	names := panel.ExcludeSynthesizer(selected.Names, synthPref, available)
	usable := panel.Filter(names, available)
	if len(usable) < 2 {
		return nil, "", NewPanelTooSmallError(len(usable))
	}

	synthName, participated := panel.PickSynthesizer(available, usable, synthPref)
	synthesizer, ok := r.backends[synthName]
	if !ok {
		return nil, "", NewNotFoundError("backend", synthName)
	}

	members := make([]debate.Backend, 0, len(usable))
	for _, name := range usable {
		members = append(members, r.backends[name])
	}

	r.printer.Banner(len(usable), rounds, string(selected.Mode))
	fmt.Fprintf(r.out, "Panel: %s\n", strings.Join(usable, ", "))
	role := "non-participant"
	if participated {
		role = "participant"
	}
	fmt.Fprintf(r.out, "Synthesizer: %s (%s)\n", synthName, role)
	fmt.Fprintf(r.out, "Question: %s\n\n", truncate(strings.Join(strings.Fields(req.Question.Text), " "), 80))

	prompts := debate.Prompts{
		Initial:   r.cfg.Prompts.Initial,
		Critique:  r.cfg.Prompts.Critique,
		Synthesis: r.cfg.Prompts.Synthesis,
		Personas:  r.cfg.Prompts.Personas,
	}

	eng, err := debate.New(members, prompts,
		debate.WithLogger(r.logger),
		debate.WithMetrics(r.metrics),
		debate.WithOnRoundComplete(func(rd *debate.Round) {
			fmt.Fprintf(r.out, "OK Round %d complete (%d replies)\n", rd.Number, len(rd.Replies))
		}),
	)
	if err != nil {
		return nil, "", WrapDebateError(err)
	}

	ctx, _ = debate.EnsureRunID(ctx)

	debateRounds, err := eng.Run(ctx, req.Question, rounds)
	if err != nil {
		return nil, "", WrapDebateError(err)
	}

	outcome, err := eng.Synthesize(ctx, debate.SynthesisInput{
		Question:                req.Question,
		Rounds:                  debateRounds,
		Synthesizer:             synthesizer,
		StartedAt:               started,
		PanelMode:               string(selected.Mode),
		SynthesizerParticipated: participated,
	})
	if err != nil {
		return nil, "", WrapDebateError(err)
	}

	for _, rd := range debateRounds {
		r.printer.RoundSummary(rd)
	}
	r.printer.Synthesis(outcome)

	dir := req.OutputDir
	if dir == "" {
		dir = r.cfg.Defaults.OutputDir
	}
	path, err := output.Save(outcome, dir, req.Slug)
	if err != nil {
		return nil, "", WrapDebateError(err)
	}
	fmt.Fprintf(r.out, "\nSaved to: %s\n", path)

	return outcome, path, nil
}
