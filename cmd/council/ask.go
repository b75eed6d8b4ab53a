// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/debate"
	"github.com/jllopis/council/pkg/telemetry"
)

func runAsk(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	rounds := fs.Int("rounds", 0, "Number of debate rounds (default from config)")
	models := fs.String("models", "", "Comma-separated panel override")
	full := fs.Bool("full", false, "Use the full configured panel")
	synthesizer := fs.String("synthesizer", "", "Synthesizer backend (default from config)")
	outputDir := fs.String("output", "", "Transcript output directory")
	skipHealth := fs.Bool("skip-health-check", false, "Skip the pre-debate backend health check")
	file := fs.String("file", "", "Read the question from a file")

	// Accept the question either before or after the flags.
	var questionArg string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		questionArg = args[0]
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if questionArg == "" && fs.NArg() > 0 {
		questionArg = strings.Join(fs.Args(), " ")
	}

	var question debate.Question
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			NewNotFoundError("question file", *file).PrintError(global.JSON)
			os.Exit(1)
		}
		question = debate.Question{Text: strings.TrimSpace(string(raw)), Source: *file}
	} else {
		question = debate.Question{Text: strings.TrimSpace(questionArg), Source: "cli"}
	}
	if question.Text == "" {
		NewInvalidArgumentError("question", "a question is required").PrintError(global.JSON)
		os.Exit(1)
	}

	shutdown, metrics := initTelemetry(ctx, cfg)
	defer shutdown()

	runner, err := newDebateRunner(ctx, cfg, os.Stdout, metrics, runnerOptions{SkipHealthCheck: *skipHealth})
	if err != nil {
		printCLIError(err, global.JSON)
		os.Exit(1)
	}

	if _, _, err := runner.run(ctx, runRequest{
		Question:    question,
		Rounds:      *rounds,
		Models:      *models,
		UseFull:     *full,
		Synthesizer: *synthesizer,
		OutputDir:   *outputDir,
	}); err != nil {
		printCLIError(err, global.JSON)
		os.Exit(1)
	}
}

// initTelemetry wires the exporter from config and returns the metric set
// plus a shutdown func that flushes pending spans.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(), *telemetry.DebateMetrics) {
	shutdown, err := telemetry.InitWithConfig("council", version, telemetry.Config{
		Exporter:           cfg.Telemetry.Exporter,
		OTLPEndpoint:       cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:       cfg.Telemetry.OTLPInsecure,
		OTLPTimeoutSeconds: cfg.Telemetry.OTLPTimeoutSeconds,
	})
	if err != nil {
		fatal(fmt.Errorf("failed to init telemetry: %w", err))
	}

	metrics, err := telemetry.NewDebateMetrics(ctx)
	if err != nil {
		slog.Warn("telemetry.metrics.unavailable", slog.String("error", err.Error()))
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown: %v\n", err)
		}
	}, metrics
}
