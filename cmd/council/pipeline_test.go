// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/debate"
	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/llm"
	"github.com/jllopis/council/pkg/output"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	cfg.Defaults.OutputDir = t.TempDir()
	return cfg
}

func newTestRunner(t *testing.T, cfg *config.Config, backends map[string]debate.Backend) (*debateRunner, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return &debateRunner{
		cfg:      cfg,
		out:      buf,
		printer:  output.NewPrinter(buf),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		backends: backends,
	}, buf
}

func scriptedBackend(name string, contents ...string) debate.Backend {
	return debate.Backend{
		Provider: llm.NewScriptedProvider(name, contents...),
		Timeout:  5 * time.Second,
	}
}

func TestRunFullPipeline(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.DefaultPanel = []string{"alpha", "beta", "gamma"}
	cfg.Defaults.Synthesizer = "delta"
	cfg.Defaults.Rounds = 2

	backends := map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "alpha one", "alpha two"),
		"beta":  scriptedBackend("beta", "beta one", "beta two"),
		"gamma": scriptedBackend("gamma", "gamma one", "gamma two"),
		"delta": scriptedBackend("delta", "the final word"),
	}
	runner, buf := newTestRunner(t, cfg, backends)

	outcome, path, err := runner.run(context.Background(), runRequest{
		Question: debate.Question{Text: "Pick a direction", Source: "cli"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if outcome.Synthesis.Content != "the final word" {
		t.Errorf("synthesis content = %q", outcome.Synthesis.Content)
	}
	if outcome.Synthesizer != "delta" {
		t.Errorf("synthesizer = %q, want delta", outcome.Synthesizer)
	}
	if outcome.SynthesizerParticipated {
		t.Error("delta was outside the panel, participated should be false")
	}
	if len(outcome.Rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(outcome.Rounds))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if !strings.Contains(string(data), "## Synthesis (by delta)") {
		t.Error("transcript missing synthesis section")
	}

	console := buf.String()
	for _, want := range []string{
		"AI Council: 3 models, 2 rounds [default]",
		"Panel: alpha, beta, gamma",
		"Synthesizer: delta (non-participant)",
		"Question: Pick a direction",
		"OK Round 1 complete (3 replies)",
		"OK Round 2 complete (3 replies)",
		"=== Round 1 Summary ===",
		"=== Round 2 Summary ===",
		"=== Council Synthesis ===",
		"Saved to: ",
	} {
		if !strings.Contains(console, want) {
			t.Errorf("console output missing %q\n%s", want, console)
		}
	}

	// Summaries print after the debate finishes, not between rounds.
	if strings.Index(console, "=== Round 1 Summary ===") < strings.Index(console, "OK Round 2 complete") {
		t.Error("round summaries should print after the last round completes")
	}
}

func TestRunSynthesizerParticipates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.DefaultPanel = []string{"alpha", "beta"}
	cfg.Defaults.Synthesizer = "alpha"

	backends := map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "alpha round one", "alpha synthesis"),
		"beta":  scriptedBackend("beta", "beta round one"),
	}
	runner, buf := newTestRunner(t, cfg, backends)

	outcome, _, err := runner.run(context.Background(), runRequest{
		Question: debate.Question{Text: "Two voices only", Source: "cli"},
		Rounds:   1,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !outcome.SynthesizerParticipated {
		t.Error("alpha stayed on the panel, participated should be true")
	}
	if outcome.Synthesis.Content != "alpha synthesis" {
		t.Errorf("synthesis content = %q", outcome.Synthesis.Content)
	}
	if !strings.Contains(buf.String(), "Synthesizer: alpha (participant)") {
		t.Errorf("console missing participant note\n%s", buf.String())
	}
}

func TestRunModelsOverride(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.DefaultPanel = []string{"alpha", "beta", "gamma"}
	cfg.Defaults.Synthesizer = "delta"

	backends := map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "unused"),
		"beta":  scriptedBackend("beta", "beta view"),
		"gamma": scriptedBackend("gamma", "gamma view"),
		"delta": scriptedBackend("delta", "merged"),
	}
	runner, buf := newTestRunner(t, cfg, backends)

	outcome, _, err := runner.run(context.Background(), runRequest{
		Question: debate.Question{Text: "Override the panel", Source: "cli"},
		Rounds:   1,
		Models:   "gamma, beta",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if outcome.PanelMode != "custom" {
		t.Errorf("panel mode = %q, want custom", outcome.PanelMode)
	}
	console := buf.String()
	if !strings.Contains(console, "AI Council: 2 models, 1 rounds [custom]") {
		t.Errorf("console missing custom banner\n%s", console)
	}
	if !strings.Contains(console, "Panel: gamma, beta") {
		t.Errorf("console should preserve the requested order\n%s", console)
	}
	if got := backends["alpha"].Provider.(*llm.ScriptedProvider).CallCount(); got != 0 {
		t.Errorf("alpha should not be called, got %d calls", got)
	}
}

func TestRunPanelTooSmall(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.DefaultPanel = []string{"alpha", "beta"}
	cfg.Defaults.Synthesizer = "beta"

	backends := map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "solo"),
		"beta":  scriptedBackend("beta", "other"),
	}
	runner, _ := newTestRunner(t, cfg, backends)

	_, _, err := runner.run(context.Background(), runRequest{
		Question: debate.Question{Text: "Too few", Source: "cli"},
		Models:   "alpha",
	})
	if err == nil {
		t.Fatal("expected panel too small error")
	}
	cliErr, ok := err.(*CLIError)
	if !ok {
		t.Fatalf("expected *CLIError, got %T", err)
	}
	if cliErr.Code != errors.CodeInvalidInput {
		t.Errorf("code = %s, want %s", cliErr.Code, errors.CodeInvalidInput)
	}
	if !strings.Contains(cliErr.Message, "need at least 2 providers for a debate, got 1") {
		t.Errorf("message = %q", cliErr.Message)
	}
	if !strings.Contains(cliErr.Hint, "--models") {
		t.Errorf("hint = %q", cliErr.Hint)
	}
}

func TestRunClampsRounds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.DefaultPanel = []string{"alpha", "beta"}
	cfg.Defaults.Synthesizer = "delta"
	cfg.Defaults.MaxRounds = 2

	backends := map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "a1", "a2"),
		"beta":  scriptedBackend("beta", "b1", "b2"),
		"delta": scriptedBackend("delta", "done"),
	}
	runner, buf := newTestRunner(t, cfg, backends)

	outcome, _, err := runner.run(context.Background(), runRequest{
		Question: debate.Question{Text: "How many rounds?", Source: "cli"},
		Rounds:   9,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(outcome.Rounds) != 2 {
		t.Errorf("rounds = %d, want 2", len(outcome.Rounds))
	}
	if !strings.Contains(buf.String(), "Warning: capping rounds at 2 (requested 9)") {
		t.Errorf("console missing clamp warning\n%s", buf.String())
	}
}

func TestHealthFilterDropsFailing(t *testing.T) {
	cfg := testConfig(t)
	backends := map[string]debate.Backend{
		"good": scriptedBackend("good", "pong"),
		"bad":  {Provider: &llm.FailingMockProvider{BackendName: "bad"}, Timeout: time.Second},
	}
	runner, buf := newTestRunner(t, cfg, backends)

	if err := runner.healthFilter(context.Background()); err != nil {
		t.Fatalf("healthFilter: %v", err)
	}
	if _, ok := runner.backends["bad"]; ok {
		t.Error("bad backend should be dropped")
	}
	if _, ok := runner.backends["good"]; !ok {
		t.Error("good backend should survive")
	}

	console := buf.String()
	for _, want := range []string{"Checking backends...", "OK   good", "FAIL bad"} {
		if !strings.Contains(console, want) {
			t.Errorf("console missing %q\n%s", want, console)
		}
	}
}

func TestHealthFilterAllFail(t *testing.T) {
	cfg := testConfig(t)
	backends := map[string]debate.Backend{
		"one": {Provider: &llm.FailingMockProvider{BackendName: "one"}, Timeout: time.Second},
		"two": {Provider: &llm.FailingMockProvider{BackendName: "two"}, Timeout: time.Second},
	}
	runner, _ := newTestRunner(t, cfg, backends)

	err := runner.healthFilter(context.Background())
	if err == nil {
		t.Fatal("expected error when every backend fails the health check")
	}
	if !strings.Contains(err.Error(), "all backends failed the health check") {
		t.Errorf("error = %v", err)
	}
}

func TestNewDebateRunnerMockPipeline(t *testing.T) {
	cfg := testConfig(t)
	cfg.Models = map[string]config.ModelConfig{
		"m1": {Name: "m1", SDK: "mock", Model: "m1-model", TimeoutSeconds: 5},
		"m2": {Name: "m2", SDK: "mock", Model: "m2-model", TimeoutSeconds: 5},
	}
	cfg.Defaults.DefaultPanel = []string{"m1", "m2"}
	cfg.Defaults.Synthesizer = "m1"
	cfg.Defaults.Rounds = 1

	buf := &bytes.Buffer{}
	runner, err := newDebateRunner(context.Background(), cfg, buf, nil, runnerOptions{})
	if err != nil {
		t.Fatalf("newDebateRunner: %v", err)
	}
	if len(runner.backends) != 2 {
		t.Fatalf("backends = %d, want 2", len(runner.backends))
	}
	if !strings.Contains(buf.String(), "Checking backends...") {
		t.Error("expected startup health check output")
	}

	outcome, path, err := runner.run(context.Background(), runRequest{
		Question: debate.Question{Text: "Does the dry run work?", Source: "cli"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if outcome.Synthesis.Content != "mock reply from m1" {
		t.Errorf("synthesis content = %q", outcome.Synthesis.Content)
	}
	if !outcome.SynthesizerParticipated {
		t.Error("m1 was on the panel, participated should be true")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("transcript missing: %v", err)
	}
}

func TestNewDebateRunnerNoProviders(t *testing.T) {
	cfg := testConfig(t)
	cfg.Models = map[string]config.ModelConfig{
		"remote": {Name: "remote", SDK: "anthropic", Model: "x", APIKeyEnv: "COUNCIL_TEST_UNSET_KEY"},
	}

	_, err := newDebateRunner(context.Background(), cfg, io.Discard, nil, runnerOptions{SkipHealthCheck: true})
	if err == nil {
		t.Fatal("expected error with no constructible providers")
	}
	cliErr, ok := err.(*CLIError)
	if !ok {
		t.Fatalf("expected *CLIError, got %T", err)
	}
	if cliErr.Code != errors.CodeConfig {
		t.Errorf("code = %s, want %s", cliErr.Code, errors.CodeConfig)
	}
}
