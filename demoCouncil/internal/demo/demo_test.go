package demo

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, env := range []string{"ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "XAI_API_KEY", "DEEPSEEK_API_KEY"} {
		t.Setenv(env, "")
	}
}

func TestBackendsMockMode(t *testing.T) {
	clearKeys(t)

	backends, skipped, err := Backends(context.Background(), Options{Mock: true})
	if err != nil {
		t.Fatalf("Backends failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("expected no skipped backends, got %v", skipped)
	}
	if len(backends) != 5 {
		t.Fatalf("expected 5 backends, got %d", len(backends))
	}

	want := []string{"claude", "gemini", "openai", "grok", "deepseek"}
	for i, name := range want {
		if got := backends[i].Name(); got != name {
			t.Errorf("backend %d: expected %s, got %s", i, name, got)
		}
	}
}

func TestBackendsSkipsWithoutKeys(t *testing.T) {
	clearKeys(t)

	_, skipped, err := Backends(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error when no backend has a key")
	}
	if len(skipped) != 5 {
		t.Errorf("expected 5 skipped backends, got %v", skipped)
	}
}

func TestBackendsPartialKeys(t *testing.T) {
	clearKeys(t)
	t.Setenv("XAI_API_KEY", "xai-test")
	t.Setenv("DEEPSEEK_API_KEY", "ds-test")

	backends, skipped, err := Backends(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Backends failed: %v", err)
	}
	if len(backends) != 2 {
		t.Fatalf("expected 2 backends, got %d", len(backends))
	}
	if backends[0].Name() != "grok" || backends[1].Name() != "deepseek" {
		t.Errorf("unexpected backends: %s, %s", backends[0].Name(), backends[1].Name())
	}
	if len(skipped) != 3 {
		t.Errorf("expected 3 skipped backends, got %v", skipped)
	}
}

func TestRunMockDebate(t *testing.T) {
	clearKeys(t)

	backends, _, err := Backends(context.Background(), Options{Mock: true})
	if err != nil {
		t.Fatalf("Backends failed: %v", err)
	}

	dir := t.TempDir()
	var buf bytes.Buffer
	outcome, err := Run(context.Background(), RunConfig{
		Backends:    backends,
		Question:    "Is boring technology a competitive advantage?",
		Rounds:      2,
		Synthesizer: "openai",
		OutputDir:   dir,
		Out:         &buf,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(outcome.Rounds) != 2 {
		t.Errorf("expected 2 rounds, got %d", len(outcome.Rounds))
	}
	if outcome.Synthesizer != "openai" {
		t.Errorf("expected synthesizer openai, got %s", outcome.Synthesizer)
	}
	if outcome.SynthesizerParticipated {
		t.Error("expected a non-participant synthesizer with a full panel")
	}
	if outcome.Synthesis == nil || outcome.Synthesis.Content != cannedReplies["openai"] {
		t.Errorf("unexpected synthesis: %+v", outcome.Synthesis)
	}

	console := buf.String()
	for _, want := range []string{
		"Checking backends...",
		"AI Council: 4 models, 2 rounds [full]",
		"Panel: claude, gemini, grok, deepseek",
		"Synthesizer: openai (non-participant)",
		"OK Round 2 complete (4 replies)",
		"Saved to: ",
	} {
		if !strings.Contains(console, want) {
			t.Errorf("console missing %q:\n%s", want, console)
		}
	}

	transcripts, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(transcripts) != 1 {
		t.Errorf("expected 1 transcript, got %d", len(transcripts))
	}
}
