// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jllopis/council/pkg/debate"
)

func writeQuestionFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessInboxFileFrontmatterRounds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.DefaultPanel = []string{"alpha", "beta"}
	cfg.Defaults.Synthesizer = "delta"
	cfg.Defaults.Rounds = 2

	backends := map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "alpha says"),
		"beta":  scriptedBackend("beta", "beta says"),
		"delta": scriptedBackend("delta", "synthesis"),
	}
	runner, buf := newTestRunner(t, cfg, backends)

	path := writeQuestionFile(t, t.TempDir(), "should-we.md",
		"---\nrounds: 1\n---\nShould we do the thing?\n")

	if err := processInboxFile(context.Background(), runner, cfg, path, 0, "", false, ""); err != nil {
		t.Fatalf("processInboxFile: %v", err)
	}

	// Frontmatter rounds beat the configured default of 2.
	if !strings.Contains(buf.String(), "AI Council: 2 models, 1 rounds") {
		t.Errorf("expected 1 round from frontmatter\n%s", buf.String())
	}

	// The transcript slug comes from the file stem, not the question.
	matches, err := filepath.Glob(filepath.Join(cfg.Defaults.OutputDir, "*_should-we.md"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("expected one transcript named after the file stem, got %v", matches)
	}
}

func TestProcessInboxFileCLIOverridesFrontmatter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.DefaultPanel = []string{"alpha", "beta"}
	cfg.Defaults.Synthesizer = "delta"

	backends := map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "a1"),
		"beta":  scriptedBackend("beta", "b1"),
		"delta": scriptedBackend("delta", "done"),
	}
	runner, buf := newTestRunner(t, cfg, backends)

	path := writeQuestionFile(t, t.TempDir(), "q.md",
		"---\nrounds: 3\n---\nHow many rounds win?\n")

	if err := processInboxFile(context.Background(), runner, cfg, path, 1, "", false, ""); err != nil {
		t.Fatalf("processInboxFile: %v", err)
	}
	if !strings.Contains(buf.String(), "AI Council: 2 models, 1 rounds") {
		t.Errorf("CLI rounds should beat frontmatter\n%s", buf.String())
	}
}

func TestProcessInboxFileFrontmatterModels(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.DefaultPanel = []string{"alpha", "beta", "gamma"}
	cfg.Defaults.Synthesizer = "delta"

	backends := map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "unused"),
		"beta":  scriptedBackend("beta", "b1"),
		"gamma": scriptedBackend("gamma", "g1"),
		"delta": scriptedBackend("delta", "done"),
	}
	runner, buf := newTestRunner(t, cfg, backends)

	path := writeQuestionFile(t, t.TempDir(), "pair.md",
		"---\nmodels: \"gamma,beta\"\nrounds: 1\n---\nJust the pair, please.\n")

	if err := processInboxFile(context.Background(), runner, cfg, path, 0, "", false, ""); err != nil {
		t.Fatalf("processInboxFile: %v", err)
	}
	if !strings.Contains(buf.String(), "Panel: gamma, beta") {
		t.Errorf("frontmatter models should pick the panel\n%s", buf.String())
	}
}

func TestProcessInboxFileEmptyBody(t *testing.T) {
	cfg := testConfig(t)
	runner, _ := newTestRunner(t, cfg, map[string]debate.Backend{
		"alpha": scriptedBackend("alpha", "a"),
		"beta":  scriptedBackend("beta", "b"),
	})

	path := writeQuestionFile(t, t.TempDir(), "empty.md", "---\nrounds: 1\n---\n\n")

	err := processInboxFile(context.Background(), runner, cfg, path, 0, "", false, "")
	if err == nil {
		t.Fatal("expected error for empty question body")
	}
	if !strings.Contains(err.Error(), "no question body") {
		t.Errorf("error = %v", err)
	}
}
