// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package inbox

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jllopis/council/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	inboxDir := filepath.Join(base, "queue", "inbox")
	archiveDir := filepath.Join(base, "queue", "archive")

	if err := EnsureDirs(inboxDir, archiveDir); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	for _, dir := range []string{inboxDir, archiveDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s, got %v, %v", dir, info, err)
		}
	}
	if err := EnsureDirs(inboxDir, archiveDir); err != nil {
		t.Errorf("EnsureDirs should be idempotent: %v", err)
	}
}

func TestScanOrdersByModTime(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	oldest := writeFile(t, dir, "c.md", "first in")
	middle := writeFile(t, dir, "b.md", "second")
	newest := writeFile(t, dir, "a.md", "third")
	writeFile(t, dir, "notes.txt", "ignored")

	for path, age := range map[string]time.Duration{
		oldest: 3 * time.Hour,
		middle: 2 * time.Hour,
		newest: time.Hour,
	} {
		stamp := now.Add(-age)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}

	got, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	want := []string{oldest, middle, newest}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %v, want %v", got, want)
	}
}

func TestScanEmptyDir(t *testing.T) {
	got, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no files, got %v", got)
	}
}

func TestParseFileWithFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.md", `---
models: claude,gemini
rounds: 3
full: true
---
Should we rewrite the billing service in Go?
`)

	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if f.Question != "Should we rewrite the billing service in Go?" {
		t.Errorf("question = %q", f.Question)
	}
	if f.Meta.Models == nil || *f.Meta.Models != "claude,gemini" {
		t.Errorf("models = %v", f.Meta.Models)
	}
	if f.Meta.Rounds == nil || *f.Meta.Rounds != 3 {
		t.Errorf("rounds = %v", f.Meta.Rounds)
	}
	if f.Meta.Full == nil || !*f.Meta.Full {
		t.Errorf("full = %v", f.Meta.Full)
	}
}

func TestParseFilePartialFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.md", "---\nrounds: 1\n---\nShort question")

	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if f.Meta.Rounds == nil || *f.Meta.Rounds != 1 {
		t.Errorf("rounds = %v", f.Meta.Rounds)
	}
	if f.Meta.Models != nil || f.Meta.Full != nil {
		t.Errorf("absent keys must stay nil: %+v", f.Meta)
	}
	if f.Question != "Short question" {
		t.Errorf("question = %q", f.Question)
	}
}

func TestParseFileNoFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.md", "\nJust a question, no metadata.\n")

	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if f.Question != "Just a question, no metadata." {
		t.Errorf("question = %q", f.Question)
	}
	if f.Meta.Models != nil || f.Meta.Rounds != nil || f.Meta.Full != nil {
		t.Errorf("expected zero meta, got %+v", f.Meta)
	}
}

func TestParseFileEmptyFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.md", "---\n---\nBody only")

	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if f.Question != "Body only" {
		t.Errorf("question = %q", f.Question)
	}
}

func TestParseFileUnterminatedFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.md", "---\nrounds: 3\nno closing delimiter")

	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if f.Meta.Rounds != nil {
		t.Errorf("unterminated block must not parse as meta: %+v", f.Meta)
	}
	if !strings.HasPrefix(f.Question, "---") {
		t.Errorf("body should keep the stray delimiter: %q", f.Question)
	}
}

func TestParseFileBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.md", "---\nrounds: [unclosed\n---\nquestion")

	_, err := ParseFile(path)
	if !errors.IsCode(err, errors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestEffectiveOverrides(t *testing.T) {
	three := 3
	models := "claude,grok"
	yes := true

	meta := Meta{Models: &models, Rounds: &three, Full: &yes}

	if got := meta.EffectiveRounds(5, 2); got != 5 {
		t.Errorf("CLI rounds should win, got %d", got)
	}
	if got := meta.EffectiveRounds(0, 2); got != 3 {
		t.Errorf("frontmatter rounds should win over default, got %d", got)
	}
	if got := (Meta{}).EffectiveRounds(0, 2); got != 2 {
		t.Errorf("default rounds expected, got %d", got)
	}

	if got := meta.EffectiveModels("openai"); got != "openai" {
		t.Errorf("CLI models should win, got %q", got)
	}
	if got := meta.EffectiveModels(""); got != "claude,grok" {
		t.Errorf("frontmatter models expected, got %q", got)
	}
	if got := (Meta{}).EffectiveModels(""); got != "" {
		t.Errorf("expected empty models, got %q", got)
	}

	if !meta.EffectiveFull(false) {
		t.Error("frontmatter full=true should request the full panel")
	}
	if !(Meta{}).EffectiveFull(true) {
		t.Error("CLI full flag should request the full panel")
	}
	if (Meta{}).EffectiveFull(false) {
		t.Error("neither flag nor frontmatter set, full not expected")
	}
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	archiveDir := filepath.Join(dir, "archive")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "q.md", "archived content")

	dest, err := Archive(path, archiveDir, false)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	name := filepath.Base(dest)
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{4}_q\.md$`)
	if !pattern.MatchString(name) {
		t.Errorf("archive name %q does not match timestamp pattern", name)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("source file should be gone, stat err = %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "archived content" {
		t.Errorf("archived content mismatch: %q, %v", data, err)
	}
}

func TestArchiveFailed(t *testing.T) {
	dir := t.TempDir()
	archiveDir := filepath.Join(dir, "archive")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, dir, "q.md", "broken run")

	dest, err := Archive(path, archiveDir, true)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	name := filepath.Base(dest)
	if !strings.HasPrefix(name, "FAILED_") {
		t.Errorf("expected FAILED_ prefix, got %q", name)
	}
	pattern := regexp.MustCompile(`^FAILED_\d{4}-\d{2}-\d{2}T\d{4}_q\.md$`)
	if !pattern.MatchString(name) {
		t.Errorf("archive name %q does not match pattern", name)
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"inbox/question-one.md", "question-one"},
		{"plain.md", "plain"},
		{"/abs/path/q.2.md", "q.2"},
		{"noext", "noext"},
	}
	for _, tc := range tests {
		if got := Stem(tc.path); got != tc.want {
			t.Errorf("Stem(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
