// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package output renders finished debates: brief console summaries while a
// debate runs, and a full markdown transcript saved to disk at the end.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jllopis/council/pkg/debate"
	"github.com/jllopis/council/pkg/errors"
)

var (
	slugStrip   = regexp.MustCompile(`[^\w\s-]`)
	slugHyphens = regexp.MustCompile(`[\s_-]+`)
)

// Slug converts text to a filename-safe slug, capped at 40 characters.
func Slug(text string) string {
	s := strings.ToLower(text)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

// Save writes the full debate transcript as markdown under dir, creating the
// directory when missing. The file name is a timestamp plus slug; an empty
// slug derives one from the question text. Returns the written path.
func Save(out *debate.Outcome, dir, slug string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.New(errors.CodeInternal, "output: create "+dir, err)
	}

	if slug == "" {
		slug = Slug(out.Question.Text)
	}
	name := fmt.Sprintf("%s_%s.md", time.Now().Format("20060102_150405"), slug)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(renderTranscript(out)), 0o644); err != nil {
		return "", errors.New(errors.CodeInternal, "output: write "+path, err)
	}
	return path, nil
}

func renderTranscript(out *debate.Outcome) string {
	lines := []string{
		"# AI Council Debate: " + truncateRunes(out.Question.Text, 50),
		"",
		"**Date:** " + time.Now().Format("2006-01-02 15:04:05"),
		"**Models:** " + strings.Join(participantNames(out.Rounds), ", "),
		fmt.Sprintf("**Rounds:** %d", len(out.Rounds)),
		fmt.Sprintf("**Duration:** %.1fs", out.Duration.Seconds()),
		"**Source:** " + out.Question.Source,
		"**Run:** " + out.RunID,
		"",
		"---",
		"",
	}

	for _, rnd := range out.Rounds {
		label := "Critique"
		if rnd.Number == 1 {
			label = "Initial Responses"
		}
		lines = append(lines, fmt.Sprintf("## Round %d: %s", rnd.Number, label), "")
		for _, reply := range rnd.Replies {
			lines = append(lines,
				fmt.Sprintf("### %s (%s)", titleCase(reply.Backend), reply.Model),
				"",
				reply.Content,
				"",
				replyFooter(reply.Latency, reply.Tokens),
				"",
			)
		}
	}

	synthesis := ""
	if out.Synthesis != nil {
		synthesis = out.Synthesis.Content
	}
	lines = append(lines,
		fmt.Sprintf("## Synthesis (by %s)", out.Synthesizer),
		"",
		synthesis,
		"",
	)

	return strings.Join(lines, "\n")
}

func replyFooter(latency time.Duration, tokens int) string {
	footer := fmt.Sprintf("*Latency: %.2fs", latency.Seconds())
	if tokens > 0 {
		footer += fmt.Sprintf(" | Tokens: %d", tokens)
	}
	return footer + "*"
}

func participantNames(rounds []*debate.Round) []string {
	seen := make(map[string]struct{})
	for _, rnd := range rounds {
		for _, reply := range rnd.Replies {
			seen[reply.Backend] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func titleCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
