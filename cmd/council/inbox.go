// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/debate"
	"github.com/jllopis/council/pkg/inbox"
)

func runInbox(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("inbox", flag.ContinueOnError)
	dir := fs.String("dir", "", "Inbox directory (default from config)")
	rounds := fs.Int("rounds", 0, "Number of debate rounds (default from config)")
	models := fs.String("models", "", "Comma-separated panel override")
	full := fs.Bool("full", false, "Use the full configured panel")
	synthesizer := fs.String("synthesizer", "", "Synthesizer backend (default from config)")
	skipHealth := fs.Bool("skip-health-check", false, "Skip the pre-debate backend health check")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(fs.Args())

	inboxDir := cfg.Inbox.Dir
	archiveDir := cfg.Inbox.ArchiveDir
	if *dir != "" {
		inboxDir = *dir
		archiveDir = filepath.Join(*dir, "archive")
	}

	if err := inbox.EnsureDirs(inboxDir, archiveDir); err != nil {
		printCLIError(err, global.JSON)
		os.Exit(1)
	}

	files, err := inbox.Scan(inboxDir)
	if err != nil {
		printCLIError(err, global.JSON)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No questions in %s\n", inboxDir)
		return
	}
	fmt.Printf("Found %d question(s) in %s\n", len(files), inboxDir)

	shutdown, metrics := initTelemetry(ctx, cfg)
	defer shutdown()

	runner, err := newDebateRunner(ctx, cfg, os.Stdout, metrics, runnerOptions{SkipHealthCheck: *skipHealth})
	if err != nil {
		printCLIError(err, global.JSON)
		os.Exit(1)
	}

	failed := 0
	for _, path := range files {
		fmt.Printf("\n=== Processing %s ===\n", filepath.Base(path))
		runErr := processInboxFile(ctx, runner, cfg, path, *rounds, *models, *full, *synthesizer)
		if runErr != nil {
			failed++
			printCLIError(runErr, global.JSON)
		}

		archived, archiveErr := inbox.Archive(path, archiveDir, runErr != nil)
		if archiveErr != nil {
			fmt.Fprintf(os.Stderr, "archive failed for %s: %v\n", path, archiveErr)
			continue
		}
		fmt.Printf("Archived as %s\n", filepath.Base(archived))
	}

	fmt.Printf("\nProcessed %d file(s), %d failed\n", len(files), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// processInboxFile runs one queued question. Frontmatter overrides sit
// between the CLI flags and the configured defaults.
func processInboxFile(ctx context.Context, runner *debateRunner, cfg *config.Config, path string, cliRounds int, cliModels string, cliFull bool, synthesizer string) error {
	qf, err := inbox.ParseFile(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(qf.Question) == "" {
		return NewInvalidArgumentError("question", fmt.Sprintf("%s has no question body", filepath.Base(path)))
	}

	_, _, err = runner.run(ctx, runRequest{
		Question:    debate.Question{Text: qf.Question, Source: path},
		Rounds:      qf.Meta.EffectiveRounds(cliRounds, cfg.Defaults.Rounds),
		Models:      qf.Meta.EffectiveModels(cliModels),
		UseFull:     qf.Meta.EffectiveFull(cliFull),
		Synthesizer: synthesizer,
		Slug:        inbox.Stem(path),
	})
	return err
}
