// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/debate"
	councilmcp "github.com/jllopis/council/pkg/mcp"
)

func runMCPServe(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	if len(args) == 0 || args[0] != "serve" {
		fatal(fmt.Errorf("usage: council mcp serve"))
	}
	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	skipHealth := fs.Bool("skip-health-check", false, "Skip the startup backend health check")
	if err := fs.Parse(args[1:]); err != nil {
		fatal(err)
	}
	ensureNoArgs(fs.Args())

	shutdown, metrics := initTelemetry(ctx, cfg)
	defer shutdown()

	// Stdout is the MCP transport; progress output is discarded and
	// diagnostics go to the stderr logger.
	runner, err := newDebateRunner(ctx, cfg, io.Discard, metrics, runnerOptions{SkipHealthCheck: *skipHealth})
	if err != nil {
		printCLIError(err, global.JSON)
		os.Exit(1)
	}

	// Settings edits apply to the next debate without a restart.
	reloadable := config.NewReloadableConfig(cfg)
	if path := configPathFromArgs(global.ConfigArgs); path != "" {
		watcher, _, err := config.WatchConfig(ctx, path)
		if err != nil {
			slog.Warn("mcp.config.watch_failed", slog.String("error", err.Error()))
		} else {
			watcher.OnChange(reloadable.Update)
			defer watcher.Stop()
		}
	}

	debateFn := func(ctx context.Context, req councilmcp.DebateRequest) (string, error) {
		run := *runner
		run.cfg = reloadable.Get()

		outcome, _, err := run.run(ctx, runRequest{
			Question: debate.Question{Text: req.Question, Source: "mcp"},
			Rounds:   req.Rounds,
			Models:   req.Models,
		})
		if err != nil {
			return "", err
		}
		return outcome.Synthesis.Content, nil
	}

	srv := councilmcp.NewServer(version, debateFn)
	slog.Info("mcp.server.start", slog.String("transport", "stdio"))
	if err := srv.ServeStdio(); err != nil {
		fatal(err)
	}
}
