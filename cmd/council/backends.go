// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/health"
	"github.com/jllopis/council/pkg/llm"
)

type backendInfo struct {
	Name           string `json:"name"`
	SDK            string `json:"sdk"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	Available      bool   `json:"available"`
}

type backendCheck struct {
	Backend   string `json:"backend"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Message   string `json:"message,omitempty"`
}

func runBackends(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("backends", flag.ContinueOnError)
	check := fs.Bool("check", false, "Ping each available backend")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(fs.Args())

	if *check {
		runBackendsCheck(ctx, global, cfg)
		return
	}

	names := cfg.ModelNames()
	rows := make([]backendInfo, 0, len(names))
	for _, name := range names {
		mc, ok := cfg.Model(name)
		if !ok {
			continue
		}
		rows = append(rows, backendInfo{
			Name:           name,
			SDK:            mc.SDK,
			Model:          mc.Model,
			TimeoutSeconds: mc.TimeoutSeconds,
			Available:      mc.Available(),
		})
	}

	if global.JSON {
		printJSON(map[string]any{"backends": rows, "total": len(rows)})
		return
	}

	w := newTabWriter()
	writeRow(w, "NAME", "SDK", "MODEL", "TIMEOUT", "AVAILABLE")
	for _, row := range rows {
		available := "no"
		if row.Available {
			available = "yes"
		}
		writeRow(w, row.Name, row.SDK, row.Model, fmt.Sprintf("%ds", row.TimeoutSeconds), available)
	}
	w.Flush()
}

func runBackendsCheck(ctx context.Context, global globalFlags, cfg *config.Config) {
	var providers []llm.Provider
	var skipped []string
	for _, name := range cfg.ModelNames() {
		mc, ok := cfg.Model(name)
		if !ok {
			continue
		}
		if !mc.Available() {
			skipped = append(skipped, name)
			continue
		}
		provider, err := buildProvider(mc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", name, err)
			skipped = append(skipped, name)
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		NewNoProvidersError().PrintError(global.JSON)
		os.Exit(1)
	}

	checker := health.NewChecker()
	results := checker.CheckAll(ctx, providers)

	rows := make([]backendCheck, 0, len(results))
	unhealthy := 0
	for _, res := range results {
		if !res.OK() {
			unhealthy++
		}
		rows = append(rows, backendCheck{
			Backend:   res.Backend,
			Status:    string(res.Status),
			LatencyMS: res.Latency.Milliseconds(),
			Message:   res.Message,
		})
	}

	if global.JSON {
		printJSON(map[string]any{"checks": rows, "skipped": skipped, "unhealthy": unhealthy})
	} else {
		w := newTabWriter()
		writeRow(w, "NAME", "STATUS", "LATENCY", "MESSAGE")
		for _, row := range rows {
			writeRow(w, row.Backend, row.Status, fmt.Sprintf("%dms", row.LatencyMS), truncateMessage(row.Message))
		}
		w.Flush()
		if len(skipped) > 0 {
			fmt.Printf("\nSkipped (no API key): %s\n", strings.Join(skipped, ", "))
		}
	}

	if unhealthy > 0 {
		os.Exit(1)
	}
}

func truncateMessage(msg string) string {
	return truncate(msg, 60)
}
