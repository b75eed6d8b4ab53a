// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/debate"
)

type validateResult struct {
	Config      checkResult   `json:"config"`
	Prompts     checkResult   `json:"prompts"`
	Backends    []checkResult `json:"backends"`
	Panel       checkResult   `json:"panel"`
	Synthesizer checkResult   `json:"synthesizer"`
	Dirs        checkResult   `json:"dirs"`
	Telemetry   checkResult   `json:"telemetry"`
	Overall     string        `json:"overall"`
}

type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warn", "error", "skip"
	Message string `json:"message,omitempty"`
}

func runValidate(global globalFlags) {
	result := validateResult{
		Backends: []checkResult{},
	}
	hasError := false
	hasWarn := false

	track := func(r checkResult) checkResult {
		if r.Status == "error" {
			hasError = true
		} else if r.Status == "warn" {
			hasWarn = true
		}
		return r
	}
	skipped := func(name string) checkResult {
		return checkResult{Name: name, Status: "skip", Message: "config not loaded"}
	}

	// 1. Config loading
	cfg, err := config.LoadWithCLI(global.ConfigArgs)
	if err != nil {
		result.Config = track(checkResult{
			Name:    "config",
			Status:  "error",
			Message: fmt.Sprintf("failed to load: %v", err),
		})
	} else {
		result.Config = checkResult{Name: "config", Status: "ok"}
	}

	if cfg == nil {
		result.Prompts = skipped("prompts")
		result.Panel = skipped("panel")
		result.Synthesizer = skipped("synthesizer")
		result.Dirs = skipped("dirs")
		result.Telemetry = skipped("telemetry")
	} else {
		// 2. Prompt templates
		result.Prompts = track(validatePrompts(cfg))

		// 3. Configured backends
		for _, name := range cfg.ModelNames() {
			mc, ok := cfg.Model(name)
			if !ok {
				continue
			}
			result.Backends = append(result.Backends, track(validateBackend(mc)))
		}

		// 4. Panel composition
		result.Panel = track(validatePanel(cfg))

		// 5. Synthesizer
		result.Synthesizer = track(validateSynthesizer(cfg))

		// 6. Output and inbox directories
		result.Dirs = track(validateDirs(cfg))

		// 7. Telemetry exporter
		result.Telemetry = track(validateTelemetry(cfg))
	}

	if hasError {
		result.Overall = "error"
	} else if hasWarn {
		result.Overall = "warn"
	} else {
		result.Overall = "ok"
	}

	if global.JSON {
		printJSON(result)
		return
	}

	printValidateResult(result)

	if hasError {
		os.Exit(1)
	}
}

func validatePrompts(cfg *config.Config) checkResult {
	prompts := debate.Prompts{
		Initial:   cfg.Prompts.Initial,
		Critique:  cfg.Prompts.Critique,
		Synthesis: cfg.Prompts.Synthesis,
		Personas:  cfg.Prompts.Personas,
	}
	if err := prompts.Validate(); err != nil {
		return checkResult{Name: "prompts", Status: "error", Message: err.Error()}
	}
	return checkResult{Name: "prompts", Status: "ok"}
}

func validateBackend(mc config.ModelConfig) checkResult {
	name := "backend." + mc.Name
	sdk := strings.ToLower(strings.TrimSpace(mc.SDK))

	switch sdk {
	case "ollama":
		return checkResult{Name: name, Status: "ok", Message: fmt.Sprintf("ollama (%s)", mc.Model)}
	case "mock":
		return checkResult{Name: name, Status: "ok", Message: "mock provider"}
	}

	if _, known := compatBaseURLs[sdk]; !known && mc.BaseURL == "" {
		return checkResult{
			Name:    name,
			Status:  "error",
			Message: fmt.Sprintf("unknown sdk %q and no base_url configured", mc.SDK),
		}
	}
	if mc.APIKeyEnv == "" {
		return checkResult{Name: name, Status: "warn", Message: "no api_key_env configured"}
	}
	if !mc.Available() {
		return checkResult{Name: name, Status: "warn", Message: fmt.Sprintf("%s not set", mc.APIKeyEnv)}
	}
	return checkResult{Name: name, Status: "ok", Message: fmt.Sprintf("%s (%s)", sdk, mc.Model)}
}

func validatePanel(cfg *config.Config) checkResult {
	var unknown []string
	seen := make(map[string]bool)
	for _, name := range append(append([]string{}, cfg.Defaults.DefaultPanel...), cfg.Defaults.FullPanel...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := cfg.Model(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return checkResult{
			Name:    "panel",
			Status:  "error",
			Message: "unknown backends: " + strings.Join(unknown, ", "),
		}
	}

	available := 0
	for _, name := range cfg.Defaults.DefaultPanel {
		if mc, ok := cfg.Model(name); ok && mc.Available() {
			available++
		}
	}
	if available < 2 {
		return checkResult{
			Name:    "panel",
			Status:  "warn",
			Message: fmt.Sprintf("only %d of the default panel available; a debate needs 2", available),
		}
	}
	return checkResult{
		Name:    "panel",
		Status:  "ok",
		Message: fmt.Sprintf("%d of %d default panel members available", available, len(cfg.Defaults.DefaultPanel)),
	}
}

func validateSynthesizer(cfg *config.Config) checkResult {
	name := cfg.Defaults.Synthesizer
	if name == "" {
		return checkResult{Name: "synthesizer", Status: "warn", Message: "no synthesizer configured"}
	}
	mc, ok := cfg.Model(name)
	if !ok {
		return checkResult{
			Name:    "synthesizer",
			Status:  "error",
			Message: fmt.Sprintf("%q is not a configured backend", name),
		}
	}
	if !mc.Available() {
		return checkResult{
			Name:    "synthesizer",
			Status:  "warn",
			Message: fmt.Sprintf("%s unavailable (%s not set); a panel member will synthesize", name, mc.APIKeyEnv),
		}
	}
	return checkResult{Name: "synthesizer", Status: "ok", Message: name}
}

func validateDirs(cfg *config.Config) checkResult {
	for _, dir := range []string{cfg.Defaults.OutputDir, cfg.Inbox.Dir, cfg.Inbox.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return checkResult{
				Name:    "dirs",
				Status:  "error",
				Message: fmt.Sprintf("cannot create %s: %v", dir, err),
			}
		}
	}
	return checkResult{Name: "dirs", Status: "ok"}
}

func validateTelemetry(cfg *config.Config) checkResult {
	switch cfg.Telemetry.Exporter {
	case "", "none":
		return checkResult{Name: "telemetry", Status: "ok", Message: "exporter disabled"}
	case "stdout":
		return checkResult{Name: "telemetry", Status: "ok", Message: "stdout exporter"}
	case "otlp":
		if cfg.Telemetry.OTLPEndpoint == "" {
			return checkResult{Name: "telemetry", Status: "warn", Message: "otlp exporter with no endpoint"}
		}
		return checkResult{Name: "telemetry", Status: "ok", Message: "otlp to " + cfg.Telemetry.OTLPEndpoint}
	default:
		return checkResult{
			Name:    "telemetry",
			Status:  "warn",
			Message: fmt.Sprintf("unknown exporter %q", cfg.Telemetry.Exporter),
		}
	}
}

func printValidateResult(result validateResult) {
	statusIcon := map[string]string{
		"ok":    "✓",
		"warn":  "⚠",
		"error": "✗",
		"skip":  "○",
	}

	fmt.Println("Council Configuration Validation")
	fmt.Println("================================")
	fmt.Println()

	printCheck(statusIcon, result.Config)
	printCheck(statusIcon, result.Prompts)

	if len(result.Backends) > 0 {
		for _, r := range result.Backends {
			printCheck(statusIcon, r)
		}
	} else {
		fmt.Printf("%s backends: none configured\n", statusIcon["warn"])
	}

	printCheck(statusIcon, result.Panel)
	printCheck(statusIcon, result.Synthesizer)
	printCheck(statusIcon, result.Dirs)
	printCheck(statusIcon, result.Telemetry)

	fmt.Println()
	switch result.Overall {
	case "ok":
		fmt.Println("✓ All checks passed")
	case "warn":
		fmt.Println("⚠ Validation completed with warnings")
	case "error":
		fmt.Println("✗ Validation failed")
	}
}

func printCheck(icons map[string]string, r checkResult) {
	icon := icons[r.Status]
	if r.Message != "" {
		fmt.Printf("%s %s: %s\n", icon, r.Name, r.Message)
	} else {
		fmt.Printf("%s %s\n", icon, r.Name)
	}
}
