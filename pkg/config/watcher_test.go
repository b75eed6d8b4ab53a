// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSettings(t *testing.T, path, synthesizer string) {
	t.Helper()
	body := "defaults:\n  synthesizer: " + synthesizer + "\n  rounds: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// startWatcher builds a fast-polling watcher over paths and registers
// cleanup. Tests that exercise Stop directly must not use it.
func startWatcher(t *testing.T, paths ...string) *Watcher {
	t.Helper()
	w, err := NewWatcher(paths, WithWatchInterval(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	t.Cleanup(func() {
		w.Stop()
		cancel()
	})
	return w
}

func TestWatcherReloadsOnEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeSettings(t, path, "openai")

	w := startWatcher(t, path)
	if got := w.Config().Defaults.Synthesizer; got != "openai" {
		t.Fatalf("initial synthesizer = %q, want openai", got)
	}

	notified := make(chan *Config, 1)
	w.OnChange(func(cfg *Config) { notified <- cfg })

	time.Sleep(100 * time.Millisecond)
	writeSettings(t, path, "claude")

	select {
	case cfg := <-notified:
		if cfg.Defaults.Synthesizer != "claude" {
			t.Errorf("reloaded synthesizer = %q, want claude", cfg.Defaults.Synthesizer)
		}
		if got := w.Config().Defaults.Synthesizer; got != "claude" {
			t.Errorf("Config() after reload = %q, want claude", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("no reload notification after editing the settings file")
	}
}

func TestWatcherNotifiesEveryListener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeSettings(t, path, "openai")

	w := startWatcher(t, path)
	first := make(chan struct{}, 4)
	second := make(chan struct{}, 4)
	w.OnChange(func(*Config) { first <- struct{}{} })
	w.OnChange(func(*Config) { second <- struct{}{} })

	time.Sleep(100 * time.Millisecond)
	writeSettings(t, path, "claude")
	time.Sleep(250 * time.Millisecond)

	if len(first) != 1 || len(second) != 1 {
		t.Errorf("listener calls = %d and %d, want one each", len(first), len(second))
	}
}

func TestWatcherKeepsConfigWhenReloadFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeSettings(t, path, "openai")

	w := startWatcher(t, path)
	notified := make(chan *Config, 1)
	w.OnChange(func(cfg *Config) { notified <- cfg })

	time.Sleep(100 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove settings file: %v", err)
	}

	select {
	case <-notified:
		t.Fatal("listener ran for a reload that should have failed")
	case <-time.After(300 * time.Millisecond):
	}
	if got := w.Config().Defaults.Synthesizer; got != "openai" {
		t.Errorf("config after failed reload = %q, want openai", got)
	}
}

func TestWatcherStops(t *testing.T) {
	w, err := NewWatcher(nil, WithWatchInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Error("Stop did not return in time")
	}
}

func TestWatchConfigPicksUpProfileOverlays(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "settings.yaml")
	devPath := filepath.Join(dir, "settings.dev.yaml")
	writeSettings(t, basePath, "openai")
	writeSettings(t, devPath, "claude")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, cfg, err := WatchConfig(ctx, basePath, WithWatchInterval(50*time.Millisecond))
	if err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	defer w.Stop()

	// No profile was selected, so the initial config comes from the base
	// file alone.
	if got := cfg.Defaults.Synthesizer; got != "openai" {
		t.Fatalf("initial synthesizer = %q, want openai", got)
	}

	// The overlay is still watched. Editing it triggers a reload.
	notified := make(chan *Config, 1)
	w.OnChange(func(cfg *Config) { notified <- cfg })

	time.Sleep(100 * time.Millisecond)
	writeSettings(t, devPath, "gemini")

	select {
	case <-notified:
	case <-time.After(500 * time.Millisecond):
		t.Error("no reload notification after editing the profile overlay")
	}
}

func TestReloadableConfig(t *testing.T) {
	initial := &Config{
		Defaults: DefaultsConfig{Synthesizer: "openai"},
		Log:      LogConfig{Level: "info"},
	}
	replacement := &Config{
		Defaults: DefaultsConfig{Synthesizer: "claude"},
		Log:      LogConfig{Level: "debug"},
	}

	rc := NewReloadableConfig(initial)
	if got := rc.Defaults().Synthesizer; got != "openai" {
		t.Errorf("Defaults().Synthesizer = %q, want openai", got)
	}
	if got := rc.Log().Level; got != "info" {
		t.Errorf("Log().Level = %q, want info", got)
	}

	rc.Update(replacement)
	if rc.Get() != replacement {
		t.Error("Get() does not return the updated config")
	}
	if got := rc.Defaults().Synthesizer; got != "claude" {
		t.Errorf("Defaults().Synthesizer after Update = %q, want claude", got)
	}
}
