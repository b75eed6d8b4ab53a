// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// defaultWatchInterval is the polling cadence for settings files.
const defaultWatchInterval = time.Second

// Watcher polls configuration files for modification time changes and
// reloads the settings when one of them moves. The MCP server uses it to
// pick up edits without a restart.
type Watcher struct {
	paths    []string
	interval time.Duration
	logger   *slog.Logger

	mu        sync.RWMutex
	current   *Config
	listeners []func(*Config)

	stop chan struct{}
	done chan struct{}
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets the polling interval for file changes.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithWatchLogger sets the logger for watcher diagnostics.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher loads the configuration from the first path and prepares a
// watcher over all of them. An empty path list watches nothing and serves
// the configuration from the default locations.
func NewWatcher(paths []string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		paths:    paths,
		interval: defaultWatchInterval,
		logger:   slog.Default(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	cfg, err := w.load()
	if err != nil {
		return nil, err
	}
	w.current = cfg
	return w, nil
}

// OnChange registers fn to run after every successful reload.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Config returns the most recently loaded configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Start launches the polling loop. It returns immediately; the loop runs
// until ctx is canceled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.poll(ctx)
}

// Stop terminates the polling loop and waits for it to exit.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Watcher) poll(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	seen := w.modTimes()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			now := w.modTimes()
			if sameModTimes(seen, now) {
				continue
			}
			seen = now
			w.reload()
		}
	}
}

// modTimes stats every watched path. Files that fail to stat are left
// out, so a deletion registers as a change the same way an edit does.
func (w *Watcher) modTimes() map[string]time.Time {
	times := make(map[string]time.Time, len(w.paths))
	for _, path := range w.paths {
		if info, err := os.Stat(path); err == nil {
			times[path] = info.ModTime()
		}
	}
	return times
}

func sameModTimes(a, b map[string]time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for path, mt := range a {
		got, ok := b[path]
		if !ok || !got.Equal(mt) {
			return false
		}
	}
	return true
}

func (w *Watcher) reload() {
	cfg, err := w.load()
	if err != nil {
		w.logger.Error("config reload failed", "error", err)
		return
	}

	w.mu.Lock()
	w.current = cfg
	listeners := append([]func(*Config){}, w.listeners...)
	w.mu.Unlock()

	w.logger.Info("config reloaded", "watched", len(w.paths))
	for _, fn := range listeners {
		fn(cfg)
	}
}

func (w *Watcher) load() (*Config, error) {
	if len(w.paths) == 0 {
		return Load("")
	}
	return Load(w.paths[0])
}

// WatchConfig builds a watcher over configPath and any profile overlays
// sitting next to it (settings.dev.yaml next to settings.yaml), starts it,
// and returns the initial configuration loaded from configPath alone.
func WatchConfig(ctx context.Context, configPath string, opts ...WatcherOption) (*Watcher, *Config, error) {
	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
		paths = append(paths, profileOverlays(configPath)...)
	}

	w, err := NewWatcher(paths, opts...)
	if err != nil {
		return nil, nil, err
	}
	w.Start(ctx)
	return w, w.Config(), nil
}

// profileOverlays returns the sibling files of base named
// <name>.<profile><ext>. The base file itself cannot match the pattern.
func profileOverlays(base string) []string {
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(filepath.Base(base), ext)
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(base), name+".*"+ext))
	if err != nil {
		return nil
	}
	return matches
}

// ReloadableConfig hands the latest settings snapshot to long-running
// surfaces while a watcher swaps it underneath.
type ReloadableConfig struct {
	current atomic.Pointer[Config]
}

// NewReloadableConfig wraps cfg for atomic replacement.
func NewReloadableConfig(cfg *Config) *ReloadableConfig {
	r := &ReloadableConfig{}
	r.current.Store(cfg)
	return r
}

// Get returns the current configuration.
func (r *ReloadableConfig) Get() *Config {
	return r.current.Load()
}

// Update replaces the configuration.
func (r *ReloadableConfig) Update(cfg *Config) {
	r.current.Store(cfg)
}

// Defaults returns the debate defaults from the current configuration.
func (r *ReloadableConfig) Defaults() DefaultsConfig {
	return r.current.Load().Defaults
}

// Prompts returns the prompt templates from the current configuration.
func (r *ReloadableConfig) Prompts() PromptsConfig {
	return r.current.Load().Prompts
}

// Telemetry returns the telemetry settings from the current configuration.
func (r *ReloadableConfig) Telemetry() TelemetryConfig {
	return r.current.Load().Telemetry
}

// Log returns the logging settings from the current configuration.
func (r *ReloadableConfig) Log() LogConfig {
	return r.current.Load().Log
}
