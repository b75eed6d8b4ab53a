// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package panel resolves which backends debate and which one synthesizes.
// Resolution happens once per invocation, before any round executes; the
// result is read-only for the rest of the debate.
package panel

import (
	"sort"
	"strings"
)

// Mode records how the panel was resolved.
type Mode string

const (
	ModeDefault Mode = "default"
	ModeFull    Mode = "full"
	ModeCustom  Mode = "custom"
)

// Panel is the resolved set of debating backend names.
type Panel struct {
	Names []string
	Mode  Mode
}

// Determine resolves the participating backends. An explicit comma-separated
// list always wins, then the full-panel flag, then the configured default.
// Explicit names keep their order and are whitespace-trimmed.
func Determine(defaultPanel, fullPanel []string, explicit string, useFull bool) Panel {
	if explicit != "" {
		var names []string
		for _, part := range strings.Split(explicit, ",") {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
		return Panel{Names: names, Mode: ModeCustom}
	}
	if useFull {
		return Panel{Names: append([]string(nil), fullPanel...), Mode: ModeFull}
	}
	return Panel{Names: append([]string(nil), defaultPanel...), Mode: ModeDefault}
}

// Filter returns the names also present in allowed, preserving panel order.
func Filter(names, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := set[n]; ok {
			kept = append(kept, n)
		}
	}
	return kept
}

// ExcludeSynthesizer removes the synthesizer from the panel so it does not
// grade its own work. Removal is skipped when fewer than two available
// debaters would remain; a working debate takes priority over synthesizer
// purity.
func ExcludeSynthesizer(names []string, synthesizer string, available []string) []string {
	found := false
	remaining := make([]string, 0, len(names))
	for _, n := range names {
		if n == synthesizer {
			found = true
			continue
		}
		remaining = append(remaining, n)
	}
	if !found {
		return names
	}
	if len(Filter(remaining, available)) >= 2 {
		return remaining
	}
	return names
}

// PickSynthesizer chooses the synthesizing backend, preferring one outside
// the panel. The preferred name wins whenever it qualifies; remaining ties
// break lexicographically by name. The returned flag reports whether the
// chosen backend also debates, which only happens when every available
// backend is on the panel.
func PickSynthesizer(available, names []string, preferred string) (string, bool) {
	inPanel := make(map[string]struct{}, len(names))
	for _, n := range names {
		inPanel[n] = struct{}{}
	}

	var outside []string
	for _, a := range available {
		if _, ok := inPanel[a]; !ok {
			outside = append(outside, a)
		}
	}
	if len(outside) > 0 {
		for _, candidate := range outside {
			if candidate == preferred {
				return preferred, false
			}
		}
		sort.Strings(outside)
		return outside[0], false
	}

	for _, a := range available {
		if a == preferred {
			return preferred, true
		}
	}
	if len(available) > 0 {
		fallback := append([]string(nil), available...)
		sort.Strings(fallback)
		return fallback[0], true
	}
	return preferred, true
}
