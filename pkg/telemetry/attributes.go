// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides OpenTelemetry integration with rich attributes
// for debate observability.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for Council debate telemetry.
// These follow OpenTelemetry naming conventions where applicable.
const (
	// Debate attributes
	AttrDebateRunID     = "council.debate.run_id"
	AttrDebateRounds    = "council.debate.rounds"
	AttrDebatePanelSize = "council.debate.panel_size"
	AttrDebatePanelMode = "council.debate.panel_mode"
	AttrDebateSource    = "council.debate.source"

	// Round attributes
	AttrRoundNumber   = "council.round.number"
	AttrRoundReplies  = "council.round.replies"
	AttrRoundFailures = "council.round.failures"

	// Backend attributes
	AttrBackendName    = "council.backend.name"
	AttrBackendRetried = "council.backend.retried"

	// Synthesis attributes
	AttrSynthesizer            = "council.synthesis.backend"
	AttrSynthesizerParticipant = "council.synthesis.participant"

	// Error attributes
	AttrErrorCode = "council.error.code"

	// LLM attributes (standard gen_ai conventions)
	AttrLLMModel       = "gen_ai.request.model"
	AttrLLMProvider    = "gen_ai.system"
	AttrLLMTokensTotal = "gen_ai.usage.total_tokens"
	AttrLLMDurationMs  = "gen_ai.duration_ms"
)

// DebateAttributes returns common attributes for debate spans.
func DebateAttributes(runID string, rounds, panelSize int, panelMode string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrDebateRunID, runID),
		attribute.Int(AttrDebateRounds, rounds),
		attribute.Int(AttrDebatePanelSize, panelSize),
	}
	if panelMode != "" {
		attrs = append(attrs, attribute.String(AttrDebatePanelMode, panelMode))
	}
	return attrs
}

// RoundAttributes returns attributes for a round span.
func RoundAttributes(number, replies, failures int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrRoundNumber, number),
		attribute.Int(AttrRoundReplies, replies),
		attribute.Int(AttrRoundFailures, failures),
	}
}

// BackendCallAttributes returns attributes for a backend call span.
func BackendCallAttributes(backend, model string, round int, retried bool) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrBackendName, backend),
		attribute.Int(AttrRoundNumber, round),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrLLMModel, model))
	}
	if retried {
		attrs = append(attrs, attribute.Bool(AttrBackendRetried, true))
	}
	return attrs
}

// ReplyUsageAttributes returns token and latency attributes for a reply.
func ReplyUsageAttributes(tokens int, durationMs float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if tokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensTotal, tokens))
	}
	if durationMs > 0 {
		attrs = append(attrs, attribute.Float64(AttrLLMDurationMs, durationMs))
	}
	return attrs
}

// SynthesisAttributes returns attributes for the synthesis span.
func SynthesisAttributes(backend string, participant bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSynthesizer, backend),
		attribute.Bool(AttrSynthesizerParticipant, participant),
	}
}
