// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestDebateAttributes(t *testing.T) {
	attrs := DebateAttributes("run-123", 3, 5, "full")

	expected := map[string]any{
		AttrDebateRunID:     "run-123",
		AttrDebateRounds:    3,
		AttrDebatePanelSize: 5,
		AttrDebatePanelMode: "full",
	}

	assertAttributes(t, attrs, expected)
}

func TestDebateAttributes_EmptyMode(t *testing.T) {
	attrs := DebateAttributes("run-123", 2, 3, "")

	for _, attr := range attrs {
		if string(attr.Key) == AttrDebatePanelMode {
			t.Errorf("panel mode should be omitted when empty")
		}
	}
}

func TestRoundAttributes(t *testing.T) {
	attrs := RoundAttributes(2, 4, 1)

	expected := map[string]any{
		AttrRoundNumber:   2,
		AttrRoundReplies:  4,
		AttrRoundFailures: 1,
	}

	assertAttributes(t, attrs, expected)
}

func TestBackendCallAttributes(t *testing.T) {
	attrs := BackendCallAttributes("claude", "claude-sonnet-4", 1, true)

	expected := map[string]any{
		AttrBackendName:    "claude",
		AttrLLMModel:       "claude-sonnet-4",
		AttrRoundNumber:    1,
		AttrBackendRetried: true,
	}

	assertAttributes(t, attrs, expected)
}

func TestBackendCallAttributes_NoRetry(t *testing.T) {
	attrs := BackendCallAttributes("gemini", "", 2, false)

	for _, attr := range attrs {
		switch string(attr.Key) {
		case AttrBackendRetried:
			t.Errorf("retried flag should be omitted when false")
		case AttrLLMModel:
			t.Errorf("model should be omitted when empty")
		}
	}
}

func TestReplyUsageAttributes(t *testing.T) {
	attrs := ReplyUsageAttributes(150, 1500.0)

	expected := map[string]any{
		AttrLLMTokensTotal: 150,
		AttrLLMDurationMs:  1500.0,
	}

	assertAttributes(t, attrs, expected)
}

func TestReplyUsageAttributes_Empty(t *testing.T) {
	attrs := ReplyUsageAttributes(0, 0)
	if len(attrs) != 0 {
		t.Errorf("expected no attributes for zero usage, got %d", len(attrs))
	}
}

func TestSynthesisAttributes(t *testing.T) {
	attrs := SynthesisAttributes("openai", true)

	expected := map[string]any{
		AttrSynthesizer:            "openai",
		AttrSynthesizerParticipant: true,
	}

	assertAttributes(t, attrs, expected)
}

// assertAttributes checks that expected key-value pairs exist in attrs
func assertAttributes(t *testing.T, attrs []attribute.KeyValue, expected map[string]any) {
	t.Helper()

	found := make(map[string]attribute.KeyValue)
	for _, attr := range attrs {
		found[string(attr.Key)] = attr
	}

	for key, expectedVal := range expected {
		attr, ok := found[key]
		if !ok {
			t.Errorf("missing attribute %s", key)
			continue
		}

		var actualVal any
		switch attr.Value.Type() {
		case attribute.STRING:
			actualVal = attr.Value.AsString()
		case attribute.INT64:
			actualVal = int(attr.Value.AsInt64())
		case attribute.FLOAT64:
			actualVal = attr.Value.AsFloat64()
		case attribute.BOOL:
			actualVal = attr.Value.AsBool()
		}

		if actualVal != expectedVal {
			t.Errorf("attribute %s: got %v, want %v", key, actualVal, expectedVal)
		}
	}
}
