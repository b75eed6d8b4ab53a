// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for Council.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("network timeout")
	ce := New(CodeTimeout, "backend call timed out", cause)

	if ce.Code != CodeTimeout {
		t.Errorf("expected CodeTimeout, got %v", ce.Code)
	}
	if ce.Message != "backend call timed out" {
		t.Errorf("expected message 'backend call timed out', got %q", ce.Message)
	}
	if ce.Err != cause {
		t.Errorf("expected cause to be preserved")
	}
	if !errors.Is(ce, cause) {
		t.Errorf("expected errors.Is to work with wrapped error")
	}
}

func TestWithContext(t *testing.T) {
	ce := New(CodeBackendError, "backend failed", nil)
	ce.WithContext("backend", "claude").
		WithContext("round", 2)

	if ce.Context["backend"] != "claude" {
		t.Errorf("expected context backend to be 'claude'")
	}
	if ce.Context["round"] == nil {
		t.Errorf("expected context round to be set")
	}
}

func TestWithAttribute(t *testing.T) {
	ce := New(CodeBackendError, "backend failed", nil)
	ce.WithAttribute("backend_name", "gemini").
		WithAttribute("retry_count", "1")

	if ce.Attributes["backend_name"] != "gemini" {
		t.Errorf("expected attribute backend_name")
	}
	if ce.Attributes["retry_count"] != "1" {
		t.Errorf("expected attribute retry_count")
	}
}

func TestWithRecoverable(t *testing.T) {
	ce := New(CodeBackendError, "network error", nil)
	if ce.Recoverable {
		t.Errorf("expected recoverable to be false by default")
	}

	ce.WithRecoverable(true)
	if !ce.Recoverable {
		t.Errorf("expected recoverable to be true after WithRecoverable")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		ce       *CouncilError
		expected string
	}{
		{
			name:     "with cause",
			ce:       New(CodeTimeout, "operation timed out", errors.New("deadline exceeded")),
			expected: "[TIMEOUT] operation timed out: deadline exceeded",
		},
		{
			name:     "without cause",
			ce:       New(CodeNotFound, "backend not found", nil),
			expected: "[NOT_FOUND] backend not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ce.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAsCouncilError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "already CouncilError",
			err:      New(CodeEmptyReply, "empty content", nil),
			expected: CodeEmptyReply,
		},
		{
			name:     "wrapped CouncilError",
			err:      fmt.Errorf("round 2: %w", New(CodeTimeout, "timed out", nil)),
			expected: CodeTimeout,
		},
		{
			name:     "generic error",
			err:      errors.New("generic error"),
			expected: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := AsCouncilError(tt.err)
			if tt.expected == "" {
				if ce != nil {
					t.Errorf("expected nil for nil error")
				}
			} else {
				if ce == nil {
					t.Errorf("expected non-nil CouncilError")
				} else if ce.Code != tt.expected {
					t.Errorf("expected %v, got %v", tt.expected, ce.Code)
				}
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	timeout := New(CodeTimeout, "call timed out", nil)

	if !IsCode(timeout, CodeTimeout) {
		t.Errorf("expected IsCode to match direct error")
	}
	if IsCode(timeout, CodeBackendError) {
		t.Errorf("expected IsCode to reject mismatched code")
	}

	wrapped := fmt.Errorf("backend claude: %w", timeout)
	if !IsCode(wrapped, CodeTimeout) {
		t.Errorf("expected IsCode to walk the error chain")
	}

	if IsCode(errors.New("plain"), CodeTimeout) {
		t.Errorf("expected IsCode to reject non-Council errors")
	}
	if IsCode(nil, CodeTimeout) {
		t.Errorf("expected IsCode to reject nil")
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"nil", nil, ""},
		{"typed", New(CodeRoundFailed, "all failed", nil), CodeRoundFailed},
		{"wrapped", fmt.Errorf("outer: %w", New(CodeSynthesisFailed, "empty", nil)), CodeSynthesisFailed},
		{"plain", errors.New("plain"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	ce := New(CodeBackendError, "backend failed", errors.New("network error"))
	ce.WithContext("backend", "claude").
		WithAttribute("retry_count", "1").
		WithRecoverable(true)

	data, err := json.Marshal(ce)
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unexpected error unmarshaling: %v", err)
	}

	if result["code"] != "BACKEND_ERROR" {
		t.Errorf("expected code 'BACKEND_ERROR', got %v", result["code"])
	}
	if result["recoverable"] != true {
		t.Errorf("expected recoverable true")
	}
}
