// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for Council.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies Council errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeConfig indicates the configuration could not be loaded or is invalid.
	CodeConfig ErrorCode = "CONFIG_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeRateLimit indicates rate limiting was triggered.
	CodeRateLimit ErrorCode = "RATE_LIMITED"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeUnauthorized indicates authorization failed.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeBackendError indicates an LLM backend call failed.
	CodeBackendError ErrorCode = "BACKEND_ERROR"

	// CodeEmptyReply indicates a backend returned no usable content.
	CodeEmptyReply ErrorCode = "EMPTY_REPLY"

	// CodeRoundFailed indicates every backend in a debate round failed.
	CodeRoundFailed ErrorCode = "ROUND_FAILED"

	// CodeSynthesisFailed indicates the final synthesis step failed.
	CodeSynthesisFailed ErrorCode = "SYNTHESIS_FAILED"
)

// CouncilError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type CouncilError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
}

// Error implements the error interface.
func (e *CouncilError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *CouncilError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *CouncilError) MarshalJSON() ([]byte, error) {
	type Alias CouncilError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new CouncilError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *CouncilError {
	return &CouncilError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *CouncilError) WithContext(key string, value interface{}) *CouncilError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *CouncilError) WithAttribute(key, value string) *CouncilError {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *CouncilError) WithRecoverable(recoverable bool) *CouncilError {
	e.Recoverable = recoverable
	return e
}

// AsCouncilError attempts to convert an error to a CouncilError.
// Returns the error as CouncilError if it is one, or wraps it otherwise.
func AsCouncilError(err error) *CouncilError {
	if err == nil {
		return nil
	}
	var ce *CouncilError
	if stderrors.As(err, &ce) {
		return ce
	}
	// Wrap unknown error as internal
	return New(CodeInternal, "wrapped error", err)
}

// Code extracts the ErrorCode from err, walking the error chain.
// Returns CodeInternal for non-Council errors and "" for nil.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var ce *CouncilError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var ce *CouncilError
	if stderrors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *CouncilError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}
