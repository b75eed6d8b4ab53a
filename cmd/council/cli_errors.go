// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package main implements the Council CLI.
package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/jllopis/council/pkg/errors"
)

// CLIError wraps CouncilError with CLI-specific formatting and hints.
type CLIError struct {
	*errors.CouncilError
	Hint string
}

// NewCLIError creates a new CLI error.
func NewCLIError(ce *errors.CouncilError, hint string) *CLIError {
	return &CLIError{
		CouncilError: ce,
		Hint:         hint,
	}
}

// Error returns the formatted error message with hints.
func (e *CLIError) Error() string {
	if e.CouncilError == nil {
		return "unknown error"
	}

	msg := e.CouncilError.Error()
	if e.Hint != "" {
		msg += "\n  Hint: " + e.Hint
	}
	return msg
}

// PrintError prints the error with appropriate formatting.
func (e *CLIError) PrintError(json bool) {
	if json {
		fmt.Fprintf(os.Stderr, `{"error":{"code":"%s","message":"%s","hint":"%s"}}%s`,
			e.CouncilError.Code,
			e.CouncilError.Message,
			e.Hint,
			"\n")
		return
	}

	fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", e.CouncilError.Code, e.CouncilError.Message)
	if e.Hint != "" {
		fmt.Fprintf(os.Stderr, "  Hint: %s\n", e.Hint)
	}
}

// NewConfigError creates a configuration error with CLI hints.
func NewConfigError(err error, configPath string) *CLIError {
	ce := errors.New(errors.CodeConfig, "configuration error", err).
		WithContext("config_path", configPath).
		WithRecoverable(false)

	hint := "check your configuration file syntax"
	if configPath != "" {
		hint = fmt.Sprintf("check %s for syntax errors", configPath)
	}
	return NewCLIError(ce, hint)
}

// NewInvalidArgumentError creates an invalid argument error with CLI hints.
func NewInvalidArgumentError(arg, reason string) *CLIError {
	ce := errors.New(errors.CodeInvalidInput, fmt.Sprintf("invalid argument: %s", reason), nil).
		WithContext("argument", arg).
		WithContext("reason", reason).
		WithRecoverable(false)
	return NewCLIError(ce, "run 'council help' for usage information")
}

// NewNotFoundError creates a not found error with CLI hints.
func NewNotFoundError(resource, name string) *CLIError {
	ce := errors.New(errors.CodeNotFound, fmt.Sprintf("%s '%s' not found", resource, name), nil).
		WithContext("resource", resource).
		WithContext("name", name).
		WithRecoverable(false)
	return NewCLIError(ce, fmt.Sprintf("check that the %s exists and you have access", resource))
}

// NewPanelTooSmallError reports a panel that cannot sustain a debate.
func NewPanelTooSmallError(got int) *CLIError {
	ce := errors.New(errors.CodeInvalidInput,
		fmt.Sprintf("need at least 2 providers for a debate, got %d", got), nil).
		WithContext("panel_size", got).
		WithRecoverable(false)
	return NewCLIError(ce, "Check API keys in .env or adjust --models.")
}

// NewNoProvidersError reports that no backend could be constructed.
func NewNoProvidersError() *CLIError {
	ce := errors.New(errors.CodeConfig, "no providers available", nil).
		WithRecoverable(false)
	return NewCLIError(ce, "Check API keys in .env.")
}

// WrapDebateError wraps a debate pipeline error with stage-appropriate hints.
func WrapDebateError(err error) *CLIError {
	ce := errors.AsCouncilError(err)

	var hint string
	switch ce.Code {
	case errors.CodeRoundFailed:
		hint = "every panel member failed; check backend health with 'council backends --check'"
	case errors.CodeSynthesisFailed:
		hint = "the synthesizer backend failed; pick another with --synthesizer"
	case errors.CodeTimeout:
		hint = "increase the backend timeout_seconds in council.yaml"
	case errors.CodeRateLimit:
		hint = "a backend is rate limited; wait a moment and retry"
	case errors.CodeUnauthorized:
		hint = "check your API keys in .env"
	default:
		hint = "rerun with --verbose for the full error chain"
	}
	return NewCLIError(ce, hint)
}

// printCLIError routes an error to the richest formatter that fits it.
func printCLIError(err error, json bool) {
	if cliErr, ok := err.(*CLIError); ok {
		cliErr.PrintError(json)
		return
	}
	var ce *errors.CouncilError
	if stderrors.As(err, &ce) {
		NewCLIError(ce, "").PrintError(json)
		return
	}
	PrintSimpleError(err, json)
}

// PrintSimpleError prints a simple error message (for non-CouncilError cases).
func PrintSimpleError(err error, json bool) {
	if json {
		fmt.Fprintf(os.Stderr, `{"error":{"code":"UNKNOWN","message":"%s"}}%s`, err.Error(), "\n")
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}

// FormatErrorCode returns a user-friendly name for error codes.
func FormatErrorCode(code errors.ErrorCode) string {
	switch code {
	case errors.CodeInternal:
		return "Internal Error"
	case errors.CodeInvalidInput:
		return "Invalid Input"
	case errors.CodeConfig:
		return "Config Error"
	case errors.CodeTimeout:
		return "Timeout"
	case errors.CodeRateLimit:
		return "Rate Limited"
	case errors.CodeNotFound:
		return "Not Found"
	case errors.CodeUnauthorized:
		return "Unauthorized"
	case errors.CodeBackendError:
		return "Backend Error"
	case errors.CodeEmptyReply:
		return "Empty Reply"
	case errors.CodeRoundFailed:
		return "Round Failed"
	case errors.CodeSynthesisFailed:
		return "Synthesis Failed"
	default:
		return string(code)
	}
}
