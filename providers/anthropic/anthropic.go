// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package anthropic provides the Claude debate backend via the Anthropic API.
package anthropic

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/llm"
)

// Provider implements llm.Provider for the Anthropic Claude API.
type Provider struct {
	client    anthropic.Client
	name      string
	model     string
	maxTokens int64
	reqOpts   []option.RequestOption
}

// Option configures the Provider.
type Option func(*Provider)

// WithName sets the backend name used in panels and transcripts.
func WithName(name string) Option {
	return func(p *Provider) {
		p.name = name
	}
}

// WithModel sets the model.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets the maximum tokens for replies.
func WithMaxTokens(tokens int64) Option {
	return func(p *Provider) {
		p.maxTokens = tokens
	}
}

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.reqOpts = append(p.reqOpts, option.WithBaseURL(url))
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.reqOpts = append(p.reqOpts, option.WithAPIKey(apiKey))
	}
}

// New creates a new Claude provider.
// API key is read from ANTHROPIC_API_KEY environment variable by default.
func New(opts ...Option) *Provider {
	p := &Provider{
		name:      "claude",
		model:     "claude-sonnet-4-20250514",
		maxTokens: 4096,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = anthropic.NewClient(p.reqOpts...)
	return p
}

// NewWithAPIKey creates a new Claude provider with explicit API key.
func NewWithAPIKey(apiKey string, opts ...Option) *Provider {
	opts = append([]Option{WithAPIKey(apiKey)}, opts...)
	return New(opts...)
}

// Name implements llm.Provider.
func (p *Provider) Name() string {
	return p.name
}

// Generate implements llm.Provider. The debate engine hands over a fully
// rendered prompt, so the request is a single user message with no system
// block.
func (p *Provider) Generate(ctx context.Context, prompt string, round int) (*llm.Reply, error) {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	start := time.Now()
	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, p.wrapErr(ctx, err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New(errors.CodeEmptyReply, "response contained empty content", nil).
			WithAttribute("backend", p.name)
	}

	return &llm.Reply{
		Backend: p.name,
		Model:   p.model,
		Round:   round,
		Content: text,
		Latency: time.Since(start),
		Tokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}, nil
}

// wrapErr maps SDK failures onto council error codes so the round executor
// can apply its retry policy.
func (p *Provider) wrapErr(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.New(errors.CodeTimeout, "request timed out", err).
			WithAttribute("backend", p.name)
	}
	code := errors.CodeBackendError
	var apiErr *anthropic.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			code = errors.CodeUnauthorized
		case http.StatusTooManyRequests:
			code = errors.CodeRateLimit
		}
	}
	return errors.New(code, "request failed", err).WithAttribute("backend", p.name)
}

// Ensure Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)
