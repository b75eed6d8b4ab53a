// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package openai provides the OpenAI debate backend. xAI serves the same
// wire format, so NewXAI builds a Grok backend from the same client.
package openai

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/llm"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// XAIBaseURL is the xAI API endpoint.
const XAIBaseURL = "https://api.x.ai/v1"

// Provider implements llm.Provider for the OpenAI API.
type Provider struct {
	client    openai.Client
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

// WithBaseURL sets a custom base URL (for xAI, Azure OpenAI or proxies).
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

// New creates a new OpenAI provider.
// API key is read from OPENAI_API_KEY environment variable by default.
func New(opts ...Option) *Provider {
	p := &Provider{
		name:      "openai",
		model:     "gpt-4o",
		maxTokens: 4096,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = openai.NewClient(p.reqOpts...)
	return p
}

// NewWithAPIKey creates a new OpenAI provider with explicit API key.
func NewWithAPIKey(apiKey string, opts ...Option) *Provider {
	opts = append([]Option{WithAPIKey(apiKey)}, opts...)
	return New(opts...)
}

// NewXAI creates a Grok provider against the xAI endpoint. Later options
// override the grok defaults.
func NewXAI(apiKey string, opts ...Option) *Provider {
	base := []Option{
		WithName("grok"),
		WithModel("grok-3"),
		WithAPIKey(apiKey),
		WithBaseURL(XAIBaseURL),
	}
	return New(append(base, opts...)...)
}

// Name implements llm.Provider.
func (p *Provider) Name() string {
	return p.name
}

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string, round int) (*llm.Reply, error) {
	params := openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if p.maxTokens > 0 {
		// MaxTokens rather than MaxCompletionTokens so the xAI endpoint
		// accepts the request too.
		params.MaxTokens = openai.Int(p.maxTokens)
	}

	start := time.Now()
	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, p.wrapErr(ctx, err)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New(errors.CodeEmptyReply, "response contained no choices", nil).
			WithAttribute("backend", p.name)
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, errors.New(errors.CodeEmptyReply, "response contained empty content", nil).
			WithAttribute("backend", p.name)
	}

	return &llm.Reply{
		Backend: p.name,
		Model:   p.model,
		Round:   round,
		Content: content,
		Latency: time.Since(start),
		Tokens:  int(completion.Usage.TotalTokens),
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
	var apiErr *openai.Error
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
