// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package gemini provides the Gemini debate backend via the Google GenAI API.
package gemini

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/llm"
	"google.golang.org/genai"
)

// Provider implements llm.Provider for the Google Gemini API.
type Provider struct {
	client *genai.Client
	name   string
	model  string
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

// New creates a new Gemini provider.
// API key is read from GOOGLE_API_KEY or GEMINI_API_KEY environment variable by default.
func New(ctx context.Context, opts ...Option) (*Provider, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, errors.New(errors.CodeConfig, "failed to create Gemini client", err)
	}

	p := &Provider{
		client: client,
		name:   "gemini",
		model:  "gemini-2.5-pro",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewWithAPIKey creates a new Gemini provider with explicit API key.
func NewWithAPIKey(ctx context.Context, apiKey string, opts ...Option) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, errors.New(errors.CodeConfig, "failed to create Gemini client", err)
	}

	p := &Provider{
		client: client,
		name:   "gemini",
		model:  "gemini-2.5-pro",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string {
	return p.name
}

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string, round int) (*llm.Reply, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return nil, p.wrapErr(ctx, err)
	}

	var text string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			text += part.Text
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New(errors.CodeEmptyReply, "response contained empty content", nil).
			WithAttribute("backend", p.name)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Reply{
		Backend: p.name,
		Model:   p.model,
		Round:   round,
		Content: text,
		Latency: time.Since(start),
		Tokens:  tokens,
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
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
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
