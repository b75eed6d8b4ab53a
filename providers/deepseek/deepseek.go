// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

// Package deepseek provides the DeepSeek debate backend.
// DeepSeek serves the OpenAI wire format, so the provider rides the shared
// compat client instead of a vendor SDK.
package deepseek

import (
	"context"
	"net/http"

	"github.com/jllopis/council/pkg/llm"
)

const (
	// DefaultBaseURL is the DeepSeek API endpoint.
	DefaultBaseURL = "https://api.deepseek.com/v1"
)

// Provider implements llm.Provider for the DeepSeek API.
type Provider struct {
	compat *llm.OpenAICompatProvider

	name      string
	baseURL   string
	model     string
	maxTokens int
	client    *http.Client
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

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.baseURL = url
	}
}

// WithMaxTokens sets the maximum tokens for replies.
func WithMaxTokens(tokens int) Option {
	return func(p *Provider) {
		p.maxTokens = tokens
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// New creates a new DeepSeek provider.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		name:      "deepseek",
		baseURL:   DefaultBaseURL,
		model:     "deepseek-chat",
		maxTokens: 4096,
	}
	for _, opt := range opts {
		opt(p)
	}

	copts := []llm.CompatOption{llm.WithMaxTokens(p.maxTokens)}
	if p.client != nil {
		copts = append(copts, llm.WithHTTPClient(p.client))
	}
	p.compat = llm.NewOpenAICompat(p.name, apiKey, p.baseURL, p.model, copts...)
	return p
}

// Name implements llm.Provider.
func (p *Provider) Name() string {
	return p.compat.Name()
}

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string, round int) (*llm.Reply, error) {
	return p.compat.Generate(ctx, prompt, round)
}

// Ensure Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)
