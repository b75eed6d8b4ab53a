// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/llm"
)

// OpenAI-compatible chat endpoints per SDK. The CLI speaks the compat
// protocol to every hosted vendor; the SDK-native clients live in the
// providers/ submodules for library consumers.
var compatBaseURLs = map[string]string{
	"anthropic": "https://api.anthropic.com/v1",
	"gemini":    "https://generativelanguage.googleapis.com/v1beta/openai",
	"openai":    "https://api.openai.com/v1",
	"xai":       "https://api.x.ai/v1",
	"deepseek":  "https://api.deepseek.com/v1",
	"qwen":      "https://dashscope.aliyuncs.com/compatible-mode/v1",
}

// buildProvider constructs the LLM client for one configured backend.
func buildProvider(mc config.ModelConfig) (llm.Provider, error) {
	sdk := strings.ToLower(strings.TrimSpace(mc.SDK))

	switch sdk {
	case "ollama":
		return llm.NewOllama(mc.Name, mc.BaseURL, mc.Model), nil
	case "mock":
		return &llm.MockProvider{
			BackendName: mc.Name,
			Model:       mc.Model,
			Response:    "mock reply from " + mc.Name,
		}, nil
	}

	baseURL := mc.BaseURL
	if baseURL == "" {
		baseURL = compatBaseURLs[sdk]
	}
	if baseURL == "" {
		return nil, fmt.Errorf("backend %q: unknown sdk %q and no base_url configured", mc.Name, mc.SDK)
	}

	apiKey := strings.TrimSpace(os.Getenv(mc.APIKeyEnv))
	if mc.APIKeyEnv != "" && apiKey == "" {
		return nil, fmt.Errorf("backend %q: %s is not set", mc.Name, mc.APIKeyEnv)
	}

	var opts []llm.CompatOption
	if mc.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(mc.MaxTokens))
	}
	return llm.NewOpenAICompat(mc.Name, apiKey, baseURL, mc.Model, opts...), nil
}
