package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jllopis/council/pkg/errors"
)

// OpenAICompatProvider implements Provider against any OpenAI-compatible
// chat completions endpoint. OpenAI, DeepSeek, Grok and Qwen all speak this
// dialect, so a single HTTP client covers them without pulling in an SDK.
type OpenAICompatProvider struct {
	name      string
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	client    *http.Client
}

// CompatOption configures an OpenAICompatProvider.
type CompatOption func(*OpenAICompatProvider)

// WithMaxTokens caps the completion size.
func WithMaxTokens(n int) CompatOption {
	return func(p *OpenAICompatProvider) { p.maxTokens = n }
}

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) CompatOption {
	return func(p *OpenAICompatProvider) { p.client = client }
}

// NewOpenAICompat creates a provider for an OpenAI-compatible endpoint.
// Deadlines come from the caller's context, so the HTTP client carries no
// fixed timeout of its own.
func NewOpenAICompat(name, apiKey, baseURL, model string, opts ...CompatOption) *OpenAICompatProvider {
	p := &OpenAICompatProvider{
		name:      name,
		apiKey:    apiKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		model:     model,
		maxTokens: 4096,
		client:    &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OpenAI-compatible request/response types

type compatRequest struct {
	Model     string          `json:"model"`
	Messages  []compatMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type compatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type compatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type compatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (p *OpenAICompatProvider) Name() string {
	return p.name
}

// Generate implements Provider.
func (p *OpenAICompatProvider) Generate(ctx context.Context, prompt string, round int) (*Reply, error) {
	apiReq := compatRequest{
		Model:     p.model,
		Messages:  []compatMessage{{Role: "user", Content: prompt}},
		MaxTokens: p.maxTokens,
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	start := time.Now()
	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.New(errors.CodeTimeout, "request timed out", err).
				WithAttribute("backend", p.name)
		}
		return nil, errors.New(errors.CodeBackendError, "request failed", err).
			WithAttribute("backend", p.name)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.New(errors.CodeBackendError, "failed to read response", err).
			WithAttribute("backend", p.name)
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp compatErrorResponse
		json.Unmarshal(respBody, &errResp)
		code := errors.CodeBackendError
		switch httpResp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			code = errors.CodeUnauthorized
		case http.StatusTooManyRequests:
			code = errors.CodeRateLimit
		}
		return nil, errors.New(code, "api error: "+errResp.Error.Message, nil).
			WithContext("status", httpResp.StatusCode).
			WithAttribute("backend", p.name)
	}

	var apiResp compatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, errors.New(errors.CodeBackendError, "failed to parse response", err).
			WithAttribute("backend", p.name)
	}

	if len(apiResp.Choices) == 0 {
		return nil, errors.New(errors.CodeEmptyReply, "response contained no choices", nil).
			WithAttribute("backend", p.name)
	}
	content := strings.TrimSpace(apiResp.Choices[0].Message.Content)
	if content == "" {
		return nil, errors.New(errors.CodeEmptyReply, "response contained empty content", nil).
			WithAttribute("backend", p.name)
	}

	return &Reply{
		Backend: p.name,
		Model:   p.model,
		Round:   round,
		Content: content,
		Latency: time.Since(start),
		Tokens:  apiResp.Usage.TotalTokens,
	}, nil
}

// Ensure OpenAICompatProvider implements Provider.
var _ Provider = (*OpenAICompatProvider)(nil)
