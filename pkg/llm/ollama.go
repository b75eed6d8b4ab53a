package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jllopis/council/pkg/errors"
)

// OllamaProvider implements the Provider interface for a local Ollama server.
type OllamaProvider struct {
	name    string
	baseURL string
	model   string
	client  *http.Client
}

// OllamaOption configures an OllamaProvider.
type OllamaOption func(*OllamaProvider)

// WithOllamaHTTPClient replaces the HTTP client, mainly for tests.
func WithOllamaHTTPClient(c *http.Client) OllamaOption {
	return func(p *OllamaProvider) { p.client = c }
}

// NewOllama creates a new OllamaProvider. Deadlines come from the caller's
// context, so the HTTP client carries no fixed timeout of its own.
func NewOllama(name, baseURL, model string, opts ...OllamaOption) *OllamaProvider {
	if name == "" {
		name = "ollama"
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	p := &OllamaProvider{
		name:    name,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaResponse struct {
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	TotalDuration   int64         `json:"total_duration"` // nanos
	EvalCount       int           `json:"eval_count"`
	PromptEvalCount int           `json:"prompt_eval_count"`
}

func (p *OllamaProvider) Name() string {
	return p.name
}

// Generate sends the prompt to Ollama and maps the response to a Reply.
func (p *OllamaProvider) Generate(ctx context.Context, prompt string, round int) (*Reply, error) {
	oReq := ollamaRequest{
		Model:    p.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}

	body, err := json.Marshal(oReq)
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to marshal ollama request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(errors.CodeInternal, "failed to create http request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.New(errors.CodeTimeout, "ollama request timed out", err).
				WithAttribute("backend", p.name)
		}
		return nil, errors.New(errors.CodeBackendError, "ollama api call failed", err).
			WithAttribute("backend", p.name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeBackendError, "ollama api returned non-200 status", nil).
			WithContext("status", resp.StatusCode).
			WithAttribute("backend", p.name)
	}

	var oResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return nil, errors.New(errors.CodeBackendError, "failed to decode ollama response", err).
			WithAttribute("backend", p.name)
	}

	content := strings.TrimSpace(oResp.Message.Content)
	if content == "" {
		return nil, errors.New(errors.CodeEmptyReply, "ollama returned empty content", nil).
			WithAttribute("backend", p.name)
	}

	return &Reply{
		Backend: p.name,
		Model:   p.model,
		Round:   round,
		Content: content,
		Latency: time.Since(start),
		Tokens:  oResp.PromptEvalCount + oResp.EvalCount,
	}, nil
}

var _ Provider = (*OllamaProvider)(nil)
