package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wtf2eat-be/pkg/llm"
)

const DefaultBaseURL = "http://localhost:11434"

// Provider runs chat completions against a local Ollama server.
type Provider struct {
	baseURL   string
	model     string
	keepAlive string
	client    *http.Client
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(baseURL, model string) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		keepAlive: "10m",
		client:    &http.Client{Timeout: 2 * time.Minute},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []llm.Message `json:"messages"`
	Stream    bool          `json:"stream"`
	KeepAlive string        `json:"keep_alive,omitempty"`
	Options   modelOptions  `json:"options"`
}

type modelOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Message         llm.Message `json:"message"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
	Error           string      `json:"error,omitempty"`
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	opts := &llm.Options{Model: p.model}
	for _, o := range options {
		o(opts)
	}

	body, err := json.Marshal(chatRequest{
		Model:     opts.Model,
		Messages:  history,
		KeepAlive: p.keepAlive,
		Options:   modelOptions{Temperature: opts.Temperature, NumPredict: opts.MaxTokens},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusTooManyRequests {
		return nil, &llm.RateLimitError{Provider: "Ollama", Message: "Rate limits hit"}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("ollama chat: status %d: %s", res.StatusCode, raw)
	}
	if out.Error != "" || res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama chat: status %d: %s", res.StatusCode, out.Error)
	}

	return &llm.Completion{
		Content:     out.Message.Content,
		TotalTokens: out.PromptEvalCount + out.EvalCount,
	}, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
