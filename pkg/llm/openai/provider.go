package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"wtf2eat-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultGroqBaseURL is the OpenAI compatible endpoint of Groq.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIProvider talks to any OpenAI compatible chat completion API (Groq by default).
type OpenAIProvider struct {
	client   *goopenai.Client
	model    string
	provider string
}

var _ llm.LLMProvider = &OpenAIProvider{}

// NewOpenAIProvider targets Groq unless baseURL says otherwise.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	if baseURL == "" {
		return NewProvider("Groq", apiKey, DefaultGroqBaseURL, model)
	}
	return NewProvider(baseURL, apiKey, baseURL, model)
}

// NewProvider names the backend explicitly; name shows up in rate limit messages.
func NewProvider(name, apiKey, baseURL, model string) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &OpenAIProvider{
		client:   goopenai.NewClientWithConfig(cfg),
		model:    model,
		provider: name,
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	opts := &llm.Options{Model: p.model}
	for _, o := range options {
		o(opts)
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	// go-openai drops a zero temperature from the payload (omitempty)
	temperature := float32(opts.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	req := goopenai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: temperature,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if isRateLimited(err) {
			return nil, &llm.RateLimitError{Provider: p.provider, Message: "Rate limits hit"}
		}
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty choices from %s", p.provider)
	}

	return &llm.Completion{
		Content:     resp.Choices[0].Message.Content,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func isRateLimited(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
