package llm

import (
	"context"
	"fmt"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Completion is a model answer together with the tokens it cost.
type Completion struct {
	Content     string
	TotalTokens int
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (*Completion, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (*Completion, error)
}

// Complete runs a single system + user exchange.
func Complete(ctx context.Context, p LLMProvider, system, user string, options ...Option) (*Completion, error) {
	return p.Chat(ctx, []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}, options...)
}

// RateLimitError is returned when the backend answers with a quota or rate limit response.
type RateLimitError struct {
	Provider string
	Message  string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (From: %s)", e.Message, e.Provider)
}
