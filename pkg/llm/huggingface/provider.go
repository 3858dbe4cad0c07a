package huggingface

import (
	"context"

	"wtf2eat-be/pkg/llm"
	"wtf2eat-be/pkg/llm/openai"
)

// DefaultBaseURL is the OpenAI compatible inference router.
const DefaultBaseURL = "https://router.huggingface.co/v1"

// DefaultMaxTokens caps answers when the caller sets no limit. The router
// rejects some models without one.
const DefaultMaxTokens = 500

type provider struct {
	*openai.OpenAIProvider
}

// NewProvider returns a chat provider for Hugging Face inference endpoints.
func NewProvider(apiKey, baseURL, model string) llm.LLMProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &provider{openai.NewProvider("HuggingFace", apiKey, baseURL, model)}
}

func (p *provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	opts := append([]llm.Option{llm.WithMaxTokens(DefaultMaxTokens)}, options...)
	return p.OpenAIProvider.Chat(ctx, history, opts...)
}

func (p *provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
