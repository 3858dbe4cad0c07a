package factory

import (
	"fmt"
	"sort"
	"strings"

	"wtf2eat-be/pkg/llm"
	"wtf2eat-be/pkg/llm/huggingface"
	"wtf2eat-be/pkg/llm/ollama"
	"wtf2eat-be/pkg/llm/openai"
)

// Settings selects and configures a chat backend.
type Settings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

type constructor func(Settings) llm.LLMProvider

var providers = map[string]constructor{
	"groq": func(s Settings) llm.LLMProvider {
		return openai.NewOpenAIProvider(s.APIKey, s.BaseURL, s.Model)
	},
	"openai": func(s Settings) llm.LLMProvider {
		base := s.BaseURL
		if base == "" {
			base = "https://api.openai.com/v1"
		}
		return openai.NewProvider("OpenAI", s.APIKey, base, s.Model)
	},
	"ollama": func(s Settings) llm.LLMProvider {
		return ollama.NewProvider(s.BaseURL, s.Model)
	},
	"huggingface": func(s Settings) llm.LLMProvider {
		return huggingface.NewProvider(s.APIKey, s.BaseURL, s.Model)
	},
}

// New builds the backend named by s.Provider (case insensitive).
func New(s Settings) (llm.LLMProvider, error) {
	build, ok := providers[strings.ToLower(s.Provider)]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider %q (want one of %s)", s.Provider, strings.Join(Names(), ", "))
	}
	return build(s), nil
}

// Names lists the supported provider keys.
func Names() []string {
	names := make([]string, 0, len(providers))
	for n := range providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
