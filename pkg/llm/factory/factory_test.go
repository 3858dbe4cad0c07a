package factory

import (
	"testing"

	"wtf2eat-be/pkg/llm/ollama"
	"wtf2eat-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p, err := New(Settings{Provider: "Groq", Model: "m", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	p, err = New(Settings{Provider: "ollama", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &ollama.Provider{}, p)

	_, err = New(Settings{Provider: "bard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"groq", "huggingface", "ollama", "openai"}, Names())
}
