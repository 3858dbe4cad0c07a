package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "nomic-embed-text"
)

// OllamaProvider embeds with a locally served model through /api/embed.
type OllamaProvider struct {
	BaseURL string
	Model   string
	client  *http.Client
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		client:  &http.Client{Timeout: 2 * DefaultTimeout},
	}
}

// Generate prefixes the text the way nomic models expect and returns a unit vector.
func (p *OllamaProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	var res ollamaEmbedResponse
	body := ollamaEmbedRequest{Model: p.Model, Input: []string{ollamaPrefix(taskType) + text}}
	if err := PostJSON(ctx, p.client, "Ollama", p.BaseURL+"/api/embed", nil, body, &res); err != nil {
		return nil, err
	}
	if len(res.Embeddings) == 0 || len(res.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama returned no embedding for model %s", p.Model)
	}
	return newResponse(Normalize(res.Embeddings[0])), nil
}

func ollamaPrefix(taskType string) string {
	switch taskType {
	case TaskRetrievalQuery:
		return "search_query: "
	case TaskRetrievalDocument:
		return "search_document: "
	}
	return ""
}
