package jina

import (
	"context"
	"fmt"
	"net/http"

	"wtf2eat-be/pkg/embedding"
)

const (
	DefaultBaseURL = "https://api.jina.ai/v1/embeddings"
	DefaultModel   = "jina-embeddings-v3"
)

// Provider calls the Jina AI embeddings API. v3 models are truncated to
// embedding.Dimensions so vectors stay comparable with the other providers.
type Provider struct {
	apiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

type request struct {
	Model      string   `json:"model"`
	Task       string   `json:"task,omitempty"`
	Dimensions int      `json:"dimensions,omitempty"`
	Normalized bool     `json:"normalized"`
	Input      []string `json:"input"`
}

type response struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func NewProvider(apiKey string) *Provider {
	return &Provider{
		apiKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		client:  &http.Client{Timeout: embedding.DefaultTimeout},
	}
}

func (p *Provider) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	body := request{
		Model:      p.Model,
		Task:       task(taskType),
		Dimensions: embedding.Dimensions,
		Normalized: true,
		Input:      []string{text},
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var res response
	if err := embedding.PostJSON(ctx, p.client, "Jina", p.BaseURL, headers, body, &res); err != nil {
		return nil, err
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("jina returned no embedding")
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: res.Data[0].Embedding},
	}, nil
}

func task(taskType string) string {
	switch taskType {
	case embedding.TaskRetrievalQuery:
		return "retrieval.query"
	case embedding.TaskRetrievalDocument:
		return "retrieval.passage"
	}
	return ""
}
