package embedding

import (
	"context"
	"fmt"
	"net/http"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "text-embedding-004"
)

// GeminiProvider calls the embedContent endpoint of the Generative Language API.
type GeminiProvider struct {
	ApiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

type geminiEmbedRequest struct {
	EmbeddingRequest
	OutputDimensionality int `json:"outputDimensionality,omitempty"`
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{
		ApiKey:  apiKey,
		BaseURL: DefaultGeminiBaseURL,
		Model:   model,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	body := geminiEmbedRequest{
		EmbeddingRequest: EmbeddingRequest{
			Model:    "models/" + p.Model,
			Content:  EmbeddingRequestContent{Parts: []EmbeddingRequestContentPart{{Text: text}}},
			TaskType: taskType,
		},
		OutputDimensionality: Dimensions,
	}

	var res EmbeddingResponse
	url := fmt.Sprintf("%s/models/%s:embedContent", p.BaseURL, p.Model)
	headers := map[string]string{"x-goog-api-key": p.ApiKey}
	if err := PostJSON(ctx, p.client, "Gemini", url, headers, body, &res); err != nil {
		return nil, err
	}
	if len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini returned an empty embedding")
	}
	return &res, nil
}
