package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single embedding call.
const DefaultTimeout = 30 * time.Second

// RateLimitError is returned when an embedding backend answers 429.
type RateLimitError struct {
	Provider string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Rate limits hit (From: %s)", e.Provider)
}

// StatusError carries a non 2xx answer from an embedding backend.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s embedding error: status %d, body %s", e.Provider, e.Code, e.Body)
}

// PostJSON sends in as a JSON body and decodes the answer into out.
func PostJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Provider: provider}
	case res.StatusCode < 200 || res.StatusCode > 299:
		return &StatusError{Provider: provider, Code: res.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}

func newResponse(values []float32) *EmbeddingResponse {
	return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: values}}
}
