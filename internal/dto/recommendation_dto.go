package dto

import (
	"time"

	"wtf2eat-be/pkg/places"

	"github.com/google/uuid"
)

// GenerateRequest starts a recommendation run. Location is a pointer so a
// missing object is rejected rather than read as (0, 0).
type GenerateRequest struct {
	Input    string            `json:"input" validate:"required,max=2000"`
	Location *places.BiasPoint `json:"location" validate:"required"`
}

// WsGenerateMessage is what a websocket client sends to start a recommendation.
type WsGenerateMessage struct {
	Type string `json:"type"` // "generate"
	GenerateRequest
}

type PreferenceResponse struct {
	Id        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ScoredPreferenceResponse struct {
	PreferenceResponse
	Score float64 `json:"score"`
}

// RateLimitAlert is queued when a run halts on a provider rate limit.
type RateLimitAlert struct {
	UserId     string    `json:"user_id"`
	Message    string    `json:"message"`
	Input      string    `json:"input"`
	OccurredAt time.Time `json:"occurred_at"`
}
