package places

import (
	"errors"
	"fmt"
)

// ErrNoResults is returned when a text search yields no place at all.
var ErrNoResults = errors.New("places: text search returned no results")

// RateLimitError is returned when the Places API signals quota exhaustion (HTTP 429).
type RateLimitError struct {
	Provider string
	Message  string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (From: %s)", e.Message, e.Provider)
}
