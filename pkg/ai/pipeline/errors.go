package pipeline

import (
	"context"
	"errors"
	"fmt"

	"wtf2eat-be/internal/constant"
	"wtf2eat-be/pkg/embedding"
	"wtf2eat-be/pkg/llm"
	"wtf2eat-be/pkg/places"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindRateLimit
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRateLimit:
		return "rate_limit"
	case KindCanceled:
		return "canceled"
	}
	return "internal"
}

// Error is a failed run. Message is safe to show to the caller.
type Error struct {
	Kind    ErrorKind
	Stage   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s stage failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func classify(stage string, err error) *Error {
	var mapsLimit *places.RateLimitError
	var llmLimit *llm.RateLimitError
	var embedLimit *embedding.RateLimitError

	switch {
	case errors.As(err, &mapsLimit):
		return &Error{Kind: KindRateLimit, Stage: stage, Message: mapsLimit.Error(), Err: err}
	case errors.As(err, &llmLimit):
		return &Error{Kind: KindRateLimit, Stage: stage, Message: llmLimit.Error(), Err: err}
	case errors.As(err, &embedLimit):
		return &Error{Kind: KindRateLimit, Stage: stage, Message: embedLimit.Error(), Err: err}
	case errors.Is(err, places.ErrNoResults):
		return &Error{Kind: KindValidation, Stage: stage, Message: constant.NoRestaurantsMessage, Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindCanceled, Stage: stage, Message: err.Error(), Err: err}
	}
	return &Error{Kind: KindInternal, Stage: stage, Message: constant.GenericFailureMessage, Err: err}
}

func (e *Error) event() Event {
	if e.Kind == KindRateLimit {
		return Event{Status: StatusRateLimited, Output: e.Message}
	}
	return Event{Status: StatusError, Output: e.Message}
}
