package router

import (
	"context"
	"fmt"

	"wtf2eat-be/internal/constant"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/pkg/llm"
)

// Decision is the outcome of one routing call.
type Decision struct {
	Route      Route
	Answer     string // model text after the reasoning section
	Recognized bool
	Tokens     int
}

// Router classifies user input with a reasoning model.
type Router struct {
	llmProvider llm.LLMProvider
	model       string
	logger      logger.ILogger
}

func NewRouter(llmProvider llm.LLMProvider, model string, log logger.ILogger) *Router {
	return &Router{
		llmProvider: llmProvider,
		model:       model,
		logger:      log,
	}
}

func (r *Router) Decide(ctx context.Context, input string) (*Decision, error) {
	opts := []llm.Option{llm.WithTemperature(0)}
	if r.model != "" {
		opts = append(opts, llm.WithModel(r.model))
	}

	res, err := llm.Complete(ctx, r.llmProvider,
		constant.RouterSystemPrompt,
		fmt.Sprintf(constant.RouterUserPrompt, input),
		opts...,
	)
	if err != nil {
		return nil, err
	}

	answer := ExtractAnswer(res.Content)
	route, ok := DecodeRoute(answer)
	if !ok {
		r.logger.Warn("Router", "Unrecognized route answer, continuing without saving", map[string]interface{}{
			"answer": answer,
		})
	}

	return &Decision{
		Route:      route,
		Answer:     answer,
		Recognized: ok,
		Tokens:     res.TotalTokens,
	}, nil
}
