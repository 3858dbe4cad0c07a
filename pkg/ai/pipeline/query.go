package pipeline

import (
	"context"
	"strings"

	"wtf2eat-be/internal/constant"
	"wtf2eat-be/pkg/ai/router"
	"wtf2eat-be/pkg/llm"
)

// LLMQueryFormulator turns free text into a short restaurant-type query.
type LLMQueryFormulator struct {
	llmProvider llm.LLMProvider
	model       string
}

func NewLLMQueryFormulator(llmProvider llm.LLMProvider, model string) *LLMQueryFormulator {
	return &LLMQueryFormulator{llmProvider: llmProvider, model: model}
}

func (f *LLMQueryFormulator) Formulate(ctx context.Context, input string) (string, int, error) {
	opts := []llm.Option{llm.WithTemperature(0)}
	if f.model != "" {
		opts = append(opts, llm.WithModel(f.model))
	}

	res, err := llm.Complete(ctx, f.llmProvider, constant.QueryFormulatorSystemPrompt, input, opts...)
	if err != nil {
		return "", 0, err
	}
	return cleanQuery(res.Content), res.TotalTokens, nil
}

func cleanQuery(s string) string {
	s = router.ExtractAnswer(s)
	return strings.Trim(strings.TrimSpace(s), "\"'`")
}
