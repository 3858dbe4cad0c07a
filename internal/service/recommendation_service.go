package service

import (
	"context"
	"fmt"
	"time"

	"wtf2eat-be/internal/dto"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/pkg/ai/pipeline"
	"wtf2eat-be/pkg/events"
	"wtf2eat-be/pkg/places"
)

// PipelineRunner is implemented by *pipeline.Controller.
type PipelineRunner interface {
	Stream(ctx context.Context, req pipeline.Request) <-chan pipeline.Event
}

type IRecommendationService interface {
	// Generate starts one run for the user. The channel carries status events,
	// then one terminal event, and is closed.
	Generate(ctx context.Context, userId string, req dto.GenerateRequest) <-chan pipeline.Event
}

type recommendationService struct {
	runner    PipelineRunner
	publisher EventPublisher
	alerts    IAlertService
	logger    logger.ILogger
}

func NewRecommendationService(
	runner PipelineRunner,
	publisher EventPublisher,
	alerts IAlertService,
	log logger.ILogger,
) IRecommendationService {
	return &recommendationService{
		runner:    runner,
		publisher: publisher,
		alerts:    alerts,
		logger:    log,
	}
}

func (s *recommendationService) Generate(ctx context.Context, userId string, req dto.GenerateRequest) <-chan pipeline.Event {
	var bias places.BiasPoint
	if req.Location != nil {
		bias = *req.Location
	}
	in := s.runner.Stream(ctx, pipeline.Request{
		Input:  req.Input,
		UserId: userId,
		Bias:   bias,
	})

	out := make(chan pipeline.Event, 1)
	go func() {
		defer close(out)
		for e := range in {
			if e.Terminal() {
				s.finish(context.WithoutCancel(ctx), userId, req.Input, e)
			}
			select {
			case out <- e:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

func (s *recommendationService) finish(ctx context.Context, userId, input string, e pipeline.Event) {
	var state pipeline.State
	if e.State != nil {
		state = *e.State
	}

	if s.publisher != nil {
		evt := events.New(events.TypeRecommendationCompleted, map[string]interface{}{
			"user_id": userId,
			"route":   string(state.Route),
			"status":  string(e.Status),
			"tokens":  state.TokenUsage,
			"results": len(state.Ranked),
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("RecommendationService", "Failed to publish completion event", map[string]interface{}{"error": err.Error()})
		}
	}

	if e.Status == pipeline.StatusRateLimited && s.alerts != nil {
		alert := dto.RateLimitAlert{
			UserId:     userId,
			Message:    fmt.Sprint(e.Output),
			Input:      input,
			OccurredAt: time.Now(),
		}
		if err := s.alerts.Enqueue(ctx, alert); err != nil {
			s.logger.Warn("RecommendationService", "Failed to queue rate limit alert", map[string]interface{}{"error": err.Error()})
		}
	}
}
