package service

import (
	"context"
	"fmt"

	"wtf2eat-be/internal/dto"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/repository/contract"
	"wtf2eat-be/pkg/events"
	pktNats "wtf2eat-be/pkg/nats"
)

const activityDurable = "wtf2eat-activity"

// EventSubscriber is satisfied by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(subject, durableName string, handler pktNats.EventHandler) error
}

// NotificationDelivery pushes a message to every open connection of a user.
// Implemented by the websocket hub.
type NotificationDelivery interface {
	Notify(userId, kind string, data interface{})
}

// IActivityService turns bus events into usage totals and live notifications.
type IActivityService interface {
	Start() error
	Usage(ctx context.Context, userId string) (*dto.UsageResponse, error)
}

type activityService struct {
	subscriber EventSubscriber
	usage      contract.UsageRepository
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewActivityService(
	subscriber EventSubscriber,
	usage contract.UsageRepository,
	delivery NotificationDelivery,
	log logger.ILogger,
) IActivityService {
	return &activityService{
		subscriber: subscriber,
		usage:      usage,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *activityService) Start() error {
	if s.subscriber == nil {
		return fmt.Errorf("no event subscriber configured")
	}
	if err := s.subscriber.Subscribe(pktNats.Subject(">"), activityDurable, s.handleEvent); err != nil {
		return err
	}
	s.logger.Info("ActivityService", "Listening to events.>", nil)
	return nil
}

func (s *activityService) Usage(ctx context.Context, userId string) (*dto.UsageResponse, error) {
	u, err := s.usage.Get(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.UsageResponse{Runs: u.Runs, Tokens: u.Tokens}, nil
}

func (s *activityService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	userId := events.String(event, "user_id")
	if userId == "" {
		s.logger.Warn("ActivityService", "Event without user_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	switch event.EventType() {
	case events.TypeRecommendationCompleted:
		tokens := toInt64(payload["tokens"])
		if err := s.usage.Record(ctx, userId, tokens); err != nil {
			return fmt.Errorf("record usage: %w", err)
		}
		s.logger.Debug("ActivityService", "Usage recorded", map[string]interface{}{
			"user_id": userId,
			"tokens":  tokens,
		})

	case events.TypePreferenceSaved:
		if s.delivery != nil {
			s.delivery.Notify(userId, event.EventType(), payload)
		}
	}
	return nil
}

// JSON numbers decode as float64; events published in process keep their Go type.
func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	}
	return 0
}
