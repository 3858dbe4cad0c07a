package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wtf2eat-be/internal/dto"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
)

const alertSubject = "[wtf2eat] Provider rate limit reached"

// IAlertService queues rate limit alerts and mails them to the operator.
type IAlertService interface {
	Enqueue(ctx context.Context, alert dto.RateLimitAlert) error
	Consume(ctx context.Context) error
}

type alertService struct {
	publisher  IPublisherService
	subscriber message.Subscriber
	topicName  string
	mailer     mailer.IEmailService
	recipient  string
	logger     logger.ILogger
}

func NewAlertService(
	publisher IPublisherService,
	subscriber message.Subscriber,
	topicName string,
	emailService mailer.IEmailService,
	recipient string,
	log logger.ILogger,
) IAlertService {
	return &alertService{
		publisher:  publisher,
		subscriber: subscriber,
		topicName:  topicName,
		mailer:     emailService,
		recipient:  recipient,
		logger:     log,
	}
}

func (s *alertService) Enqueue(ctx context.Context, alert dto.RateLimitAlert) error {
	if alert.OccurredAt.IsZero() {
		alert.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, payload)
}

func (s *alertService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()
	return nil
}

// Alerts are best effort: a failed send is logged and acked so a broken SMTP
// relay cannot spin the queue.
func (s *alertService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var alert dto.RateLimitAlert
	if err := json.Unmarshal(msg.Payload, &alert); err != nil {
		s.logger.Error("AlertService", "Malformed alert payload", map[string]interface{}{"error": err.Error()})
		return
	}

	if s.recipient == "" {
		s.logger.Warn("AlertService", "Rate limit alert dropped, ALERT_EMAIL not set", map[string]interface{}{
			"user_id": alert.UserId,
			"message": alert.Message,
		})
		return
	}

	mail := mailer.Mail{To: s.recipient, Subject: alertSubject, Text: alertBody(alert)}
	if err := s.mailer.Send(msg.Context(), mail); err != nil {
		s.logger.Error("AlertService", "Failed to send rate limit alert", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("AlertService", "Rate limit alert sent", map[string]interface{}{"user_id": alert.UserId})
}

func alertBody(a dto.RateLimitAlert) string {
	return fmt.Sprintf(`A recommendation run stopped on a provider rate limit.

Provider message: %s
User: %s
Input: %s
Occurred at: %s
`, a.Message, a.UserId, a.Input, a.OccurredAt.Format(time.RFC3339))
}
