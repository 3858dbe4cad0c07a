package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"wtf2eat-be/internal/dto"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(ctx context.Context, mail mailer.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{mail.To, mail.Subject, mail.Text})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newAlertService(t *testing.T, m *recordingMailer, recipient string) IAlertService {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	svc := NewAlertService(
		NewPublisherService("alerts", pubSub),
		pubSub,
		"alerts",
		m,
		recipient,
		logger.NewNopLogger(),
	)
	require.NoError(t, svc.Consume(context.Background()))
	return svc
}

func TestAlertService_MailsQueuedAlert(t *testing.T) {
	m := &recordingMailer{}
	svc := newAlertService(t, m, "ops@example.com")

	err := svc.Enqueue(context.Background(), dto.RateLimitAlert{
		UserId:  "u1",
		Message: "Rate limits hit (From: Google Maps API)",
		Input:   "thai",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return m.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, "ops@example.com", m.sent[0].to)
	assert.Equal(t, alertSubject, m.sent[0].subject)
	assert.Contains(t, m.sent[0].body, "Google Maps API")
	assert.Contains(t, m.sent[0].body, "User: u1")
}

func TestAlertService_NoRecipientDropsAlert(t *testing.T) {
	m := &recordingMailer{}
	svc := newAlertService(t, m, "")

	require.NoError(t, svc.Enqueue(context.Background(), dto.RateLimitAlert{UserId: "u1"}))

	assert.Never(t, func() bool { return m.count() > 0 }, 200*time.Millisecond, 20*time.Millisecond)
}
