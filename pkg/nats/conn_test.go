package nats

import (
	"testing"
	"time"

	"wtf2eat-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectRoundTrip(t *testing.T) {
	subject := Subject(events.TypeRecommendationCompleted)

	assert.Equal(t, "events.recommendation.completed", subject)
	assert.Equal(t, events.TypeRecommendationCompleted, EventType(subject))
}

func TestEventType_ForeignSubject(t *testing.T) {
	assert.Equal(t, "audit.login", EventType("audit.login"))
}

func TestEncode(t *testing.T) {
	evt := events.New(events.TypePreferenceSaved, map[string]interface{}{"user_id": "u1"})

	msg, opts, err := encode(evt)
	require.NoError(t, err)

	assert.Equal(t, "events.preference.saved", msg.Subject)
	assert.JSONEq(t, `{"user_id":"u1"}`, string(msg.Data))
	assert.Equal(t, evt.OccurredAt.Format(time.RFC3339Nano), msg.Header.Get(OccurredAtHeader))
	assert.Len(t, opts, 1)
}

func TestEncode_NoIdNoOptions(t *testing.T) {
	_, opts, err := encode(events.BaseEvent{Type: "x", Data: map[string]interface{}{}})
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestStreamConfig(t *testing.T) {
	cfg := streamConfig()
	assert.Equal(t, StreamName, cfg.Name)
	assert.Equal(t, []string{"events.>"}, cfg.Subjects)
	assert.Equal(t, dedupeWindow, cfg.Duplicates)
}
