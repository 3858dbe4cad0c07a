package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"wtf2eat-be/pkg/embedding"
	"wtf2eat-be/pkg/events"
	pktNats "wtf2eat-be/pkg/nats"
)

var vocabulary = []string{"thai", "spicy", "burger", "pizza", "quiet", "sushi"}

type wordEmbedder struct {
	fail bool
}

func (w *wordEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if w.fail {
		return nil, errors.New("embedding backend down")
	}
	lower := strings.ToLower(text)
	vec := make([]float32, len(vocabulary))
	for i, word := range vocabulary {
		if strings.Contains(lower, word) {
			vec[i] = 1
		}
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: vec}}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type capturingSubscriber struct {
	subject string
	durable string
	handler pktNats.EventHandler
}

func (s *capturingSubscriber) Subscribe(subject, durableName string, handler pktNats.EventHandler) error {
	s.subject, s.durable, s.handler = subject, durableName, handler
	return nil
}

type notification struct {
	userId string
	kind   string
}

type recordingDelivery struct {
	sent []notification
}

func (d *recordingDelivery) Notify(userId, kind string, data interface{}) {
	d.sent = append(d.sent, notification{userId: userId, kind: kind})
}
