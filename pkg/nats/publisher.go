package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"wtf2eat-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// OccurredAtHeader carries the producer side timestamp in RFC 3339.
const OccurredAtHeader = "Occurred-At"

// dedupeWindow is how long JetStream remembers message ids.
const dedupeWindow = 2 * time.Minute

// Publisher sends domain events to the EVENTS stream.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewPublisher(url string) (*Publisher, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, streamConfig()); err != nil {
		log.Printf("[WARN] Failed to ensure stream %s: %v", StreamName, err)
	}
	return &Publisher{nc: nc, js: js}, nil
}

// Several durable consumers read the stream, so retention is limits based.
func streamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{Subject(">")},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     7 * 24 * time.Hour,
		Duplicates: dedupeWindow,
	}
}

// Publish writes the event payload to "events.<type>".
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	msg, opts, err := encode(event)
	if err != nil {
		return err
	}
	if _, err := p.js.PublishMsg(ctx, msg, opts...); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	return nil
}

func encode(event events.Event) (*nats.Msg, []jetstream.PublishOpt, error) {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return nil, nil, fmt.Errorf("marshal %s payload: %w", event.EventType(), err)
	}

	msg := nats.NewMsg(Subject(event.EventType()))
	msg.Data = data
	if ts := event.Timestamp(); !ts.IsZero() {
		msg.Header.Set(OccurredAtHeader, ts.Format(time.RFC3339Nano))
	}

	var opts []jetstream.PublishOpt
	if id, ok := event.(events.Identified); ok && id.EventID() != "" {
		opts = append(opts, jetstream.WithMsgID(id.EventID()))
	}
	return msg, opts, nil
}

// Ping reports whether the connection is currently up.
func (p *Publisher) Ping(ctx context.Context) error {
	if !p.nc.IsConnected() {
		return fmt.Errorf("nats connection %s", p.nc.Status())
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
