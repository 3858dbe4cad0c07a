package nats

import (
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream every domain event lands in.
	StreamName    = "EVENTS"
	subjectPrefix = "events."
)

// Subject maps an event type to its subject on the EVENTS stream.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}

// EventType is the inverse of Subject.
func EventType(subject string) string {
	return strings.TrimPrefix(subject, subjectPrefix)
}

func connect(url string) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.Name("wtf2eat-be"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return nc, js, nil
}
