package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bistro-cms-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName     = "EVENTS"
	subjectPrefix  = "events."
	occurredHeader = "Occurred-At"
)

// Publisher handles sending events to the NATS bus.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func connect(url string) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
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

// NewPublisher connects and makes sure the EVENTS stream exists.
func NewPublisher(url string) (*Publisher, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{subjectPrefix + ">"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		// NATS may still be starting; publishing retries on its own.
		log.Printf("[WARN] Failed to ensure stream '%s': %v", StreamName, err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Subject is the NATS subject an event type is published on.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}

// Publish sends an event to NATS.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := nats.NewMsg(Subject(event.EventType()))
	msg.Data = data
	msg.Header.Set(occurredHeader, event.Timestamp().UTC().Format(time.RFC3339Nano))

	if _, err := p.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", msg.Subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
