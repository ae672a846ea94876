package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"bistro-cms-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber handles listening for events from NATS.
type Subscriber struct {
	nc       *nats.Conn
	js       jetstream.JetStream
	contexts []jetstream.ConsumeContext
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Decode rebuilds an event from a bus message. The type comes from the
// subject and the time from the publisher's header.
func Decode(subject string, header nats.Header, data []byte) (events.BaseEvent, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return events.BaseEvent{}, err
	}

	occurredAt := time.Now()
	if header != nil {
		if t, err := time.Parse(time.RFC3339Nano, header.Get(occurredHeader)); err == nil {
			occurredAt = t
		}
	}

	return events.BaseEvent{
		Type:       strings.TrimPrefix(subject, subjectPrefix),
		Data:       payload,
		OccurredAt: occurredAt,
	}, nil
}

// Subscribe registers a handler on a durable consumer so events published
// while the worker is down are delivered when it comes back.
func (s *Subscriber) Subscribe(subject string, durableName string, handler EventHandler) error {
	ctx := context.Background()

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := Decode(msg.Subject(), msg.Headers(), msg.Data())
		if err != nil {
			// Malformed payloads will never decode; drop them.
			log.Printf("[ERROR] Dropping undecodable event on %s: %v", msg.Subject(), err)
			_ = msg.Term()
			return
		}

		if err := handler(context.Background(), event); err != nil {
			log.Printf("[ERROR] Handler failed for event %s: %v", msg.Subject(), err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.contexts = append(s.contexts, cc)

	log.Printf("[INFO] Subscribed to %s with durable %s", subject, durableName)
	return nil
}

func (s *Subscriber) Close() {
	for _, cc := range s.contexts {
		cc.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
