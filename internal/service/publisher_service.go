package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisherService puts raw messages on the in-process queue.
type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}
