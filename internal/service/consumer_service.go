// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/pkg/lexical"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the TOC indexer. It recomputes one translation's table
// of contents per message and writes it with a targeted update.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	cache      RenderCache
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	cache RenderCache,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TocReindexMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("TocIndexer", "Failed to unmarshal message", map[string]interface{}{"error": err})
		msg.Ack() // a malformed message never gets better
		return
	}
	if !entity.IsSupportedLocale(payload.Locale) {
		cs.logger.Warn("TocIndexer", "Dropping reindex for unsupported locale", map[string]interface{}{"locale": payload.Locale})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	post, err := uow.BlogPostRepository().FindOne(ctx, specification.ByID{ID: payload.PostId})
	if err != nil {
		cs.logger.Error("TocIndexer", "Failed to load post", map[string]interface{}{"post_id": payload.PostId.String(), "error": err})
		msg.Nack()
		return
	}
	if post == nil {
		// Deleted since the save.
		msg.Ack()
		return
	}

	toc := []lexical.TocEntry{}
	if doc := lexical.ParseContent(string(post.Content[payload.Locale])); doc != nil {
		toc = lexical.ExtractHeadings(doc)
	}

	if err := uow.BlogPostRepository().UpdateToc(ctx, post.Id, payload.Locale, toc); err != nil {
		cs.logger.Error("TocIndexer", "Failed to store TOC", map[string]interface{}{"post_id": post.Id.String(), "error": err})
		msg.Nack()
		return
	}

	if err := cs.cache.Invalidate(ctx, post.Slug, entity.SupportedLocales...); err != nil {
		cs.logger.Warn("TocIndexer", "Render cache invalidation failed", map[string]interface{}{"slug": post.Slug, "error": err.Error()})
	}

	cs.logger.Info("TocIndexer", "TOC reindexed", map[string]interface{}{
		"post_id": post.Id.String(),
		"locale":  payload.Locale,
		"entries": len(toc),
	})
	msg.Ack()
}
