package service

import (
	"context"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/repository/scope"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/pkg/editor"
	"bistro-cms-be/pkg/events"
	pktNats "bistro-cms-be/pkg/nats"

	"github.com/google/uuid"
)

const activitySubject = "events.>"

// RealtimeDelivery pushes messages to the sockets on a topic. Implemented
// by the WebSocket hub.
type RealtimeDelivery interface {
	SendToTopic(topic string, v interface{})
}

// EventSubscriber is the durable side of the event bus.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

type INotificationService interface {
	// Notify shows n to every socket on the editor session and records it.
	Notify(ctx context.Context, sessionId uuid.UUID, n editor.Notification)
	Push(sessionId uuid.UUID, event dto.EditorEvent)
	ListActivity(ctx context.Context, eventType string, limit, offset int) (*dto.ListActivityResponse, error)
	Start()
}

type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber EventSubscriber
	publisher  events.Publisher
	delivery   RealtimeDelivery
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	sub EventSubscriber,
	pub events.Publisher,
	delivery RealtimeDelivery,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		subscriber: sub,
		publisher:  pub,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *NotificationService) Notify(ctx context.Context, sessionId uuid.UUID, n editor.Notification) {
	s.Push(sessionId, dto.EditorEvent{Type: "notification", Notification: &n})

	data := map[string]interface{}{
		"session_id": sessionId.String(),
		"level":      n.Level,
		"message":    n.Message,
	}
	if n.File != "" {
		data["file"] = n.File
	}
	if err := s.publisher.Publish(ctx, events.New(events.EditorNotification, data)); err != nil {
		s.logger.Warn("NotificationService", "Failed to publish editor notification", map[string]interface{}{"error": err.Error()})
	}
}

func (s *NotificationService) Push(sessionId uuid.UUID, event dto.EditorEvent) {
	s.delivery.SendToTopic(sessionId.String(), event)
}

// Start records every bus event in the activity log.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event subscriber, activity log disabled", nil)
		return
	}
	if err := s.subscriber.Subscribe(activitySubject, "activity-log-worker", s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Activity log listening", map[string]interface{}{"subject": activitySubject})
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	entry := entity.ActivityLog{
		Id:        uuid.New(),
		EventType: event.EventType(),
		Payload:   event.Payload(),
		CreatedAt: event.Timestamp(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ActivityLogRepository().Create(ctx, &entry); err != nil {
		s.logger.Error("NotificationService", "Failed to record activity", map[string]interface{}{"type": entry.EventType, "error": err})
		return err
	}
	return nil
}

func (s *NotificationService) ListActivity(ctx context.Context, eventType string, limit, offset int) (*dto.ListActivityResponse, error) {
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var filters []specification.Specification
	if eventType != "" {
		filters = append(filters, specification.ByEventType{EventType: eventType})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.ActivityLogRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	logs, err := uow.ActivityLogRepository().FindAll(ctx, append(filters,
		specification.Scoped(scope.OrderByCreatedDesc),
		specification.Pagination{Limit: limit, Offset: offset},
	)...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, dto.ActivityLogResponse{
			Id:        l.Id,
			EventType: l.EventType,
			Payload:   l.Payload,
			CreatedAt: l.CreatedAt,
		})
	}
	return &dto.ListActivityResponse{Items: items, Total: total}, nil
}
