package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/pkg/editor"
	"bistro-cms-be/pkg/lexical"
	"bistro-cms-be/pkg/store"

	"github.com/google/uuid"
)

// EditorSessionStore holds open sessions. Implemented by
// memory.EditorSessionRepository.
type EditorSessionStore interface {
	Save(session *store.EditorSession)
	Get(id uuid.UUID) (*store.EditorSession, bool)
	Delete(id uuid.UUID)
	FindByPost(postID uuid.UUID, locale string) (*store.EditorSession, bool)
}

type IEditorService interface {
	Open(ctx context.Context, userId uuid.UUID, req *dto.OpenEditorSessionRequest) (*dto.EditorSessionResponse, error)
	Get(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error)
	Dispatch(ctx context.Context, sessionId uuid.UUID, cmd editor.Command) (*dto.EditorSessionResponse, error)
	Undo(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error)
	Redo(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error)
	UploadImages(ctx context.Context, sessionId uuid.UUID, files []editor.UploadFile) (*dto.UploadImagesResponse, error)
	Save(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error)
	Close(ctx context.Context, sessionId uuid.UUID) error
}

type EditorSettings struct {
	AutosaveInterval time.Duration
	HistoryLimit     int
}

type editorService struct {
	sessions     EditorSessionStore
	blogService  IBlogService
	uploader     editor.Uploader
	notification INotificationService
	settings     EditorSettings
	logger       logger.ILogger

	// serializes Open so one post translation gets one session
	openMu sync.Mutex
}

func NewEditorService(
	sessions EditorSessionStore,
	blogService IBlogService,
	uploader editor.Uploader,
	notification INotificationService,
	settings EditorSettings,
	logger logger.ILogger,
) IEditorService {
	return &editorService{
		sessions:     sessions,
		blogService:  blogService,
		uploader:     uploader,
		notification: notification,
		settings:     settings,
		logger:       logger,
	}
}

// postSaver writes the session document back to its post translation.
type postSaver struct {
	blog   IBlogService
	postId uuid.UUID
	locale string
}

func (p *postSaver) Save(ctx context.Context, doc *lexical.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = p.blog.SaveContent(ctx, &dto.SaveContentRequest{Id: p.postId, Locale: p.locale, Document: raw})
	return err
}

// sessionNotifier routes editor notifications to the session's socket topic.
type sessionNotifier struct {
	notification INotificationService
	sessionId    uuid.UUID
}

func (n *sessionNotifier) Notify(ctx context.Context, msg editor.Notification) {
	n.notification.Notify(ctx, n.sessionId, msg)
}

// Open returns the live session for the post translation, creating one from
// the stored content when none is open.
func (s *editorService) Open(ctx context.Context, userId uuid.UUID, req *dto.OpenEditorSessionRequest) (*dto.EditorSessionResponse, error) {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	if existing, ok := s.sessions.FindByPost(req.PostId, req.Locale); ok {
		return s.response(existing)
	}

	doc, err := s.blogService.LoadDocument(ctx, req.PostId, req.Locale)
	if err != nil {
		return nil, err
	}

	sessionId := uuid.New()
	session := editor.NewSession(
		doc,
		&postSaver{blog: s.blogService, postId: req.PostId, locale: req.Locale},
		&sessionNotifier{notification: s.notification, sessionId: sessionId},
		s.settings.HistoryLimit,
	)
	es := store.NewEditorSession(sessionId, req.PostId, req.Locale, userId, session)

	session.Subscribe(func(c editor.Change) {
		snap, err := session.Snapshot()
		if err != nil {
			s.logger.Error("EditorService", "Failed to snapshot session", map[string]interface{}{"session_id": sessionId.String(), "error": err})
			return
		}
		s.notification.Push(sessionId, dto.EditorEvent{
			Type:     "change",
			Reason:   c.Reason,
			Version:  c.Version,
			Snapshot: &snap,
		})
	})

	es.StartAutosave(s.settings.AutosaveInterval, func(err error) {
		s.logger.Warn("EditorService", "Autosave failed", map[string]interface{}{
			"session_id": sessionId.String(),
			"post_id":    req.PostId.String(),
			"error":      err.Error(),
		})
	})
	s.sessions.Save(es)

	s.logger.Info("EditorService", "Editor session opened", map[string]interface{}{
		"session_id": sessionId.String(),
		"post_id":    req.PostId.String(),
		"locale":     req.Locale,
		"user_id":    userId.String(),
	})
	return s.response(es)
}

func (s *editorService) find(sessionId uuid.UUID) (*store.EditorSession, error) {
	es, ok := s.sessions.Get(sessionId)
	if !ok || es.Stopped() {
		return nil, ErrSessionNotFound
	}
	return es, nil
}

func (s *editorService) response(es *store.EditorSession) (*dto.EditorSessionResponse, error) {
	snap, err := es.Session.Snapshot()
	if err != nil {
		return nil, err
	}
	return &dto.EditorSessionResponse{
		SessionId: es.ID,
		PostId:    es.PostID,
		Locale:    es.Locale,
		OpenedAt:  es.OpenedAt,
		Snapshot:  snap,
	}, nil
}

func (s *editorService) Get(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error) {
	es, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	return s.response(es)
}

func (s *editorService) Dispatch(ctx context.Context, sessionId uuid.UUID, cmd editor.Command) (*dto.EditorSessionResponse, error) {
	es, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	if _, err := es.Session.Dispatch(cmd); err != nil {
		return nil, editorError(err)
	}
	return s.response(es)
}

func (s *editorService) Undo(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error) {
	es, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	if _, err := es.Session.Undo(); err != nil {
		return nil, editorError(err)
	}
	return s.response(es)
}

func (s *editorService) Redo(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error) {
	es, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	if _, err := es.Session.Redo(); err != nil {
		return nil, editorError(err)
	}
	return s.response(es)
}

// UploadImages stores the files and inserts one image per stored file.
// Failures are reported to the session as notifications.
func (s *editorService) UploadImages(ctx context.Context, sessionId uuid.UUID, files []editor.UploadFile) (*dto.UploadImagesResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	es, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}

	inserted := es.Session.InsertUploadedImages(ctx, s.uploader, files)
	snap, err := es.Session.Snapshot()
	if err != nil {
		return nil, err
	}
	return &dto.UploadImagesResponse{
		Inserted: inserted,
		Failed:   len(files) - inserted,
		Snapshot: snap,
	}, nil
}

func (s *editorService) Save(ctx context.Context, sessionId uuid.UUID) (*dto.EditorSessionResponse, error) {
	es, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	if err := es.Session.Save(ctx); err != nil {
		return nil, editorError(err)
	}
	return s.response(es)
}

// Close stops autosave, saves pending changes and drops the session. The
// session is dropped even when the final save fails.
func (s *editorService) Close(ctx context.Context, sessionId uuid.UUID) error {
	es, err := s.find(sessionId)
	if err != nil {
		return err
	}

	es.Stop()
	var saveErr error
	if es.Session.Dirty() {
		saveErr = es.Session.Save(ctx)
	}
	s.sessions.Delete(sessionId)
	s.notification.Push(sessionId, dto.EditorEvent{Type: "closed"})

	s.logger.Info("EditorService", "Editor session closed", map[string]interface{}{
		"session_id": sessionId.String(),
		"saved":      saveErr == nil,
	})
	if saveErr != nil {
		return editorError(saveErr)
	}
	return nil
}

// editorError maps editor failures caused by the request to client errors.
func editorError(err error) error {
	switch {
	case errors.Is(err, editor.ErrUnknownCommand),
		errors.Is(err, editor.ErrInvalidPayload),
		errors.Is(err, editor.ErrInvalidSelection),
		errors.Is(err, editor.ErrNotImage),
		errors.Is(err, editor.ErrCommandFailed):
		return serverutils.BadRequest(err.Error())
	case errors.Is(err, editor.ErrNothingToUndo),
		errors.Is(err, editor.ErrNothingToRedo),
		errors.Is(err, editor.ErrSaveInFlight):
		return serverutils.Conflict(err.Error())
	}
	return err
}
