package store

import (
	"context"
	"sync"
	"time"

	"bistro-cms-be/pkg/editor"

	"github.com/google/uuid"
)

// EditorSession is one open editor bound to a post translation. It owns the
// autosave loop for its session.
type EditorSession struct {
	ID       uuid.UUID
	PostID   uuid.UUID
	Locale   string
	UserID   uuid.UUID
	OpenedAt time.Time
	Session  *editor.Session

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

func NewEditorSession(id, postID uuid.UUID, locale string, userID uuid.UUID, session *editor.Session) *EditorSession {
	return &EditorSession{
		ID:       id,
		PostID:   postID,
		Locale:   locale,
		UserID:   userID,
		OpenedAt: time.Now(),
		Session:  session,
	}
}

// StartAutosave launches the autosave loop once. Later calls are no-ops.
func (s *EditorSession) StartAutosave(interval time.Duration, onError func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil || s.stopped {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	autosaver := editor.NewAutosaver(s.Session, interval, onError)
	go func(done chan struct{}) {
		defer close(done)
		autosaver.Run(ctx)
	}(s.done)
}

// Stop ends the autosave loop and waits for an in-progress tick to finish.
// It is safe to call more than once.
func (s *EditorSession) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *EditorSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
