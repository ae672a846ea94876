package memory

import (
	"context"
	"time"

	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// finalSaveTimeout bounds the save attempted when a dirty session is evicted.
const finalSaveTimeout = 15 * time.Second

// EditorSessionRepository keeps open editor sessions in process memory.
// Idle sessions expire after the TTL; every Get slides the expiry. Expired
// or deleted sessions have their autosave loop stopped, and a session that
// still holds unsaved changes gets one last save.
type EditorSessionRepository struct {
	cache  *cache.Cache
	ttl    time.Duration
	logger logger.ILogger
}

func NewEditorSessionRepository(ttl time.Duration, log logger.ILogger) *EditorSessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	cleanup := ttl / 6
	if cleanup < time.Second {
		cleanup = time.Second
	}

	r := &EditorSessionRepository{cache: cache.New(ttl, cleanup), ttl: ttl, logger: log}
	r.cache.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*store.EditorSession); ok {
			// Stop waits for a running tick; never block the janitor on it.
			go r.release(s)
		}
	})
	return r
}

func (r *EditorSessionRepository) release(s *store.EditorSession) {
	s.Stop()
	if !s.Session.Dirty() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), finalSaveTimeout)
	defer cancel()
	details := map[string]interface{}{
		"session_id": s.ID.String(),
		"post_id":    s.PostID.String(),
		"locale":     s.Locale,
	}
	if err := s.Session.Save(ctx); err != nil {
		details["error"] = err.Error()
		r.logger.Warn("EditorSessionRepository", "Evicted session lost unsaved changes", details)
		return
	}
	r.logger.Info("EditorSessionRepository", "Saved evicted session", details)
}

func (r *EditorSessionRepository) Save(session *store.EditorSession) {
	r.cache.Set(session.ID.String(), session, cache.DefaultExpiration)
}

func (r *EditorSessionRepository) Get(id uuid.UUID) (*store.EditorSession, bool) {
	x, found := r.cache.Get(id.String())
	if !found {
		return nil, false
	}
	s := x.(*store.EditorSession)
	r.cache.Set(id.String(), s, cache.DefaultExpiration)
	return s, true
}

func (r *EditorSessionRepository) Delete(id uuid.UUID) {
	r.cache.Delete(id.String())
}

// FindByPost returns the open session for a post translation, if any.
func (r *EditorSessionRepository) FindByPost(postID uuid.UUID, locale string) (*store.EditorSession, bool) {
	for _, item := range r.cache.Items() {
		s, ok := item.Object.(*store.EditorSession)
		if ok && s.PostID == postID && s.Locale == locale && !s.Stopped() {
			return s, true
		}
	}
	return nil, false
}

func (r *EditorSessionRepository) Count() int {
	return r.cache.ItemCount()
}
