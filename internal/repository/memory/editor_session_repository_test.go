package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/pkg/editor"
	"bistro-cms-be/pkg/lexical"
	"bistro-cms-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSaver struct{}

func (nopSaver) Save(ctx context.Context, doc *lexical.Document) error { return nil }

type countingSaver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *countingSaver) Save(ctx context.Context, doc *lexical.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *countingSaver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type warnRecorder struct {
	logger.ILogger
	mu    sync.Mutex
	warns []map[string]interface{}
}

func (l *warnRecorder) Warn(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, details)
}

func (l *warnRecorder) Info(module, message string, details map[string]interface{}) {}

func (l *warnRecorder) Warns() []map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]map[string]interface{}(nil), l.warns...)
}

func newEntry(postID uuid.UUID, locale string) *store.EditorSession {
	return store.NewEditorSession(uuid.New(), postID, locale, uuid.New(), editor.NewSession(nil, nopSaver{}, nil, 10))
}

func dirtyEntry(t *testing.T, saver editor.Saver) *store.EditorSession {
	t.Helper()
	session := editor.NewSession(nil, saver, nil, 10)
	cmd, err := editor.NewCommand(editor.CmdInsertText, editor.InsertTextPayload{Text: "Bún chả"})
	require.NoError(t, err)
	_, err = session.Dispatch(cmd)
	require.NoError(t, err)
	return store.NewEditorSession(uuid.New(), uuid.New(), "vi", uuid.New(), session)
}

func TestEditorSessionRepositorySaveGetDelete(t *testing.T) {
	repo := NewEditorSessionRepository(time.Hour, logger.NewNopLogger())
	postID := uuid.New()
	entry := newEntry(postID, "vi")

	repo.Save(entry)

	got, ok := repo.Get(entry.ID)
	require.True(t, ok)
	assert.Same(t, entry, got)

	found, ok := repo.FindByPost(postID, "vi")
	require.True(t, ok)
	assert.Same(t, entry, found)
	_, ok = repo.FindByPost(postID, "en")
	assert.False(t, ok)

	repo.Delete(entry.ID)
	_, ok = repo.Get(entry.ID)
	assert.False(t, ok)
	assert.Eventually(t, entry.Stopped, time.Second, 5*time.Millisecond)
}

func TestEditorSessionRepositoryExpiryStopsSession(t *testing.T) {
	repo := NewEditorSessionRepository(50*time.Millisecond, logger.NewNopLogger())
	entry := newEntry(uuid.New(), "vi")
	entry.StartAutosave(time.Hour, nil)
	repo.Save(entry)

	// The janitor runs every second at this TTL.
	assert.Eventually(t, entry.Stopped, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, 0, repo.Count())
}

func TestEditorSessionRepositoryEvictionSavesDirtySession(t *testing.T) {
	tests := []struct {
		name      string
		saveErr   error
		wantWarns int
	}{
		{name: "final save succeeds", wantWarns: 0},
		{name: "final save fails", saveErr: errors.New("db down"), wantWarns: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &warnRecorder{}
			saver := &countingSaver{err: tt.saveErr}
			repo := NewEditorSessionRepository(time.Hour, log)
			entry := dirtyEntry(t, saver)
			repo.Save(entry)

			repo.Delete(entry.ID)

			assert.Eventually(t, func() bool { return saver.Calls() == 1 }, time.Second, 5*time.Millisecond)
			if tt.wantWarns == 0 {
				assert.Eventually(t, func() bool { return !entry.Session.Dirty() }, time.Second, 5*time.Millisecond)
				assert.Empty(t, log.Warns())
				return
			}
			assert.Eventually(t, func() bool { return len(log.Warns()) == tt.wantWarns }, time.Second, 5*time.Millisecond)
			warn := log.Warns()[0]
			assert.Equal(t, entry.ID.String(), warn["session_id"])
			assert.Equal(t, entry.PostID.String(), warn["post_id"])
			assert.True(t, entry.Session.Dirty())
		})
	}
}

func TestEditorSessionRepositoryEvictionSkipsCleanSession(t *testing.T) {
	saver := &countingSaver{}
	repo := NewEditorSessionRepository(time.Hour, logger.NewNopLogger())
	entry := store.NewEditorSession(uuid.New(), uuid.New(), "en", uuid.New(), editor.NewSession(nil, saver, nil, 10))
	repo.Save(entry)

	repo.Delete(entry.ID)

	assert.Eventually(t, entry.Stopped, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return saver.Calls() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}
