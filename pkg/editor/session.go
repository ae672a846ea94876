package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bistro-cms-be/pkg/lexical"
)

var (
	ErrSaveInFlight  = errors.New("a save is already in progress")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Notification levels
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Notification is a non-blocking message for the author.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
}

// Saver persists a document.
type Saver interface {
	Save(ctx context.Context, doc *lexical.Document) error
}

// Notifier shows notifications to the author.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Change is passed to listeners after every committed step.
type Change struct {
	Reason  string
	Version uint64
	State   State
}

// Listener receives changes. It runs outside the session lock and may call
// back into the session.
type Listener func(Change)

// Snapshot is the serializable view of a session.
type Snapshot struct {
	Version       uint64             `json:"version"`
	Document      json.RawMessage    `json:"document"`
	Selection     Selection          `json:"selection"`
	PendingFormat int                `json:"pendingFormat"`
	TOC           []lexical.TocEntry `json:"toc"`
	Dirty         bool               `json:"dirty"`
	Saving        bool               `json:"saving"`
	CanUndo       bool               `json:"canUndo"`
	CanRedo       bool               `json:"canRedo"`
}

// Session owns one document being edited. All mutations go through Dispatch,
// Undo and Redo; each is one atomic step.
type Session struct {
	mu        sync.Mutex
	state     State
	history   *History
	version   uint64
	dirty     bool
	saving    bool
	saver     Saver
	notifier  Notifier
	listeners map[int]Listener
	nextID    int
}

func NewSession(doc *lexical.Document, saver Saver, notifier Notifier, historyLimit int) *Session {
	return &Session{
		state:     NewState(doc),
		history:   NewHistory(historyLimit),
		saver:     saver,
		notifier:  notifier,
		listeners: make(map[int]Listener),
	}
}

// State returns the current snapshot state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	st := s.state
	snap := Snapshot{
		Version:       s.version,
		Selection:     st.Selection(),
		PendingFormat: st.pendingFormat,
		Dirty:         s.dirty,
		Saving:        s.saving,
		CanUndo:       s.history.CanUndo(),
		CanRedo:       s.history.CanRedo(),
	}
	s.mu.Unlock()

	doc, err := st.MarshalDocument()
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode document: %w", err)
	}
	snap.Document = doc
	snap.TOC = st.TOC()
	return snap, nil
}

// Subscribe registers fn for every committed change and returns a function
// that removes it.
func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Dispatch applies cmd. Steps that change the document are recorded for undo
// and mark the session dirty.
func (s *Session) Dispatch(cmd Command) (State, error) {
	next, change, listeners, err := s.commit(cmd)
	if err != nil {
		return next, err
	}
	emit(listeners, change)
	return next, nil
}

func (s *Session) commit(cmd Command) (State, Change, []Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed, err := Apply(s.state, cmd)
	if err != nil {
		return s.state, Change{}, nil, err
	}
	if changed {
		s.history.Push(s.state)
		s.version++
		s.dirty = true
	}
	s.state = next
	return next, Change{Reason: cmd.Name, Version: s.version, State: next}, s.snapshotListeners(), nil
}

func (s *Session) Undo() (State, error) {
	return s.travel("undo", s.history.Undo, ErrNothingToUndo)
}

func (s *Session) Redo() (State, error) {
	return s.travel("redo", s.history.Redo, ErrNothingToRedo)
}

func (s *Session) travel(reason string, step func(State) (State, bool), empty error) (State, error) {
	next, change, listeners, err := s.move(reason, step, empty)
	if err != nil {
		return next, err
	}
	emit(listeners, change)
	return next, nil
}

func (s *Session) move(reason string, step func(State) (State, bool), empty error) (State, Change, []Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := step(s.state)
	if !ok {
		return s.state, Change{}, nil, empty
	}
	s.state = next
	s.version++
	s.dirty = true
	return next, Change{Reason: reason, Version: s.version, State: next}, s.snapshotListeners(), nil
}

func (s *Session) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func emit(listeners []Listener, c Change) {
	for _, fn := range listeners {
		fn(c)
	}
}

// Save persists the current document. Only one save runs at a time; a second
// caller gets ErrSaveInFlight. A failed save notifies the author and leaves
// the session dirty. The session is marked clean only if nothing changed
// while the save ran.
func (s *Session) Save(ctx context.Context) error {
	_, err := s.save(ctx, false)
	return err
}

// AutosaveTick saves when the session is dirty and no save is running. It
// reports whether a save was attempted.
func (s *Session) AutosaveTick(ctx context.Context) (bool, error) {
	return s.save(ctx, true)
}

func (s *Session) save(ctx context.Context, onlyDirty bool) (bool, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		if onlyDirty {
			return false, nil
		}
		return false, ErrSaveInFlight
	}
	if onlyDirty && !s.dirty {
		s.mu.Unlock()
		return false, nil
	}
	s.saving = true
	doc := s.state.doc
	version := s.version
	s.mu.Unlock()

	err := s.saver.Save(ctx, doc)

	s.mu.Lock()
	s.saving = false
	if err == nil && s.version == version {
		s.dirty = false
	}
	s.mu.Unlock()

	if err != nil {
		s.notify(ctx, Notification{Level: LevelError, Message: "Could not save the document. Changes are kept and will be retried."})
		return true, fmt.Errorf("save document: %w", err)
	}
	return true, nil
}

func (s *Session) notify(ctx context.Context, n Notification) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, n)
	}
}
