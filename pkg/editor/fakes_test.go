package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"bistro-cms-be/pkg/lexical"
)

func mustCommand(t *testing.T, name string, payload interface{}) Command {
	t.Helper()
	cmd, err := NewCommand(name, payload)
	require.NoError(t, err)
	return cmd
}

func docOf(blocks ...*lexical.Node) *lexical.Document {
	return &lexical.Document{Root: &lexical.Node{Type: lexical.TypeRoot, Children: blocks}}
}

func stateWith(doc *lexical.Document, sel Selection) State {
	s := NewState(doc)
	s.selection = sel
	return s
}

func rangeSel(aPath []int, aOff int, fPath []int, fOff int) Selection {
	return Selection{Anchor: Point{Path: aPath, Offset: aOff}, Focus: Point{Path: fPath, Offset: fOff}}
}

type fakeSaver struct {
	mu     sync.Mutex
	calls  int
	err    error
	saved  []*lexical.Document
	during func()
}

func (f *fakeSaver) Save(ctx context.Context, doc *lexical.Document) error {
	if f.during != nil {
		f.during()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, doc)
	return nil
}

func (f *fakeSaver) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, n)
}

func (f *fakeNotifier) All() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification(nil), f.notes...)
}

var errUploadFailed = errors.New("upload failed")

type fakeUploader struct {
	batchErr    error
	batchResult []UploadResult
	failing     map[string]bool
	batchCalls  int
	singleCalls []string
}

func (f *fakeUploader) Upload(ctx context.Context, file UploadFile) (UploadResult, error) {
	f.singleCalls = append(f.singleCalls, file.Filename)
	if f.failing[file.Filename] {
		return UploadResult{}, errUploadFailed
	}
	return UploadResult{SecureURL: "https://cdn.example.com/" + file.Filename}, nil
}

func (f *fakeUploader) UploadBatch(ctx context.Context, files []UploadFile) ([]UploadResult, error) {
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	if f.batchResult != nil {
		return f.batchResult, nil
	}
	out := make([]UploadResult, len(files))
	for i, file := range files {
		out[i] = UploadResult{URL: "/uploads/" + file.Filename}
	}
	return out, nil
}
