package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro-cms-be/pkg/lexical"
)

func files(names ...string) []UploadFile {
	out := make([]UploadFile, len(names))
	for i, n := range names {
		out[i] = UploadFile{Filename: n, ContentType: "image/jpeg", Data: []byte("jpeg")}
	}
	return out
}

func imageSources(s *Session) []string {
	var srcs []string
	for _, b := range s.State().doc.Children() {
		if b.Type == lexical.TypeImage {
			srcs = append(srcs, b.Src)
		}
	}
	return srcs
}

func TestInsertUploadedImagesBatchRejectedFallsBackToSequential(t *testing.T) {
	uploader := &fakeUploader{
		batchErr: errors.New("batch endpoint unavailable"),
		failing:  map[string]bool{"b.jpg": true},
	}
	notifier := &fakeNotifier{}
	s := NewSession(nil, &fakeSaver{}, notifier, 10)

	inserted := s.InsertUploadedImages(context.Background(), uploader, files("a.jpg", "b.jpg", "c.jpg"))

	assert.Equal(t, 2, inserted)
	assert.Equal(t, 1, uploader.batchCalls)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, uploader.singleCalls)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/c.jpg"}, imageSources(s))

	notes := notifier.All()
	require.Len(t, notes, 1)
	assert.Equal(t, "b.jpg", notes[0].File)
	assert.Equal(t, LevelError, notes[0].Level)
}

func TestInsertUploadedImagesBatch(t *testing.T) {
	uploader := &fakeUploader{}
	notifier := &fakeNotifier{}
	s := NewSession(nil, &fakeSaver{}, notifier, 10)

	inserted := s.InsertUploadedImages(context.Background(), uploader, files("grilled-pork_rice.jpg", "pho.png"))

	assert.Equal(t, 2, inserted)
	assert.Equal(t, 1, uploader.batchCalls)
	assert.Empty(t, uploader.singleCalls)
	assert.Equal(t, []string{"/uploads/grilled-pork_rice.jpg", "/uploads/pho.png"}, imageSources(s))
	assert.Empty(t, notifier.All())

	img, ok := ImageNodeFromNode(s.State().doc.Children()[1])
	require.True(t, ok)
	assert.Equal(t, "grilled pork rice", img.AltText())

	// Each insertion is its own undo step.
	_, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/grilled-pork_rice.jpg"}, imageSources(s))
}

func TestInsertUploadedImagesMissingURLCountsAsFailure(t *testing.T) {
	uploader := &fakeUploader{batchResult: []UploadResult{{URL: "/uploads/a.jpg"}, {}, {SecureURL: "  "}}}
	notifier := &fakeNotifier{}
	s := NewSession(nil, &fakeSaver{}, notifier, 10)

	inserted := s.InsertUploadedImages(context.Background(), uploader, files("a.jpg", "b.jpg", "c.jpg"))

	assert.Equal(t, 1, inserted)
	assert.Empty(t, uploader.singleCalls)
	notes := notifier.All()
	require.Len(t, notes, 2)
	assert.Equal(t, "b.jpg", notes[0].File)
	assert.Equal(t, "c.jpg", notes[1].File)
}

func TestInsertUploadedImagesShortBatchRetriesMissingFiles(t *testing.T) {
	uploader := &fakeUploader{
		batchResult: []UploadResult{{URL: "/uploads/a.jpg"}},
		failing:     map[string]bool{"c.jpg": true},
	}
	notifier := &fakeNotifier{}
	s := NewSession(nil, &fakeSaver{}, notifier, 10)

	inserted := s.InsertUploadedImages(context.Background(), uploader, files("a.jpg", "b.jpg", "c.jpg"))

	assert.Equal(t, 2, inserted)
	assert.Equal(t, []string{"b.jpg", "c.jpg"}, uploader.singleCalls)
	assert.Equal(t, []string{"/uploads/a.jpg", "https://cdn.example.com/b.jpg"}, imageSources(s))

	notes := notifier.All()
	require.Len(t, notes, 1)
	assert.Equal(t, "c.jpg", notes[0].File)
}

func TestInsertUploadedImagesSingleFile(t *testing.T) {
	uploader := &fakeUploader{}
	s := NewSession(nil, &fakeSaver{}, &fakeNotifier{}, 10)

	inserted := s.InsertUploadedImages(context.Background(), uploader, files("a.jpg"))

	assert.Equal(t, 1, inserted)
	assert.Equal(t, 0, uploader.batchCalls)
	assert.Equal(t, []string{"a.jpg"}, uploader.singleCalls)
}

func TestUploadResultLocation(t *testing.T) {
	tests := []struct {
		name     string
		result   UploadResult
		expected string
	}{
		{"secure url wins", UploadResult{SecureURL: "https://a", URL: "http://a"}, "https://a"},
		{"falls back to url", UploadResult{SecureURL: "  ", URL: "/uploads/a.jpg"}, "/uploads/a.jpg"},
		{"none", UploadResult{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.Location())
		})
	}
}

func TestAltFromFilename(t *testing.T) {
	assert.Equal(t, "banh mi", altFromFilename("uploads/banh-mi.webp"))
	assert.Equal(t, "", altFromFilename(".jpg"))
}
