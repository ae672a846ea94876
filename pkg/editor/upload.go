package editor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// UploadFile is one image picked, dropped or pasted by the author.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadResult is what the storage service returns for a stored file.
type UploadResult struct {
	SecureURL string `json:"secure_url,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Location is the first non-empty URL of the result.
func (r UploadResult) Location() string {
	if u := strings.TrimSpace(r.SecureURL); u != "" {
		return u
	}
	return strings.TrimSpace(r.URL)
}

// Uploader stores images. UploadBatch returns one result per file, in order.
type Uploader interface {
	Upload(ctx context.Context, file UploadFile) (UploadResult, error)
	UploadBatch(ctx context.Context, files []UploadFile) ([]UploadResult, error)
}

// InsertUploadedImages uploads files and inserts one image block per stored
// file, in file order. Several files go up in one batch call; if that call
// fails every file is retried on its own, and files missing from a short
// batch response are retried the same way. A file that fails or comes back
// without a URL produces one error notification and is skipped. It returns
// the number of images inserted.
func (s *Session) InsertUploadedImages(ctx context.Context, uploader Uploader, files []UploadFile) int {
	if len(files) == 0 {
		return 0
	}

	results := make([]UploadResult, len(files))
	uploaded := make([]bool, len(files))

	if len(files) > 1 {
		batch, err := uploader.UploadBatch(ctx, files)
		if err == nil {
			for i := range files {
				if i < len(batch) {
					results[i] = batch[i]
					uploaded[i] = true
				}
			}
		}
	}
	// Files the batch rejected or left out go up one by one.
	for i, f := range files {
		if uploaded[i] {
			continue
		}
		res, err := uploader.Upload(ctx, f)
		if err != nil {
			continue
		}
		results[i] = res
		uploaded[i] = true
	}

	inserted := 0
	for i, f := range files {
		src := results[i].Location()
		if !uploaded[i] || src == "" {
			s.notify(ctx, Notification{
				Level:   LevelError,
				Message: fmt.Sprintf("Could not upload %s", displayName(f)),
				File:    f.Filename,
			})
			continue
		}

		cmd, err := NewCommand(CmdInsertImage, InsertImagePayload{Src: src, AltText: altFromFilename(f.Filename)})
		if err == nil {
			_, err = s.Dispatch(cmd)
		}
		if err != nil {
			s.notify(ctx, Notification{Level: LevelError, Message: fmt.Sprintf("Could not insert %s", displayName(f)), File: f.Filename})
			continue
		}
		inserted++
	}
	return inserted
}

func displayName(f UploadFile) string {
	if f.Filename == "" {
		return "image"
	}
	return f.Filename
}

// altFromFilename turns "grilled-pork_rice.jpg" into "grilled pork rice".
func altFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
