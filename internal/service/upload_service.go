package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/pkg/editor"
	"bistro-cms-be/pkg/imagestore"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// SVG is left out on purpose: it can carry script.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
}

type IUploadService interface {
	editor.Uploader
}

type uploadService struct {
	store    imagestore.Store
	maxBytes int64
	logger   logger.ILogger
	now      func() time.Time
}

func NewUploadService(store imagestore.Store, maxBytes int64, logger logger.ILogger) IUploadService {
	return &uploadService{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// checkedFile is a file that passed validation, with its sniffed type.
type checkedFile struct {
	file        editor.UploadFile
	contentType string
	ext         string
}

// check sniffs the bytes; the client's declared content type is ignored.
func (s *uploadService) check(file editor.UploadFile) (checkedFile, error) {
	if len(file.Data) == 0 {
		return checkedFile{}, fmt.Errorf("%w: %s is empty", ErrNotAnImage, file.Filename)
	}
	if s.maxBytes > 0 && int64(len(file.Data)) > s.maxBytes {
		return checkedFile{}, fmt.Errorf("%w: %s", ErrFileTooLarge, file.Filename)
	}

	detected := mimetype.Detect(file.Data)
	contentType := strings.SplitN(detected.String(), ";", 2)[0]
	if !allowedImageTypes[contentType] {
		return checkedFile{}, fmt.Errorf("%w: %s is %s", ErrNotAnImage, file.Filename, contentType)
	}
	return checkedFile{file: file, contentType: contentType, ext: detected.Extension()}, nil
}

func (s *uploadService) key(ext string) string {
	now := s.now()
	return path.Join("images", now.Format("2006"), now.Format("01"), uuid.New().String()+ext)
}

func (s *uploadService) put(ctx context.Context, f checkedFile) (editor.UploadResult, string, error) {
	key := s.key(f.ext)
	url, err := s.store.Put(ctx, key, f.contentType, bytes.NewReader(f.file.Data))
	if err != nil {
		s.logger.Error("UploadService", "Failed to store image", map[string]interface{}{
			"filename": f.file.Filename,
			"key":      key,
			"error":    err,
		})
		return editor.UploadResult{}, "", err
	}

	s.logger.Info("UploadService", "Image stored", map[string]interface{}{
		"filename": f.file.Filename,
		"key":      key,
		"bytes":    len(f.file.Data),
	})
	res := editor.UploadResult{URL: url}
	if strings.HasPrefix(url, "https://") {
		res.SecureURL = url
	}
	return res, key, nil
}

func (s *uploadService) Upload(ctx context.Context, file editor.UploadFile) (editor.UploadResult, error) {
	f, err := s.check(file)
	if err != nil {
		return editor.UploadResult{}, err
	}
	res, _, err := s.put(ctx, f)
	return res, err
}

// UploadBatch validates every file before storing any. A storage failure
// part way removes what was already stored.
func (s *uploadService) UploadBatch(ctx context.Context, files []editor.UploadFile) ([]editor.UploadResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	checked := make([]checkedFile, 0, len(files))
	for _, file := range files {
		f, err := s.check(file)
		if err != nil {
			return nil, err
		}
		checked = append(checked, f)
	}

	results := make([]editor.UploadResult, 0, len(checked))
	var stored []string
	for _, f := range checked {
		res, key, err := s.put(ctx, f)
		if err != nil {
			s.rollback(ctx, stored)
			return nil, fmt.Errorf("failed to store %s: %w", f.file.Filename, err)
		}
		stored = append(stored, key)
		results = append(results, res)
	}
	return results, nil
}

func (s *uploadService) rollback(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("UploadService", "Failed to remove partial upload", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
}
