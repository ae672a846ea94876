package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps images in a Google Cloud Storage bucket. When a CDN domain
// is configured public URLs point at it instead of storage.googleapis.com.
type GCSStore struct {
	client    *storage.Client
	bucket    string
	cdnDomain string
}

// NewGCSStore uses application default credentials unless credentialsFile is
// set.
func NewGCSStore(ctx context.Context, bucket, cdnDomain, credentialsFile string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS bucket name")
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, cdnDomain: cdnDomain}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q: %w", key, err)
	}
	return nil
}

func (s *GCSStore) PublicURL(key string) string {
	if s.cdnDomain != "" {
		return joinURL("https://"+s.cdnDomain, key)
	}
	return joinURL("https://storage.googleapis.com/"+s.bucket, key)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
