package imagestore

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrInvalidKey = errors.New("invalid object key")

// Store keeps uploaded images and knows the public URL each key is served
// from.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// cleanKey rejects keys that could escape the store's root.
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
