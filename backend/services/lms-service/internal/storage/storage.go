package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrDisabled = errors.New("object storage is not configured")

// ObjectStore keeps uploaded binaries outside the database.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// NewKey returns prefix/<uuid><ext>, keeping only the extension of filename.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return prefix + "/" + uuid.NewString() + ext
}

// ThumbnailKey is where the thumbnail of key is stored.
func ThumbnailKey(key string) string {
	return strings.TrimSuffix(key, path.Ext(key)) + "_thumb.jpg"
}

type disabled struct{}

// Disabled is used when no bucket is configured; every call fails with ErrDisabled.
func Disabled() ObjectStore { return disabled{} }

func (disabled) Put(context.Context, string, string, []byte) error { return ErrDisabled }
func (disabled) Delete(context.Context, string) error              { return ErrDisabled }
func (disabled) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", ErrDisabled
}
