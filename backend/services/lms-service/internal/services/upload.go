package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/storage"
	apperr "github.com/ayesh20/e-learn-backend/backend/shared/error"
)

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// storeImage validates an image upload and stores it under prefix with a
// thumbnail next to it. It returns the key of the original.
func storeImage(ctx context.Context, store storage.ObjectStore, prefix string, up Upload, maxBytes int64) (string, error) {
	if len(up.Data) == 0 {
		return "", apperr.Validation("No file uploaded")
	}
	if maxBytes > 0 && int64(len(up.Data)) > maxBytes {
		return "", apperr.Validation(fmt.Sprintf("File too large. Maximum size is %dMB", maxBytes>>20))
	}
	ct := up.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(up.Data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return "", apperr.Validation("Only image files are allowed")
	}

	key := storage.NewKey(prefix, up.Filename)
	if err := store.Put(ctx, key, ct, up.Data); err != nil {
		return "", objectStoreErr(err)
	}
	thumb, err := storage.Thumbnail(up.Data, storage.ThumbnailWidth)
	if err != nil {
		_ = store.Delete(ctx, key)
		return "", apperr.Validation("Uploaded file is not a readable image")
	}
	if err := store.Put(ctx, storage.ThumbnailKey(key), "image/jpeg", thumb); err != nil {
		_ = store.Delete(ctx, key)
		return "", objectStoreErr(err)
	}
	return key, nil
}

func objectStoreErr(err error) error {
	if errors.Is(err, storage.ErrDisabled) {
		return apperr.Wrap(apperr.ErrServiceUnavailable, "file storage is not available", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(err)
	}
	return apperr.Wrap(apperr.ErrInternal, "failed to store file", err)
}
