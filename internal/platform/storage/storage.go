// Package storage persists uploaded intake files and hands back their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"estate_leads_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Storage is implemented by the local disk and S3 backends.
type Storage interface {
	// Put stores body under dir with a generated name. The extension is taken from
	// filename, falling back to the content type.
	Put(ctx context.Context, dir, filename, contentType string, body io.Reader, size int64) (Object, error)
	// Delete removes the object with the given key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		return NewS3Storage(ctx, cfg, logger)
	case config.StorageDriverLocal, "":
		return NewLocalStorage(cfg.StorageLocalPath, cfg.StoragePublicBaseURL, logger)
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

var extensionsByType = map[string]string{
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/gif":          ".gif",
	"image/webp":         ".webp",
	"application/pdf":    ".pdf",
	"application/msword": ".doc",

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// objectKey builds "<dir>/<uuid><ext>".
func objectKey(dir, filename, contentType string) (string, error) {
	if strings.Contains(dir, "..") {
		return "", fmt.Errorf("invalid directory %q", dir)
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" {
		mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
		known, ok := extensionsByType[strings.ToLower(mediaType)]
		if !ok {
			return "", fmt.Errorf("unsupported file type or missing extension: %s", contentType)
		}
		ext = known
	}

	cleanDir := path.Clean("/" + filepath.ToSlash(dir))
	cleanDir = strings.TrimPrefix(cleanDir, "/")
	name := uuid.New().String() + ext
	if cleanDir == "" || cleanDir == "." {
		return name, nil
	}
	return cleanDir + "/" + name, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return "/" + key
	}
	return strings.TrimRight(base, "/") + "/" + key
}
