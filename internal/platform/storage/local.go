package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalStorage writes files under a directory served at publicBaseURL.
type LocalStorage struct {
	root          string
	publicBaseURL string
	logger        *zap.Logger
}

func NewLocalStorage(root, publicBaseURL string, logger *zap.Logger) (*LocalStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		logger.Error("Failed to create storage path directory", zap.String("path", root), zap.Error(err))
		return nil, fmt.Errorf("failed to create storage path %s: %w", root, err)
	}
	logger.Info("Local storage initialized", zap.String("root", root))
	return &LocalStorage{root: root, publicBaseURL: publicBaseURL, logger: logger}, nil
}

// Root is the directory served as static files.
func (s *LocalStorage) Root() string { return s.root }

func (s *LocalStorage) Put(ctx context.Context, dir, filename, contentType string, body io.Reader, size int64) (Object, error) {
	if body == nil {
		return Object{}, fmt.Errorf("body cannot be nil")
	}
	key, err := objectKey(dir, filename, contentType)
	if err != nil {
		return Object{}, err
	}

	destination := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destination), os.ModePerm); err != nil {
		s.logger.Error("Failed to create sub-directory for file storage", zap.String("path", destination), zap.Error(err))
		return Object{}, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(destination)
	if err != nil {
		s.logger.Error("Failed to create destination file", zap.String("path", destination), zap.Error(err))
		return Object{}, fmt.Errorf("failed to create file %s: %w", destination, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, body)
	if err != nil {
		s.logger.Error("Failed to copy uploaded file to destination", zap.String("path", destination), zap.Error(err))
		os.Remove(destination)
		return Object{}, fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Debug("File saved", zap.String("key", key), zap.Int64("bytes", written))
	return Object{Key: key, URL: joinURL(s.publicBaseURL, key), Size: written, ContentType: contentType}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		s.logger.Warn("Attempt to delete file with path traversal", zap.String("key", key))
		return fmt.Errorf("invalid file path for deletion")
	}

	full := filepath.Join(s.root, clean)
	if _, err := os.Stat(full); os.IsNotExist(err) {
		s.logger.Warn("Attempt to delete non-existent file", zap.String("path", full))
		return nil
	}
	if err := os.Remove(full); err != nil {
		s.logger.Error("Failed to delete file", zap.String("path", full), zap.Error(err))
		return fmt.Errorf("failed to delete file %s: %w", full, err)
	}
	return nil
}
