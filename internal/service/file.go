package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/storage"
)

// ErrEmptyFilename indicates an upload with no filename.
var ErrEmptyFilename = errors.New("filename must not be empty")

// ErrFileNotFound indicates a download or delete for an unknown file.
var ErrFileNotFound = errors.New("file not found")

// UploadedFile describes a stored upload.
type UploadedFile struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// FileService stores uploaded media in a blob backend. Keys are
// date-sharded and UUID-prefixed, so uploads never collide and the
// original filename survives in the URL.
type FileService struct {
	backend storage.Backend
	logger  zerolog.Logger
}

// NewFileService creates the file service.
func NewFileService(backend storage.Backend, logger zerolog.Logger) *FileService {
	return &FileService{
		backend: backend,
		logger:  logger.With().Str("service", "file").Logger(),
	}
}

// Upload stores the content and returns its key and public URL.
func (s *FileService) Upload(ctx context.Context, filename string, content io.Reader, size int64, contentType string) (*UploadedFile, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return nil, ErrEmptyFilename
	}

	key := fmt.Sprintf("uploads/%s/%s-%s",
		time.Now().UTC().Format("2006/01"), uuid.New().String(), name)

	if err := s.backend.Store(ctx, key, content, size, contentType); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to store upload")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("key", key).
		Int64("size", size).
		Msg("stored upload")

	return &UploadedFile{
		Key:  key,
		URL:  s.backend.URL(key),
		Size: size,
	}, nil
}

// Open returns the stored content for a key.
func (s *FileService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.backend.Retrieve(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return rc, nil
}

// Delete removes a stored file.
func (s *FileService) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("key", key).Msg("deleted upload")
	return nil
}

// sanitizeFilename keeps only the base name and replaces characters
// that complicate URLs.
func sanitizeFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
