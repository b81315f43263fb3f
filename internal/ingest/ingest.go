package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
)

// allowedMimeTypes is the upload allow-list: PDF, DOCX, plain text
// formats and common images.
var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain":      true,
	"text/markdown":   true,
	"text/csv":        true,
	"application/csv": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"image/webp":      true,
}

const DefaultMaxSizeBytes = 25 << 20 // 25 MiB

// Service validates incoming file streams and persists them to disk.
type Service struct {
	dir          string
	maxSizeBytes int64
}

func NewService(dir string, maxSizeBytes int64) *Service {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return &Service{dir: dir, maxSizeBytes: maxSizeBytes}
}

// StoredFile describes a file after it has been accepted and written to disk.
type StoredFile struct {
	FileName    string // generated collision-resistant name
	StoragePath string // absolute path on disk
	Size        int64
}

// Validate checks the declared MIME type and size against the allow-list and
// ceiling without touching the stream.
func (s *Service) Validate(mimeType string, size int64) error {
	if !allowedMimeTypes[normalizeMime(mimeType)] {
		return ErrInvalidFileType
	}
	if size > s.maxSizeBytes {
		return ErrFileTooLarge
	}
	return nil
}

// Store validates and persists the file stream under a generated name inside
// the upload directory. The directory is created on first use; creation is
// idempotent.
func (s *Service) Store(r io.Reader, originalName, mimeType string, size int64) (*StoredFile, error) {
	if err := s.Validate(mimeType, size); err != nil {
		return nil, err
	}
	if err := s.ensureDir(); err != nil {
		return nil, err
	}

	name := generateFileName(originalName)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create stored file failed: %w", err)
	}
	written, err := io.Copy(dst, io.LimitReader(r, s.maxSizeBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write stored file failed: %w", err)
	}
	if written > s.maxSizeBytes {
		_ = os.Remove(path)
		return nil, ErrFileTooLarge
	}

	return &StoredFile{
		FileName:    name,
		StoragePath: path,
		Size:        written,
	}, nil
}

// Remove deletes a stored file; missing files are not an error.
func (s *Service) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stored file failed: %w", err)
	}
	return nil
}

func (s *Service) ensureDir() error {
	if _, err := os.Stat(s.dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil && !os.IsExist(err) {
		return fmt.Errorf("create upload dir failed: %w", err)
	}
	return nil
}

// generateFileName builds a collision-resistant stored name: nanosecond
// timestamp, random suffix, original extension.
func generateFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), suffix, ext)
}

func normalizeMime(mimeType string) string {
	// strip parameters such as "; charset=utf-8"
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
