package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllowListAndSize(t *testing.T) {
	svc := NewService(t.TempDir(), 25<<20)

	assert.NoError(t, svc.Validate("application/pdf", 1024))
	assert.NoError(t, svc.Validate("text/plain; charset=utf-8", 1024))
	assert.ErrorIs(t, svc.Validate("application/x-msdownload", 1024), ErrInvalidFileType)
	assert.ErrorIs(t, svc.Validate("application/pdf", 30<<20), ErrFileTooLarge)
}

func TestStore_WritesFileWithGeneratedName(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, 25<<20)

	stored, err := svc.Store(strings.NewReader("report body"), "report.pdf", "application/pdf", 11)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored.FileName, ".pdf"))
	assert.NotEqual(t, "report.pdf", stored.FileName)
	assert.Equal(t, int64(11), stored.Size)

	content, err := os.ReadFile(stored.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(content))
}

func TestStore_NamesDoNotCollide(t *testing.T) {
	svc := NewService(t.TempDir(), 25<<20)

	a, err := svc.Store(strings.NewReader("a"), "same.txt", "text/plain", 1)
	require.NoError(t, err)
	b, err := svc.Store(strings.NewReader("b"), "same.txt", "text/plain", 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.FileName, b.FileName)
}

func TestStore_CreatesDirLazilyAndIdempotently(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	svc := NewService(dir, 25<<20)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))

	_, err := svc.Store(strings.NewReader("x"), "a.txt", "text/plain", 1)
	require.NoError(t, err)
	_, err = svc.Store(strings.NewReader("y"), "b.txt", "text/plain", 1)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_RejectsOversizedStream(t *testing.T) {
	svc := NewService(t.TempDir(), 8)

	// declared size lies; the stream itself is over the ceiling
	_, err := svc.Store(strings.NewReader("way past the ceiling"), "a.txt", "text/plain", 4)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", HumanSize(512))
	assert.Equal(t, "1.0 KB", HumanSize(1024))
	assert.Equal(t, "2.5 MB", HumanSize(5<<20/2))
}

func TestKindAndIcon(t *testing.T) {
	assert.Equal(t, "pdf", Kind("application/pdf"))
	assert.Equal(t, "image", Kind("image/jpeg"))
	assert.Equal(t, "word", Kind("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.Equal(t, "file-pdf", Icon("application/pdf"))
	assert.Equal(t, "file", Icon("application/octet-stream"))
}
