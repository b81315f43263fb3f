package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgevault/internal/ingest"
	"knowledgevault/internal/model"
	"knowledgevault/internal/repository"
	"knowledgevault/internal/upload"
)

type recordingPublisher struct {
	published []uint
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, documentID uint) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, documentID)
	return nil
}

func newTestDocumentService(t *testing.T) (*DocumentService, *repository.DocumentRepository, *recordingPublisher) {
	t.Helper()

	db := newTestDB(t)
	docRepo := repository.NewDocumentRepository(db)
	chunkRepo := repository.NewDocumentChunkRepository(db)
	accessRepo := repository.NewDocumentAccessRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	userRepo := repository.NewUserRepository(db)
	access := NewAccessService(accessRepo, docRepo, userRepo)

	ingestSvc := ingest.NewService(t.TempDir(), 1024)
	publisher := &recordingPublisher{}

	svc := NewDocumentService(docRepo, chunkRepo, accessRepo, favoriteRepo, access, ingestSvc, publisher, nil, nil, nil)
	return svc, docRepo, publisher
}

func TestUploadBatch_RejectedFileDoesNotBlockSiblings(t *testing.T) {
	svc, docRepo, publisher := newTestDocumentService(t)

	results, err := svc.UploadBatch(context.Background(), UploadBatchInput{
		UserID: 1,
		Files: []UploadFileInput{
			{
				OriginalName: "huge.txt",
				MimeType:     "text/plain",
				Size:         2048, // over the 1024-byte ceiling
				Reader:       strings.NewReader(strings.Repeat("x", 2048)),
			},
			{
				OriginalName: "notes.txt",
				MimeType:     "text/plain",
				Size:         5,
				Reader:       strings.NewReader("hello"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, upload.StateError, results[0].Status)
	assert.Contains(t, results[0].Error, "size limit")
	assert.Nil(t, results[0].Document)

	assert.Equal(t, upload.StateSuccess, results[1].Status)
	require.NotNil(t, results[1].Document)
	assert.Equal(t, model.StatusPending, results[1].Document.Status)

	docs, err := docRepo.List()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes.txt", docs[0].OriginalName)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, results[1].Document.ID, publisher.published[0])
}

func TestUploadBatch_DisallowedTypeYieldsPerFileError(t *testing.T) {
	svc, docRepo, publisher := newTestDocumentService(t)

	results, err := svc.UploadBatch(context.Background(), UploadBatchInput{
		UserID: 1,
		Files: []UploadFileInput{
			{
				OriginalName: "payload.exe",
				MimeType:     "application/x-msdownload",
				Size:         16,
				Reader:       strings.NewReader("MZ"),
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, upload.StateError, results[0].Status)
	assert.Contains(t, results[0].Error, "not allowed")

	docs, err := docRepo.List()
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, publisher.published)
}

func TestUploadBatch_InvalidMetadataFailsOnlyThatFile(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)

	results, err := svc.UploadBatch(context.Background(), UploadBatchInput{
		UserID: 1,
		Files: []UploadFileInput{
			{
				OriginalName: "a.txt",
				MimeType:     "text/plain",
				Size:         3,
				Reader:       strings.NewReader("aaa"),
			},
			{
				OriginalName: "b.txt",
				MimeType:     "text/plain",
				Size:         3,
				Reader:       strings.NewReader("bbb"),
			},
		},
		Metadata: []upload.FileMetadata{
			{FileName: "a.txt", Name: "   "},
			{FileName: "b.txt", Name: "Kept Doc"},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, upload.StateError, results[0].Status)
	assert.Equal(t, upload.StateSuccess, results[1].Status)

	docs, err := docRepo.List()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Kept Doc", docs[0].Name)
}

func TestUploadBatch_EmptyBatchRejected(t *testing.T) {
	svc, _, _ := newTestDocumentService(t)

	_, err := svc.UploadBatch(context.Background(), UploadBatchInput{UserID: 1})
	assert.ErrorIs(t, err, ErrEmptyBatch)
}
