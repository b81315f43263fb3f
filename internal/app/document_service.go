package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"knowledgevault/internal/cache"
	"knowledgevault/internal/ingest"
	"knowledgevault/internal/model"
	"knowledgevault/internal/repository"
	"knowledgevault/internal/teams"
	"knowledgevault/internal/upload"
	"knowledgevault/internal/vector"
)

var (
	ErrEmptyBatch    = errors.New("no files in upload batch")
	ErrTeamsDisabled = errors.New("teams integration is not configured")
)

// ClassifyPublisher queues a document for the asynchronous classification job.
type ClassifyPublisher interface {
	Publish(ctx context.Context, documentID uint) error
}

type DocumentService struct {
	docRepo      *repository.DocumentRepository
	chunkRepo    *repository.DocumentChunkRepository
	accessRepo   *repository.DocumentAccessRepository
	favoriteRepo *repository.FavoriteRepository
	access       *AccessService
	ingestSvc    *ingest.Service
	publisher    ClassifyPublisher
	vectorClient *vector.Client
	queryCache   *cache.QueryCache
	teamsClient  *teams.Client
}

func NewDocumentService(
	docRepo *repository.DocumentRepository,
	chunkRepo *repository.DocumentChunkRepository,
	accessRepo *repository.DocumentAccessRepository,
	favoriteRepo *repository.FavoriteRepository,
	access *AccessService,
	ingestSvc *ingest.Service,
	publisher ClassifyPublisher,
	vectorClient *vector.Client,
	queryCache *cache.QueryCache,
	teamsClient *teams.Client,
) *DocumentService {
	return &DocumentService{
		docRepo:      docRepo,
		chunkRepo:    chunkRepo,
		accessRepo:   accessRepo,
		favoriteRepo: favoriteRepo,
		access:       access,
		ingestSvc:    ingestSvc,
		publisher:    publisher,
		vectorClient: vectorClient,
		queryCache:   queryCache,
		teamsClient:  teamsClient,
	}
}

// UploadFileInput is one file of a multipart batch.
type UploadFileInput struct {
	OriginalName string
	MimeType     string
	Size         int64
	Reader       io.Reader
}

type UploadBatchInput struct {
	UserID   uint
	Files    []UploadFileInput
	Metadata []upload.FileMetadata
}

// UploadFileResult reports the outcome for one file of the batch.
type UploadFileResult struct {
	OriginalName string          `json:"original_name"`
	Status       string          `json:"status"`
	Error        string          `json:"error,omitempty"`
	Document     *model.Document `json:"document,omitempty"`
}

// UploadBatch stores each accepted file, persists a pending document row and
// queues classification. A file rejected for type, size or metadata yields a
// per-file error without blocking the rest of the batch.
func (s *DocumentService) UploadBatch(ctx context.Context, input UploadBatchInput) ([]UploadFileResult, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	if len(input.Files) == 0 {
		return nil, ErrEmptyBatch
	}

	// Metadata entries are consumed by original name, first-unmatched in
	// submission order; duplicate names in one batch are not disambiguated
	// further.
	metaByName := make(map[string][]upload.FileMetadata, len(input.Metadata))
	for _, m := range input.Metadata {
		metaByName[m.FileName] = append(metaByName[m.FileName], m)
	}
	takeMeta := func(name string) *upload.FileMetadata {
		queue := metaByName[name]
		if len(queue) == 0 {
			return nil
		}
		m := queue[0]
		metaByName[name] = queue[1:]
		return &m
	}

	results := make([]UploadFileResult, 0, len(input.Files))
	anyStored := false
	for _, file := range input.Files {
		result := UploadFileResult{OriginalName: file.OriginalName, Status: upload.StateSuccess}

		meta := takeMeta(file.OriginalName)
		if meta != nil {
			if err := meta.Validate(); err != nil {
				result.Status = upload.StateError
				result.Error = err.Error()
				results = append(results, result)
				continue
			}
		}

		stored, err := s.ingestSvc.Store(file.Reader, file.OriginalName, file.MimeType, file.Size)
		if err != nil {
			result.Status = upload.StateError
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		doc := &model.Document{
			FileName:     stored.FileName,
			OriginalName: file.OriginalName,
			Name:         strings.TrimSuffix(file.OriginalName, extOf(file.OriginalName)),
			MimeType:     file.MimeType,
			Size:         stored.Size,
			StoragePath:  stored.StoragePath,
			Status:       model.StatusPending,
			UploadedBy:   input.UserID,
		}
		doc.SetTags(nil)
		doc.SetMetadata(nil)
		if meta != nil {
			if name := strings.TrimSpace(meta.Name); name != "" {
				doc.Name = name
			}
			doc.EffectiveStartDate = meta.EffectiveStartDate
			doc.EffectiveEndDate = meta.EffectiveEndDate
		}

		if err := s.docRepo.Create(doc); err != nil {
			_ = s.ingestSvc.Remove(stored.StoragePath)
			result.Status = upload.StateError
			result.Error = "persist document failed"
			results = append(results, result)
			continue
		}
		anyStored = true

		if err := s.publisher.Publish(ctx, doc.ID); err != nil {
			// The document stays pending; classification can be re-queued.
			log.Printf("queue classification for document %d failed: %v", doc.ID, err)
		}

		result.Document = doc
		results = append(results, result)
	}

	if anyStored {
		s.invalidate(ctx, cache.GroupDocuments, cache.GroupStats, cache.GroupCategories, cache.GroupSearch)
	}
	return results, nil
}

// ListInput selects and orders the visible document collection.
type ListInput struct {
	UserID        uint
	CategoryIDs   []uint
	Tags          []string
	FavoritesOnly bool
	MineOnly      bool
	Text          string
	Sort          string
}

func (s *DocumentService) List(ctx context.Context, input ListInput) ([]model.Document, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	// Only the unfiltered default listing is cached; filtered requests vary
	// too much to be worth keying individually.
	plain := !input.MineOnly && !input.FavoritesOnly &&
		len(input.CategoryIDs) == 0 && len(input.Tags) == 0 &&
		input.Text == "" && input.Sort == ""
	cacheKey := cache.DocumentsKey(input.UserID)
	if plain && s.queryCache != nil {
		var cached []model.Document
		if hit, err := s.queryCache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	var docs []model.Document
	var err error
	if input.MineOnly {
		docs, err = s.docRepo.ListByUploader(input.UserID)
	} else {
		docs, err = s.docRepo.List()
	}
	if err != nil {
		return nil, err
	}

	if plain && s.queryCache != nil {
		sorted := SortDocuments(docs, "")
		if err := s.queryCache.Set(ctx, cacheKey, sorted); err != nil {
			log.Printf("cache document list failed: %v", err)
		}
		return sorted, nil
	}

	filter := DocumentFilter{
		CategoryIDs:   input.CategoryIDs,
		Tags:          input.Tags,
		FavoritesOnly: input.FavoritesOnly,
		Text:          input.Text,
	}
	if input.FavoritesOnly {
		favIDs, err := s.favoriteRepo.ListDocumentIDs(input.UserID)
		if err != nil {
			return nil, err
		}
		filter.FavoriteIDs = favIDs
	}

	return SortDocuments(FilterDocuments(docs, filter), input.Sort), nil
}

func (s *DocumentService) Get(userID, documentID uint) (*model.Document, error) {
	if userID == 0 || documentID == 0 {
		return nil, ErrInvalidInput
	}
	doc, err := s.docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

type EndorseInput struct {
	User               *model.User
	DocumentID         uint
	EffectiveStartDate time.Time
	EffectiveEndDate   *time.Time
}

// Endorse sets a document's effective date window. The range is validated
// before anything touches the database.
func (s *DocumentService) Endorse(ctx context.Context, input EndorseInput) (*model.Document, error) {
	if input.User == nil || input.DocumentID == 0 || input.EffectiveStartDate.IsZero() {
		return nil, ErrInvalidInput
	}
	if err := upload.ValidateDateRange(input.EffectiveStartDate, input.EffectiveEndDate); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	canWrite, err := s.access.CanWrite(input.User, doc)
	if err != nil {
		return nil, err
	}
	if !canWrite {
		return nil, ErrPermissionDenied
	}

	start := input.EffectiveStartDate
	doc.EffectiveStartDate = &start
	doc.EffectiveEndDate = input.EffectiveEndDate
	if err := s.docRepo.UpdateEffectiveDates(doc); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.GroupDocuments)
	return doc, nil
}

// Delete removes the document row, its chunks, grants, favorites, the stored
// file and, best effort, its external vectors.
func (s *DocumentService) Delete(ctx context.Context, user *model.User, documentID uint) error {
	if user == nil || documentID == 0 {
		return ErrInvalidInput
	}
	doc, err := s.docRepo.GetByID(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	perm, err := s.access.PermissionFor(user, doc)
	if err != nil {
		return err
	}
	if perm != model.PermissionAdmin {
		return ErrPermissionDenied
	}

	if err := s.chunkRepo.DeleteByDocumentID(doc.ID); err != nil {
		return err
	}
	if err := s.accessRepo.DeleteByDocument(doc.ID); err != nil {
		return err
	}
	if err := s.favoriteRepo.RemoveByDocument(doc.ID); err != nil {
		return err
	}
	if doc.VectorIndexed {
		if err := s.vectorClient.Remove(ctx, doc.ID); err != nil {
			log.Printf("remove document %d from vector index failed: %v", doc.ID, err)
		}
	}
	if err := s.ingestSvc.Remove(doc.StoragePath); err != nil {
		log.Printf("remove stored file for document %d failed: %v", doc.ID, err)
	}
	if err := s.docRepo.Delete(doc.ID); err != nil {
		return err
	}

	s.invalidate(ctx, cache.GroupDocuments, cache.GroupStats, cache.GroupCategories, cache.GroupSearch)
	return nil
}

func (s *DocumentService) Favorite(ctx context.Context, userID, documentID uint) error {
	if userID == 0 || documentID == 0 {
		return ErrInvalidInput
	}
	doc, err := s.docRepo.GetByID(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	if err := s.favoriteRepo.Add(userID, documentID); err != nil {
		return err
	}
	s.invalidate(ctx, cache.GroupDocuments)
	return nil
}

func (s *DocumentService) Unfavorite(ctx context.Context, userID, documentID uint) error {
	if userID == 0 || documentID == 0 {
		return ErrInvalidInput
	}
	if err := s.favoriteRepo.Remove(userID, documentID); err != nil {
		return err
	}
	s.invalidate(ctx, cache.GroupDocuments)
	return nil
}

// ImportTeamsNotes pulls meeting notes from the Teams API and ingests each as
// a markdown document owned by the caller.
func (s *DocumentService) ImportTeamsNotes(ctx context.Context, userID uint, since time.Time) ([]UploadFileResult, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if s.teamsClient == nil || !s.teamsClient.Enabled() {
		return nil, ErrTeamsDisabled
	}

	notes, err := s.teamsClient.ListNotes(ctx, since)
	if err != nil {
		return nil, err
	}

	files := make([]UploadFileInput, 0, len(notes))
	for _, note := range notes {
		content := fmt.Sprintf("# %s\n\n%s\n", note.Title, note.Content)
		files = append(files, UploadFileInput{
			OriginalName: note.Title + ".md",
			MimeType:     "text/markdown",
			Size:         int64(len(content)),
			Reader:       strings.NewReader(content),
		})
	}
	if len(files) == 0 {
		return nil, nil
	}

	return s.UploadBatch(ctx, UploadBatchInput{UserID: userID, Files: files})
}

func (s *DocumentService) invalidate(ctx context.Context, groups ...string) {
	if s.queryCache == nil {
		return
	}
	if err := s.queryCache.Invalidate(ctx, groups...); err != nil {
		log.Printf("invalidate cache groups %v failed: %v", groups, err)
	}
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
