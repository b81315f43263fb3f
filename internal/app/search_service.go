package app

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"strings"

	"knowledgevault/internal/ai"
	"knowledgevault/internal/cache"
	"knowledgevault/internal/model"
	"knowledgevault/internal/repository"
)

// Search request modes.
const (
	SearchKeyword  = "keyword"
	SearchSemantic = "semantic"
	SearchHybrid   = "hybrid"
)

const defaultSearchLimit = 20

var ErrUnknownSearchType = errors.New("unknown search type")

type SearchService struct {
	docRepo    *repository.DocumentRepository
	chunkRepo  *repository.DocumentChunkRepository
	queryRepo  *repository.SearchQueryRepository
	llmClient  *ai.Client
	queryCache *cache.QueryCache
}

func NewSearchService(
	docRepo *repository.DocumentRepository,
	chunkRepo *repository.DocumentChunkRepository,
	queryRepo *repository.SearchQueryRepository,
	llmClient *ai.Client,
	queryCache *cache.QueryCache,
) *SearchService {
	return &SearchService{
		docRepo:    docRepo,
		chunkRepo:  chunkRepo,
		queryRepo:  queryRepo,
		llmClient:  llmClient,
		queryCache: queryCache,
	}
}

type SearchResult struct {
	Documents []model.Document `json:"documents"`
	Count     int              `json:"count"`
	Type      string           `json:"type"`
}

// Search runs one request in the given mode. An empty query short-circuits
// with an empty result: no database work, no AI call, no log row.
func (s *SearchService) Search(ctx context.Context, userID uint, query, searchType string) (*SearchResult, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	query = strings.TrimSpace(query)
	if searchType == "" {
		searchType = SearchKeyword
	}
	switch searchType {
	case SearchKeyword, SearchSemantic, SearchHybrid:
	default:
		return nil, ErrUnknownSearchType
	}
	if query == "" {
		return &SearchResult{Documents: []model.Document{}, Count: 0, Type: searchType}, nil
	}

	cacheKey := cache.SearchKey(userID, query, searchType)
	if s.queryCache != nil {
		var cached SearchResult
		if hit, err := s.queryCache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	var docs []model.Document
	var err error
	switch searchType {
	case SearchKeyword:
		docs, err = s.docRepo.SearchKeyword(query, defaultSearchLimit)
	case SearchSemantic:
		docs, err = s.semanticSearch(ctx, query, defaultSearchLimit)
	case SearchHybrid:
		docs, err = s.hybridSearch(ctx, query, defaultSearchLimit)
	}
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}

	result := &SearchResult{Documents: docs, Count: len(docs), Type: searchType}

	// Append-only analytics log; a failed insert never fails the search.
	logRow := &model.SearchQuery{
		UserID:      userID,
		Query:       query,
		Type:        searchType,
		ResultCount: result.Count,
	}
	if err := s.queryRepo.Create(logRow); err != nil {
		log.Printf("log search query failed: %v", err)
	}

	if s.queryCache != nil {
		if err := s.queryCache.Set(ctx, cacheKey, result); err != nil {
			log.Printf("cache search result failed: %v", err)
		}
	}
	return result, nil
}

// semanticSearch embeds the query and ranks stored chunk embeddings by cosine
// similarity, returning the documents behind the best chunks.
func (s *SearchService) semanticSearch(ctx context.Context, query string, limit int) ([]model.Document, error) {
	chunks, err := s.chunkRepo.ListAll()
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	queryEmb, err := s.llmClient.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	top := rankChunks(chunks, queryEmb, limit*4)
	seen := make(map[uint]bool)
	docIDs := make([]uint, 0, limit)
	for _, sc := range top {
		if seen[sc.chunk.DocumentID] {
			continue
		}
		seen[sc.chunk.DocumentID] = true
		docIDs = append(docIDs, sc.chunk.DocumentID)
		if len(docIDs) >= limit {
			break
		}
	}

	docs, err := s.docRepo.ListByIDs(docIDs)
	if err != nil {
		return nil, err
	}
	// preserve rank order
	byID := make(map[uint]model.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	ordered := make([]model.Document, 0, len(docIDs))
	for _, id := range docIDs {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}

// hybridSearch unions keyword and semantic results, keyword matches first.
func (s *SearchService) hybridSearch(ctx context.Context, query string, limit int) ([]model.Document, error) {
	keyword, err := s.docRepo.SearchKeyword(query, limit)
	if err != nil {
		return nil, err
	}
	semantic, err := s.semanticSearch(ctx, query, limit)
	if err != nil {
		// keyword results still stand when the AI side fails
		log.Printf("semantic leg of hybrid search failed: %v", err)
		semantic = nil
	}

	seen := make(map[uint]bool, len(keyword))
	merged := make([]model.Document, 0, len(keyword)+len(semantic))
	for _, d := range keyword {
		seen[d.ID] = true
		merged = append(merged, d)
	}
	for _, d := range semantic {
		if !seen[d.ID] {
			merged = append(merged, d)
		}
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// TopChunks returns the most relevant chunks for a question; used by the chat
// assistant to build its context block. A non-empty documentIDs restricts
// retrieval to those documents.
func (s *SearchService) TopChunks(ctx context.Context, question string, k int, documentIDs []uint) ([]model.DocumentChunk, error) {
	if k <= 0 {
		k = 5
	}
	var chunks []model.DocumentChunk
	var err error
	if len(documentIDs) > 0 {
		chunks, err = s.chunkRepo.ListByDocumentIDs(documentIDs)
	} else {
		chunks, err = s.chunkRepo.ListAll()
	}
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	queryEmb, err := s.llmClient.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	top := rankChunks(chunks, queryEmb, k)
	out := make([]model.DocumentChunk, len(top))
	for i := range top {
		out[i] = top[i].chunk
	}
	return out, nil
}

type scoredChunk struct {
	chunk model.DocumentChunk
	score float32
}

func rankChunks(chunks []model.DocumentChunk, queryEmb []float32, k int) []scoredChunk {
	scored := make([]scoredChunk, len(chunks))
	for i := range chunks {
		scored[i] = scoredChunk{
			chunk: chunks[i],
			score: cosineSimilarity(queryEmb, chunks[i].EmbeddingVector()),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
