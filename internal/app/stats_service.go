package app

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"knowledgevault/internal/cache"
	"knowledgevault/internal/ingest"
	"knowledgevault/internal/model"
	"knowledgevault/internal/repository"
)

type StatsService struct {
	docRepo      *repository.DocumentRepository
	categoryRepo *repository.CategoryRepository
	queryRepo    *repository.SearchQueryRepository
	queryCache   *cache.QueryCache
}

func NewStatsService(
	docRepo *repository.DocumentRepository,
	categoryRepo *repository.CategoryRepository,
	queryRepo *repository.SearchQueryRepository,
	queryCache *cache.QueryCache,
) *StatsService {
	return &StatsService{
		docRepo:      docRepo,
		categoryRepo: categoryRepo,
		queryRepo:    queryRepo,
		queryCache:   queryCache,
	}
}

type DashboardStats struct {
	TotalDocuments int64               `json:"total_documents"`
	ByStatus       map[string]int64    `json:"by_status"`
	ByDayOfWeek    map[string]int64    `json:"by_day_of_week"`
	ByFileType     map[string]int64    `json:"by_file_type"`
	SearchesByType map[string]int64    `json:"searches_by_type"`
	RecentSearches []model.SearchQuery `json:"recent_searches"`
}

type CategoryStat struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Count        int64  `json:"count"`
}

// Categories returns the category list for filter pickers.
func (s *StatsService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List()
}

// Dashboard returns upload and search aggregates for the overview page.
// Results are cached with the stats TTL and invalidated on upload and delete.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	key := cache.StatsKey()
	if s.queryCache != nil {
		var cached DashboardStats
		if hit, err := s.queryCache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	byStatus, err := s.docRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}

	docs, err := s.docRepo.List()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalDocuments: total,
		ByStatus:       byStatus,
		ByDayOfWeek:    bucketByDayOfWeek(docs),
		ByFileType:     bucketByFileType(docs),
	}

	searches, err := s.queryRepo.CountByType()
	if err != nil {
		log.Printf("count searches by type failed: %v", err)
		searches = map[string]int64{}
	}
	stats.SearchesByType = searches

	recent, err := s.queryRepo.ListRecent(10)
	if err != nil {
		log.Printf("list recent searches failed: %v", err)
		recent = nil
	}
	stats.RecentSearches = recent

	if s.queryCache != nil {
		if err := s.queryCache.SetStats(ctx, key, stats); err != nil {
			log.Printf("cache dashboard stats failed: %v", err)
		}
	}
	return stats, nil
}

// CategoryStats returns per-category document counts, including categories
// with zero documents so the chart axis stays stable.
func (s *StatsService) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	key := cache.CategoryStatsKey()
	if s.queryCache != nil {
		var cached []CategoryStat
		if hit, err := s.queryCache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, err
	}
	counts, err := s.docRepo.CountByCategory()
	if err != nil {
		return nil, err
	}

	stats := make([]CategoryStat, 0, len(categories))
	for _, c := range categories {
		stats = append(stats, CategoryStat{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			Count:        counts[c.ID],
		})
	}

	if s.queryCache != nil {
		if err := s.queryCache.SetStats(ctx, key, stats); err != nil {
			log.Printf("cache category stats failed: %v", err)
		}
	}
	return stats, nil
}

func bucketByDayOfWeek(docs []model.Document) map[string]int64 {
	buckets := make(map[string]int64, 7)
	for _, d := range docs {
		buckets[d.CreatedAt.Weekday().String()]++
	}
	return buckets
}

func bucketByFileType(docs []model.Document) map[string]int64 {
	buckets := make(map[string]int64)
	for _, d := range docs {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(d.OriginalName), "."))
		if ext == "" {
			ext = ingest.Kind(d.MimeType)
		}
		buckets[ext]++
	}
	return buckets
}
