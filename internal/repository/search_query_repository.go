package repository

import (
	"fmt"

	"gorm.io/gorm"

	"knowledgevault/internal/model"
)

// SearchQueryRepository is append-only: rows are inserted and read, never
// updated.
type SearchQueryRepository struct {
	db *gorm.DB
}

func NewSearchQueryRepository(db *gorm.DB) *SearchQueryRepository {
	return &SearchQueryRepository{db: db}
}

func (r *SearchQueryRepository) Create(query *model.SearchQuery) error {
	if err := r.db.Create(query).Error; err != nil {
		return fmt.Errorf("create search query log failed: %w", err)
	}
	return nil
}

func (r *SearchQueryRepository) ListRecent(limit int) ([]model.SearchQuery, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var queries []model.SearchQuery
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&queries).Error; err != nil {
		return nil, fmt.Errorf("list recent search queries failed: %w", err)
	}
	return queries, nil
}

func (r *SearchQueryRepository) CountByType() (map[string]int64, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&model.SearchQuery{}).
		Select("type, count(*) as count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count search queries by type failed: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}
