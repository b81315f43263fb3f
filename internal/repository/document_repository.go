package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"knowledgevault/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(document *model.Document) error {
	if err := r.db.Create(document).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var document model.Document
	if err := r.db.First(&document, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query document by id failed: %w", err)
	}
	return &document, nil
}

func (r *DocumentRepository) List() ([]model.Document, error) {
	var documents []model.Document
	if err := r.db.Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return documents, nil
}

func (r *DocumentRepository) ListByIDs(ids []uint) ([]model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var documents []model.Document
	if err := r.db.Where("id IN ?", ids).Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("list documents by ids failed: %w", err)
	}
	return documents, nil
}

func (r *DocumentRepository) ListByUploader(userID uint) ([]model.Document, error) {
	var documents []model.Document
	if err := r.db.Where("uploaded_by = ?", userID).Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("list documents by uploader failed: %w", err)
	}
	return documents, nil
}

// SearchKeyword matches the query against name, original name, extracted
// content, summary and the tags JSON column.
func (r *DocumentRepository) SearchKeyword(query string, limit int) ([]model.Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	pattern := "%" + query + "%"
	var documents []model.Document
	err := r.db.
		Where("name LIKE ? OR original_name LIKE ? OR content LIKE ? OR summary LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&documents).Error
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	return documents, nil
}

func (r *DocumentRepository) UpdateStatus(id uint, status string) error {
	if err := r.db.Model(&model.Document{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return fmt.Errorf("update document status failed: %w", err)
	}
	return nil
}

// UpdateClassification persists the worker's output in one write.
func (r *DocumentRepository) UpdateClassification(document *model.Document) error {
	err := r.db.Model(document).
		Select("content", "summary", "category_id", "tags", "status", "vector_indexed", "vector_id").
		Updates(document).Error
	if err != nil {
		return fmt.Errorf("update document classification failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) UpdateEffectiveDates(document *model.Document) error {
	err := r.db.Model(document).
		Select("effective_start_date", "effective_end_date").
		Updates(document).Error
	if err != nil {
		return fmt.Errorf("update document effective dates failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Document{}, id).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&model.Document{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count documents by status failed: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *DocumentRepository) CountByCategory() (map[uint]int64, error) {
	type row struct {
		CategoryID *uint
		Count      int64
	}
	var rows []row
	err := r.db.Model(&model.Document{}).
		Select("category_id, count(*) as count").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count documents by category failed: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		if r.CategoryID != nil {
			counts[*r.CategoryID] = r.Count
		} else {
			counts[0] = r.Count
		}
	}
	return counts, nil
}
