package repository

import (
	"fmt"

	"gorm.io/gorm"

	"knowledgevault/internal/model"
)

type DocumentChunkRepository struct {
	db *gorm.DB
}

func NewDocumentChunkRepository(db *gorm.DB) *DocumentChunkRepository {
	return &DocumentChunkRepository{db: db}
}

func (r *DocumentChunkRepository) CreateBatch(chunks []model.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.Create(&chunks).Error; err != nil {
		return fmt.Errorf("create document chunks batch failed: %w", err)
	}
	return nil
}

func (r *DocumentChunkRepository) ListAll() ([]model.DocumentChunk, error) {
	var chunks []model.DocumentChunk
	if err := r.db.Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list document chunks failed: %w", err)
	}
	return chunks, nil
}

func (r *DocumentChunkRepository) ListByDocumentIDs(documentIDs []uint) ([]model.DocumentChunk, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	var chunks []model.DocumentChunk
	if err := r.db.Where("document_id IN ?", documentIDs).Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list document chunks by document ids failed: %w", err)
	}
	return chunks, nil
}

func (r *DocumentChunkRepository) DeleteByDocumentID(documentID uint) error {
	if err := r.db.Where("document_id = ?", documentID).Delete(&model.DocumentChunk{}).Error; err != nil {
		return fmt.Errorf("delete document chunks failed: %w", err)
	}
	return nil
}
