package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"knowledgevault/internal/model"
)

type DocumentAccessRepository struct {
	db *gorm.DB
}

func NewDocumentAccessRepository(db *gorm.DB) *DocumentAccessRepository {
	return &DocumentAccessRepository{db: db}
}

// Upsert creates a grant or updates the permission of an existing one.
func (r *DocumentAccessRepository) Upsert(access *model.DocumentAccess) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permission", "granted_by"}),
	}).Create(access).Error
	if err != nil {
		return fmt.Errorf("upsert document access failed: %w", err)
	}
	return nil
}

func (r *DocumentAccessRepository) Get(documentID, userID uint) (*model.DocumentAccess, error) {
	var access model.DocumentAccess
	err := r.db.Where("document_id = ? AND user_id = ?", documentID, userID).First(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query document access failed: %w", err)
	}
	return &access, nil
}

func (r *DocumentAccessRepository) ListByDocument(documentID uint) ([]model.DocumentAccess, error) {
	var grants []model.DocumentAccess
	if err := r.db.Where("document_id = ?", documentID).Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("list document access failed: %w", err)
	}
	return grants, nil
}

func (r *DocumentAccessRepository) Delete(documentID, userID uint) error {
	err := r.db.Where("document_id = ? AND user_id = ?", documentID, userID).
		Delete(&model.DocumentAccess{}).Error
	if err != nil {
		return fmt.Errorf("delete document access failed: %w", err)
	}
	return nil
}

func (r *DocumentAccessRepository) DeleteByDocument(documentID uint) error {
	if err := r.db.Where("document_id = ?", documentID).Delete(&model.DocumentAccess{}).Error; err != nil {
		return fmt.Errorf("delete document access by document failed: %w", err)
	}
	return nil
}
