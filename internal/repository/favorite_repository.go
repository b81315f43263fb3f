package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"knowledgevault/internal/model"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(userID, documentID uint) error {
	fav := model.Favorite{UserID: userID, DocumentID: documentID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
	if err != nil {
		return fmt.Errorf("add favorite failed: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(userID, documentID uint) error {
	err := r.db.Where("user_id = ? AND document_id = ?", userID, documentID).
		Delete(&model.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("remove favorite failed: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) RemoveByDocument(documentID uint) error {
	err := r.db.Where("document_id = ?", documentID).
		Delete(&model.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("remove favorites for document failed: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) ListDocumentIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Favorite{}).Where("user_id = ?", userID).
		Pluck("document_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list favorite document ids failed: %w", err)
	}
	return ids, nil
}
