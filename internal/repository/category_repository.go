package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"knowledgevault/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("create category failed: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query category by id failed: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) GetByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query category by name failed: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) List() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		return fmt.Errorf("delete category failed: %w", err)
	}
	return nil
}
