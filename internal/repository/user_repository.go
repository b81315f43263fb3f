package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"knowledgevault/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) ListByDepartment(department string) ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("department = ?", department).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users by department failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(id uint, role string) error {
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Update("role", role).Error; err != nil {
		return fmt.Errorf("update user role failed: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(user *model.User) error {
	if err := r.db.Model(user).Select("display_name", "department").Updates(user).Error; err != nil {
		return fmt.Errorf("update user profile failed: %w", err)
	}
	return nil
}
