package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fleamarket/internal/model"
	"fleamarket/pkg/utils"
)

// CategoryRepository category repository interface
type CategoryRepository interface {
	// Create category
	Create(ctx context.Context, category *model.Category) error

	// Get category by ID
	GetByID(ctx context.Context, id uint64) (*model.Category, error)

	// Get category by name
	GetByName(ctx context.Context, name string) (*model.Category, error)

	// Update category
	Update(ctx context.Context, category *model.Category) error

	// Delete category
	Delete(ctx context.Context, id uint64) error

	// List categories, optionally only activated ones
	List(ctx context.Context, activatedOnly bool) ([]*model.Category, error)
}

// categoryRepository category repository implementation
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a category
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID gets a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetByName gets a category by name
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// Update updates a category
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete deletes a category
func (r *categoryRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}

// List lists categories
func (r *categoryRepository) List(ctx context.Context, activatedOnly bool) ([]*model.Category, error) {
	var categories []*model.Category

	db := r.db.WithContext(ctx)
	if activatedOnly {
		db = db.Where("activation = ?", true)
	}

	err := db.Order("id ASC").Find(&categories).Error
	return categories, err
}
