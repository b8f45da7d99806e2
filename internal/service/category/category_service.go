package category

import (
	"context"

	"fleamarket/internal/model"
	"fleamarket/internal/repository"
	"fleamarket/pkg/utils"
)

// CategoryService category service interface
type CategoryService interface {
	// Create a category
	Create(ctx context.Context, name string) (*model.Category, error)

	// Rename a category
	Rename(ctx context.Context, id uint64, name string) (*model.Category, error)

	// Activate or deactivate a category
	SetActivation(ctx context.Context, id uint64, activation bool) error

	// Delete a category with no goods attached
	Delete(ctx context.Context, id uint64) error

	// List categories
	List(ctx context.Context, activatedOnly bool) ([]*model.Category, error)
}

// categoryService category service implementation
type categoryService struct {
	categoryRepo repository.CategoryRepository
	goodsRepo    repository.GoodsRepository
}

// NewCategoryService creates a category service
func NewCategoryService(categoryRepo repository.CategoryRepository, goodsRepo repository.GoodsRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		goodsRepo:    goodsRepo,
	}
}

// Create creates a category with a unique name
func (s *categoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to check category name")
	}
	if existing != nil {
		return nil, utils.ErrCategoryExists
	}

	category := &model.Category{
		Name:       name,
		Activation: true,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to create category")
	}
	return category, nil
}

// Rename renames a category
func (s *categoryService) Rename(ctx context.Context, id uint64, name string) (*model.Category, error) {
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to check category name")
	}
	if existing != nil && existing.ID != id {
		return nil, utils.ErrCategoryExists
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to rename category")
	}
	return category, nil
}

// SetActivation activates or deactivates a category
func (s *categoryService) SetActivation(ctx context.Context, id uint64, activation bool) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	category.Activation = activation
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to update category")
	}
	return nil
}

// Delete deletes a category that has no goods attached
func (s *categoryService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.goodsRepo.CountByCategory(ctx, id)
	if err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to count category goods")
	}
	if count > 0 {
		return utils.ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to delete category")
	}
	return nil
}

// List lists categories
func (s *categoryService) List(ctx context.Context, activatedOnly bool) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx, activatedOnly)
}
