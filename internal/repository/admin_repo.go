package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fleamarket/internal/model"
	"fleamarket/pkg/utils"
)

// AdminRepository admin repository interface
type AdminRepository interface {
	// Create admin
	Create(ctx context.Context, admin *model.Admin) error

	// Get admin by ID
	GetByID(ctx context.Context, id uint64) (*model.Admin, error)

	// Get admin by username
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)

	// Update admin
	Update(ctx context.Context, admin *model.Admin) error

	// List admins
	List(ctx context.Context, page, pageSize int) ([]*model.Admin, int64, error)
}

// adminRepository admin repository implementation
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates an admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create creates an admin
func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// GetByID gets an admin by ID
func (r *adminRepository) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// GetByUsername gets an admin by username
func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// Update updates an admin
func (r *adminRepository) Update(ctx context.Context, admin *model.Admin) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

// List lists admins
func (r *adminRepository) List(ctx context.Context, page, pageSize int) ([]*model.Admin, int64, error) {
	var admins []*model.Admin
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).Model(&model.Admin{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).
		Limit(pageSize).
		Order("id ASC").
		Find(&admins).Error

	return admins, total, err
}
