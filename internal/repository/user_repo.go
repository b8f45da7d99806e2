package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fleamarket/internal/model"
	"fleamarket/pkg/utils"
)

// UserRepository user repository interface
type UserRepository interface {
	// Create user
	Create(ctx context.Context, user *model.User) error

	// Get user by ID
	GetByID(ctx context.Context, id uint64) (*model.User, error)

	// Get user by username
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// Update user
	Update(ctx context.Context, user *model.User) error

	// Update user status
	UpdateStatus(ctx context.Context, id uint64, status int8) error

	// Prepend purchases to the user's buying history
	PrependPurchases(ctx context.Context, userID uint64, goodsIDs []uint64) error

	// Remove purchases from the user's buying history
	RemovePurchases(ctx context.Context, userID uint64, goodsIDs []uint64) error

	// List the user's purchases, most recent first
	ListPurchases(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Purchase, int64, error)

	// List users
	List(ctx context.Context, page, pageSize int, status int8) ([]*model.User, int64, error)
}

// userRepository user repository implementation
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a user
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateStatus updates user status
func (r *userRepository) UpdateStatus(ctx context.Context, id uint64, status int8) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// PrependPurchases records purchases at the front of the user's buying
// history. Rows are inserted in reverse request order so that reading
// ORDER BY id DESC yields the goods in the order they were requested,
// newest batch first.
func (r *userRepository) PrependPurchases(ctx context.Context, userID uint64, goodsIDs []uint64) error {
	if len(goodsIDs) == 0 {
		return nil
	}

	purchases := make([]model.Purchase, 0, len(goodsIDs))
	for i := len(goodsIDs) - 1; i >= 0; i-- {
		purchases = append(purchases, model.Purchase{
			UserID:  userID,
			GoodsID: goodsIDs[i],
		})
	}

	return r.db.WithContext(ctx).Create(&purchases).Error
}

// RemovePurchases removes purchases from the user's buying history
func (r *userRepository) RemovePurchases(ctx context.Context, userID uint64, goodsIDs []uint64) error {
	if len(goodsIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Where("user_id = ? AND goods_id IN ?", userID, goodsIDs).
		Delete(&model.Purchase{}).Error
}

// ListPurchases lists the user's purchases, most recent first
func (r *userRepository) ListPurchases(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Purchase, int64, error) {
	var purchases []*model.Purchase
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).
		Limit(pageSize).
		Order("id DESC").
		Preload("Goods").
		Find(&purchases).Error

	return purchases, total, err
}

// List lists users
func (r *userRepository) List(ctx context.Context, page, pageSize int, status int8) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).Model(&model.User{})

	if status > 0 {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&users).Error

	return users, total, err
}
