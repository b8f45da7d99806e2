package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fleamarket/internal/model"
	"fleamarket/pkg/utils"
)

// ErrSaleConflict returned when a bulk sold transition touches fewer
// rows than requested, meaning at least one goods was no longer available
var ErrSaleConflict = errors.New("some goods already sold or removed")

// GoodsFilter optional listing filters
type GoodsFilter struct {
	Status     int8
	CategoryID uint64
	From       *time.Time
	To         *time.Time
}

// GoodsRepository goods repository interface
type GoodsRepository interface {
	// Create goods
	Create(ctx context.Context, goods *model.Goods) error

	// Get goods by ID
	GetByID(ctx context.Context, id uint64) (*model.Goods, error)

	// Get goods by IDs, preserving no particular order
	ListByIDs(ctx context.Context, ids []uint64) ([]*model.Goods, error)

	// Update goods
	Update(ctx context.Context, goods *model.Goods) error

	// Update goods status
	UpdateStatus(ctx context.Context, id uint64, status int8) error

	// Mark all given goods sold to the buyer (conditional bulk update)
	MarkSold(ctx context.Context, ids []uint64, buyerID uint64) error

	// Revert a sale, putting the buyer's goods back on sale
	RevertSale(ctx context.Context, ids []uint64, buyerID uint64) error

	// Delete goods
	Delete(ctx context.Context, id uint64) error

	// List goods with optional filters
	List(ctx context.Context, page, pageSize int, filter GoodsFilter) ([]*model.Goods, int64, error)

	// List goods of one seller
	ListBySeller(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.Goods, int64, error)

	// Search goods by keyword
	Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.Goods, int64, error)

	// List recent available goods for the recommend feed
	ListRecent(ctx context.Context, limit int) ([]*model.Goods, error)

	// Count goods per status grouped by category
	CountByCategory(ctx context.Context, categoryID uint64) (int64, error)
}

// goodsRepository goods repository implementation
type goodsRepository struct {
	db *gorm.DB
}

// NewGoodsRepository creates a goods repository
func NewGoodsRepository(db *gorm.DB) GoodsRepository {
	return &goodsRepository{db: db}
}

// Create creates goods
func (r *goodsRepository) Create(ctx context.Context, goods *model.Goods) error {
	return r.db.WithContext(ctx).Create(goods).Error
}

// GetByID gets goods by ID
func (r *goodsRepository) GetByID(ctx context.Context, id uint64) (*model.Goods, error) {
	var goods model.Goods
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Category").
		Where("id = ?", id).
		First(&goods).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrGoodsNotFound
		}
		return nil, err
	}
	return &goods, nil
}

// ListByIDs gets goods by IDs
func (r *goodsRepository) ListByIDs(ctx context.Context, ids []uint64) ([]*model.Goods, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var goods []*model.Goods
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&goods).Error
	return goods, err
}

// Update updates goods
func (r *goodsRepository) Update(ctx context.Context, goods *model.Goods) error {
	return r.db.WithContext(ctx).Save(goods).Error
}

// UpdateStatus updates goods status
func (r *goodsRepository) UpdateStatus(ctx context.Context, id uint64, status int8) error {
	return r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// MarkSold marks all given goods sold to the buyer in one statement.
// The status guard makes the transition conditional: a row that was
// already sold or removed is not touched, and a row count short of
// len(ids) reports ErrSaleConflict so the caller can abort.
func (r *goodsRepository) MarkSold(ctx context.Context, ids []uint64, buyerID uint64) error {
	if len(ids) == 0 {
		return nil
	}

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("id IN ? AND status = ?", ids, model.GoodsStatusAvailable).
		Updates(map[string]interface{}{
			"status":   model.GoodsStatusSold,
			"buyer_id": buyerID,
			"sold_at":  now,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected != int64(len(ids)) {
		return ErrSaleConflict
	}

	return nil
}

// RevertSale puts goods sold to the buyer back on sale. Only rows
// stamped with this buyer are reverted, so goods sold concurrently to
// someone else stay sold.
func (r *goodsRepository) RevertSale(ctx context.Context, ids []uint64, buyerID uint64) error {
	if len(ids) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("id IN ? AND status = ? AND buyer_id = ?", ids, model.GoodsStatusSold, buyerID).
		Updates(map[string]interface{}{
			"status":   model.GoodsStatusAvailable,
			"buyer_id": nil,
			"sold_at":  nil,
		}).Error
}

// Delete deletes goods
func (r *goodsRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Goods{}, id).Error
}

// List lists goods
func (r *goodsRepository) List(ctx context.Context, page, pageSize int, filter GoodsFilter) ([]*model.Goods, int64, error) {
	var goods []*model.Goods
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).Model(&model.Goods{})

	if filter.Status > 0 {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.CategoryID > 0 {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.From != nil {
		db = db.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("created_at <= ?", *filter.To)
	}

	// Get total count
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get list
	err := db.Preload("Seller").
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&goods).Error

	return goods, total, err
}

// ListBySeller lists goods of one seller
func (r *goodsRepository) ListBySeller(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.Goods, int64, error) {
	var goods []*model.Goods
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).Model(&model.Goods{}).Where("seller_id = ?", sellerID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&goods).Error

	return goods, total, err
}

// Search searches available goods by keyword
func (r *goodsRepository) Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.Goods, int64, error) {
	var goods []*model.Goods
	var total int64

	offset := (page - 1) * pageSize
	pattern := utils.BuildSearchPattern(keyword)

	db := r.db.WithContext(ctx).Model(&model.Goods{}).
		Where("status = ?", model.GoodsStatusAvailable).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Seller").
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&goods).Error

	return goods, total, err
}

// ListRecent lists the most recent available goods
func (r *goodsRepository) ListRecent(ctx context.Context, limit int) ([]*model.Goods, error) {
	var goods []*model.Goods
	err := r.db.WithContext(ctx).
		Where("status = ?", model.GoodsStatusAvailable).
		Order("created_at DESC").
		Limit(limit).
		Find(&goods).Error
	return goods, err
}

// CountByCategory counts goods in a category
func (r *goodsRepository) CountByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Goods{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
