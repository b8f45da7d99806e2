package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fleamarket/internal/model"
	"fleamarket/pkg/utils"
)

// DailyOrderStat order counts and turnover for one day
type DailyOrderStat struct {
	Date       string `json:"date"`
	OrderCount int64  `json:"order_count"`
	Turnover   int64  `json:"turnover"`
}

// OrderRepository order repository interface
type OrderRepository interface {
	// Create order together with its sub-orders and items
	Create(ctx context.Context, order *model.Order) error

	// Get order by ID
	GetByID(ctx context.Context, id uint64) (*model.Order, error)

	// Get order by order number
	GetByOrderNo(ctx context.Context, orderNo string) (*model.Order, error)

	// Get a sub-order with its items and parent order
	GetSubOrder(ctx context.Context, subOrderID uint64) (*model.SubOrder, error)

	// Update order status
	UpdateStatus(ctx context.Context, id uint64, status int8) error

	// Update sub-order status
	UpdateSubOrderStatus(ctx context.Context, subOrderID uint64, status int8) error

	// Delete an order aggregate
	Delete(ctx context.Context, id uint64) error

	// List orders of a buyer
	ListBuyerOrders(ctx context.Context, buyerID uint64, page, pageSize int) ([]*model.Order, int64, error)

	// List sub-orders of a seller
	ListSellerSubOrders(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.SubOrder, int64, error)

	// List all orders, optionally restricted to a creation date range
	ListAll(ctx context.Context, page, pageSize int, from, to *time.Time) ([]*model.Order, int64, error)

	// Daily order counts and turnover over a date range
	DailyStats(ctx context.Context, from, to time.Time) ([]*DailyOrderStat, error)
}

// orderRepository order repository implementation
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates an order with its sub-orders and items in one transaction
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subOrders := order.SubOrders
		order.SubOrders = nil

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range subOrders {
			items := subOrders[i].Items
			subOrders[i].Items = nil
			subOrders[i].OrderID = order.ID

			if err := tx.Create(&subOrders[i]).Error; err != nil {
				return err
			}

			for j := range items {
				items[j].SubOrderID = subOrders[i].ID
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return err
				}
			}
			subOrders[i].Items = items
		}

		order.SubOrders = subOrders
		return nil
	})
}

// GetByID gets an order by ID
func (r *orderRepository) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("SubOrders").
		Preload("SubOrders.Items").
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo gets an order by order number
func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("SubOrders").
		Preload("SubOrders.Items").
		Where("order_no = ?", orderNo).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetSubOrder gets a sub-order with its items
func (r *orderRepository) GetSubOrder(ctx context.Context, subOrderID uint64) (*model.SubOrder, error) {
	var sub model.SubOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", subOrderID).
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// UpdateStatus updates order status
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint64, status int8) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateSubOrderStatus updates sub-order status
func (r *orderRepository) UpdateSubOrderStatus(ctx context.Context, subOrderID uint64, status int8) error {
	return r.db.WithContext(ctx).
		Model(&model.SubOrder{}).
		Where("id = ?", subOrderID).
		Update("status", status).Error
}

// Delete deletes an order with its sub-orders and items
func (r *orderRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subIDs []uint64
		if err := tx.Model(&model.SubOrder{}).
			Where("order_id = ?", id).
			Pluck("id", &subIDs).Error; err != nil {
			return err
		}

		if len(subIDs) > 0 {
			if err := tx.Where("sub_order_id IN ?", subIDs).
				Delete(&model.SubOrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", id).
				Delete(&model.SubOrder{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.Order{}, id).Error
	})
}

// ListBuyerOrders lists orders of a buyer
func (r *orderRepository) ListBuyerOrders(ctx context.Context, buyerID uint64, page, pageSize int) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("buyer_id = ?", buyerID)

	// Get total count
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get list
	err := db.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Preload("SubOrders").
		Preload("SubOrders.Items").
		Find(&orders).Error

	return orders, total, err
}

// ListSellerSubOrders lists sub-orders of a seller
func (r *orderRepository) ListSellerSubOrders(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.SubOrder, int64, error) {
	var subs []*model.SubOrder
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).
		Model(&model.SubOrder{}).
		Where("seller_id = ?", sellerID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Preload("Items").
		Find(&subs).Error

	return subs, total, err
}

// ListAll lists all orders, optionally restricted to a creation date range
func (r *orderRepository) ListAll(ctx context.Context, page, pageSize int, from, to *time.Time) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).Model(&model.Order{})
	if from != nil {
		db = db.Where("created_at >= ?", *from)
	}
	if to != nil {
		db = db.Where("created_at <= ?", *to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Preload("SubOrders").
		Preload("SubOrders.Items").
		Find(&orders).Error

	return orders, total, err
}

// DailyStats aggregates order counts and turnover per day
func (r *orderRepository) DailyStats(ctx context.Context, from, to time.Time) ([]*DailyOrderStat, error) {
	var stats []*DailyOrderStat

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') AS date, COUNT(*) AS order_count, COALESCE(SUM(actual_price), 0) AS turnover").
		Where("created_at BETWEEN ? AND ?", from, to).
		Where("status <> ?", model.OrderStatusCancelled).
		Group("DATE_FORMAT(created_at, '%Y-%m-%d')").
		Order("date ASC").
		Scan(&stats).Error

	return stats, err
}
