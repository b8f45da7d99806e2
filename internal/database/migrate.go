package database

import (
	"fmt"

	"gorm.io/gorm"

	"fleamarket/internal/model"
	"fleamarket/pkg/log"
)

// AutoMigrate auto migrate database table schema
func AutoMigrate(db *gorm.DB) error {
	log.Info("Starting database migration...")

	models := []interface{}{
		&model.User{},
		&model.Purchase{},
		&model.Category{},
		&model.Goods{},
		&model.Order{},
		&model.SubOrder{},
		&model.SubOrderItem{},
		&model.Notice{},
		&model.Contact{},
		&model.ChatMessage{},
		&model.Admin{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
		log.Infof("Migrated model: %T", m)
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes create additional indexes
func CreateIndexes(db *gorm.DB) error {
	log.Info("Creating additional indexes...")

	indexes := []struct {
		table string
		name  string
		sql   string
	}{
		{
			table: "goods",
			name:  "idx_goods_status_created",
			sql:   "CREATE INDEX IF NOT EXISTS idx_goods_status_created ON goods (status, created_at)",
		},
		{
			table: "orders",
			name:  "idx_orders_buyer_status",
			sql:   "CREATE INDEX IF NOT EXISTS idx_orders_buyer_status ON orders (buyer_id, status, created_at)",
		},
		{
			table: "sub_orders",
			name:  "idx_sub_orders_seller_status",
			sql:   "CREATE INDEX IF NOT EXISTS idx_sub_orders_seller_status ON sub_orders (seller_id, status, created_at)",
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			log.Warnf("Failed to create index %s on table %s: %v", idx.name, idx.table, err)
		} else {
			log.Infof("Created index: %s on table %s", idx.name, idx.table)
		}
	}

	log.Info("Index creation completed")
	return nil
}
