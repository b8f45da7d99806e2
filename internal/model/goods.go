package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Goods a single marketplace listing
type Goods struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement;comment:goods ID" json:"id"`
	Name        string     `gorm:"type:varchar(200);not null;comment:goods name" json:"name"`
	Description *string    `gorm:"type:text;comment:description" json:"description,omitempty"`
	CategoryID  *uint64    `gorm:"type:bigint unsigned;index;comment:category ID" json:"category_id,omitempty"`
	Images      JSONArray  `gorm:"type:json;comment:image URLs" json:"images,omitempty"`
	Price       int64      `gorm:"type:bigint;not null;comment:price in cents" json:"price"`
	SellerID    uint64     `gorm:"type:bigint unsigned;not null;index;comment:seller ID" json:"seller_id"`
	BuyerID     *uint64    `gorm:"type:bigint unsigned;index;comment:buyer ID, set at sale" json:"buyer_id,omitempty"`
	Status      int8       `gorm:"type:tinyint;not null;default:1;index;comment:status: 1-available 2-sold 3-removed" json:"status"`
	SoldAt      *time.Time `gorm:"type:timestamp;comment:sale time" json:"sold_at,omitempty"`
	CreatedAt   time.Time  `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index;comment:creation time" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP;comment:update time" json:"updated_at"`

	Seller   *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName set name
func (Goods) TableName() string {
	return "goods"
}

// GoodsStatus goods status const
const (
	GoodsStatusAvailable = 1
	GoodsStatusSold      = 2
	GoodsStatusRemoved   = 3
)

// JSONArray custom json array type
type JSONArray []string

// Value implement driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implement sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONArray", value)
	}

	return json.Unmarshal(bytes, j)
}

// IsAvailable check if goods can still be bought
func (g *Goods) IsAvailable() bool {
	return g.Status == GoodsStatusAvailable
}

// IsSold check if goods has been sold
func (g *Goods) IsSold() bool {
	return g.Status == GoodsStatusSold
}

// IsRemoved check if goods has been delisted
func (g *Goods) IsRemoved() bool {
	return g.Status == GoodsStatusRemoved
}

// GetPriceYuan get price in yuan
func (g *Goods) GetPriceYuan() float64 {
	return float64(g.Price) / 100
}
