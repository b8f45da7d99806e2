package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order an order aggregate; items are partitioned into one SubOrder per seller
type Order struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement;comment:order ID" json:"id"`
	OrderNo     string    `gorm:"type:varchar(32);uniqueIndex;not null;comment:order number" json:"order_no"`
	BuyerID     uint64    `gorm:"type:bigint unsigned;not null;index;comment:buyer ID" json:"buyer_id"`
	Payment     string    `gorm:"type:varchar(20);not null;comment:payment method" json:"payment"`
	Address     JSONMap   `gorm:"type:json;comment:shipping address" json:"address"`
	TotalPrice  int64     `gorm:"type:bigint;not null;comment:total price in cents" json:"total_price"`
	ActualPrice int64     `gorm:"type:bigint;not null;comment:actual price in cents" json:"actual_price"`
	Status      int8      `gorm:"type:tinyint;not null;default:1;index;comment:status: 1-in progress 2-completed 3-shipping 4-cancelled" json:"status"`
	CreatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index;comment:creation time" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP;comment:update time" json:"updated_at"`

	Buyer     *User      `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	SubOrders []SubOrder `gorm:"foreignKey:OrderID" json:"sub_orders,omitempty"`
}

// TableName set name
func (Order) TableName() string {
	return "orders"
}

// SubOrder the portion of an order belonging to one seller
type SubOrder struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement;comment:sub-order ID" json:"id"`
	OrderID        uint64    `gorm:"type:bigint unsigned;not null;index;comment:parent order ID" json:"order_id"`
	SellerID       uint64    `gorm:"type:bigint unsigned;not null;index;comment:seller ID" json:"seller_id"`
	TotalPrice     int64     `gorm:"type:bigint;not null;comment:total price in cents" json:"total_price"`
	ActualPrice    int64     `gorm:"type:bigint;not null;comment:actual price in cents" json:"actual_price"`
	DeliveryCharge int64     `gorm:"type:bigint;not null;default:0;comment:delivery charge in cents" json:"delivery_charge"`
	Status         int8      `gorm:"type:tinyint;not null;default:1;index;comment:status: 1-in progress 2-completed 3-shipping 4-cancelled" json:"status"`
	CreatedAt      time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;comment:creation time" json:"created_at"`
	UpdatedAt      time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP;comment:update time" json:"updated_at"`

	Items []SubOrderItem `gorm:"foreignKey:SubOrderID" json:"items,omitempty"`
}

// TableName set name
func (SubOrder) TableName() string {
	return "sub_orders"
}

// SubOrderItem one purchased goods inside a sub-order
type SubOrderItem struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;comment:item ID" json:"id"`
	SubOrderID uint64    `gorm:"type:bigint unsigned;not null;index;comment:sub-order ID" json:"sub_order_id"`
	GoodsID    uint64    `gorm:"type:bigint unsigned;not null;index;comment:goods ID" json:"goods_id"`
	GoodsName  string    `gorm:"type:varchar(200);not null;comment:goods name snapshot" json:"goods_name"`
	Price      int64     `gorm:"type:bigint;not null;comment:price snapshot in cents" json:"price"`
	Amount     int       `gorm:"type:int;not null;default:1;comment:amount" json:"amount"`
	Note       *string   `gorm:"type:varchar(100);comment:buyer note" json:"note,omitempty"`
	CreatedAt  time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;comment:creation time" json:"created_at"`
}

// TableName set name
func (SubOrderItem) TableName() string {
	return "sub_order_items"
}

// OrderStatus order and sub-order status const
const (
	OrderStatusInProgress = 1
	OrderStatusCompleted  = 2
	OrderStatusShipping   = 3
	OrderStatusCancelled  = 4
)

// PaymentMethod payment method const
const (
	PaymentMethodWechat  = "wechat"
	PaymentMethodAlipay  = "alipay"
	PaymentMethodOffline = "offline"
)

// SubOrder finds a sub-order of this order by ID
func (o *Order) SubOrder(subOrderID uint64) *SubOrder {
	for i := range o.SubOrders {
		if o.SubOrders[i].ID == subOrderID {
			return &o.SubOrders[i]
		}
	}
	return nil
}

// HasGoods check the sub-order contains the goods
func (s *SubOrder) HasGoods(goodsID uint64) bool {
	for _, item := range s.Items {
		if item.GoodsID == goodsID {
			return true
		}
	}
	return false
}

// JSONMap custom json object type
type JSONMap map[string]interface{}

// Value implement driver.Valuer interface
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implement sql.Scanner interface
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	return json.Unmarshal(bytes, j)
}
