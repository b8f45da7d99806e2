package model

import "time"

// Notice a notification pushed to a user, such as a sale notice
// telling a seller one of their goods has been bought
type Notice struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;comment:notice ID" json:"id"`
	UserID    uint64    `gorm:"type:bigint unsigned;not null;index:idx_notices_user_read;comment:recipient user ID" json:"user_id"`
	Type      int8      `gorm:"type:tinyint;not null;comment:type: 1-system 2-sale 3-chat" json:"type"`
	Title     string    `gorm:"type:varchar(100);not null;comment:title" json:"title"`
	Content   string    `gorm:"type:varchar(500);not null;comment:content" json:"content"`
	GoodsID   *uint64   `gorm:"type:bigint unsigned;comment:related goods ID" json:"goods_id,omitempty"`
	OrderNo   *string   `gorm:"type:varchar(32);comment:related order number" json:"order_no,omitempty"`
	IsRead    bool      `gorm:"type:tinyint(1);not null;default:0;index:idx_notices_user_read;comment:read flag" json:"is_read"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;comment:creation time" json:"created_at"`
}

// TableName set name
func (Notice) TableName() string {
	return "notices"
}

// NoticeType notice type const
const (
	NoticeTypeSystem = 1
	NoticeTypeSale   = 2
	NoticeTypeChat   = 3
)
