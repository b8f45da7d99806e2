package model

import (
	"time"
)

// User model
type User struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement;comment:user ID" json:"id"`
	Username    string     `gorm:"type:varchar(50);uniqueIndex;not null;comment:login name" json:"username"`
	Nickname    *string    `gorm:"type:varchar(50);comment:display name" json:"nickname,omitempty"`
	AvatarURL   *string    `gorm:"type:varchar(255);comment:avatar URL" json:"avatar_url,omitempty"`
	School      *string    `gorm:"type:varchar(100);index;comment:campus" json:"school,omitempty"`
	Phone       *string    `gorm:"type:varchar(20);comment:phone number" json:"phone,omitempty"`
	CreditValue int        `gorm:"type:int;not null;default:100;comment:credit score" json:"credit_value"`
	ShareValue  int        `gorm:"type:int;not null;default:0;comment:share score" json:"share_value"`
	Status      int8       `gorm:"type:tinyint;not null;default:1;index;comment:status: 1-active 2-blocked 3-deleted" json:"status"`
	LastLoginAt *time.Time `gorm:"type:timestamp;comment:last login time" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index;comment:creation time" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP;comment:update time" json:"updated_at"`
}

// TableName set name
func (User) TableName() string {
	return "users"
}

// UserStatus user status const
const (
	UserStatusActive  = 1
	UserStatusBlocked = 2
	UserStatusDeleted = 3
)

// IsActive check if user is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsBlocked check if user is blocked
func (u *User) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}

// Purchase is one entry of a user's purchased-goods history. Rows are
// inserted so that ORDER BY id DESC yields most-recent purchase first.
type Purchase struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;comment:purchase ID" json:"id"`
	UserID    uint64    `gorm:"type:bigint unsigned;not null;index:idx_purchases_user_goods;comment:buyer ID" json:"user_id"`
	GoodsID   uint64    `gorm:"type:bigint unsigned;not null;index:idx_purchases_user_goods;comment:goods ID" json:"goods_id"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;comment:creation time" json:"created_at"`

	Goods *Goods `gorm:"foreignKey:GoodsID" json:"goods,omitempty"`
}

// TableName set name
func (Purchase) TableName() string {
	return "purchases"
}
