package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Admin a back-office operator account
type Admin struct {
	ID          uint64      `gorm:"primaryKey;autoIncrement;comment:admin ID" json:"id"`
	Username    string      `gorm:"type:varchar(50);uniqueIndex;not null;comment:username" json:"username"`
	Nickname    *string     `gorm:"type:varchar(50);comment:nickname" json:"nickname,omitempty"`
	Permissions Permissions `gorm:"type:json;comment:permission set" json:"permissions"`
	Status      int8        `gorm:"type:tinyint;not null;default:1;comment:status: 1-active 2-disabled" json:"status"`
	CreatedAt   time.Time   `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;comment:creation time" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP;comment:update time" json:"updated_at"`
}

// TableName set name
func (Admin) TableName() string {
	return "admins"
}

// AdminStatus admin status const
const (
	AdminStatusActive   = 1
	AdminStatusDisabled = 2
)

// Permission name const
const (
	PermGoodsReview    = "goods:review"
	PermUserManage     = "user:manage"
	PermCategoryManage = "category:manage"
	PermStatsView      = "stats:view"
)

// Permissions permission name to enabled flag
type Permissions map[string]bool

// Has reports whether the permission is granted
func (p Permissions) Has(name string) bool {
	return p[name]
}

// Value implement driver.Valuer interface
func (p Permissions) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implement sql.Scanner interface
func (p *Permissions) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Permissions", value)
	}

	return json.Unmarshal(bytes, p)
}
