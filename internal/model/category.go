package model

import (
	"time"
)

// Category goods category
type Category struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;comment:category ID" json:"id"`
	Name       string    `gorm:"type:varchar(50);uniqueIndex;not null;comment:category name" json:"name"`
	Activation bool      `gorm:"not null;default:true;comment:whether selectable for new listings" json:"activation"`
	CreatedAt  time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;comment:creation time" json:"created_at"`
	UpdatedAt  time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP;comment:update time" json:"updated_at"`
}

// TableName set name
func (Category) TableName() string {
	return "categories"
}
