package model

import "time"

// Contact a chat relation between two users, created when a buyer
// first messages a seller about goods
type Contact struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;comment:contact ID" json:"id"`
	UserID    uint64    `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_contacts_pair;comment:owner user ID" json:"user_id"`
	PeerID    uint64    `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_contacts_pair;comment:peer user ID" json:"peer_id"`
	GoodsID   *uint64   `gorm:"type:bigint unsigned;comment:goods the chat started from" json:"goods_id,omitempty"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;comment:creation time" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP;comment:update time" json:"updated_at"`

	Peer *User `gorm:"foreignKey:PeerID" json:"peer,omitempty"`
}

// TableName set name
func (Contact) TableName() string {
	return "contacts"
}

// ChatMessage one message between two users
type ChatMessage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;comment:message ID" json:"id"`
	SenderID   uint64    `gorm:"type:bigint unsigned;not null;index:idx_chat_pair;comment:sender user ID" json:"sender_id"`
	ReceiverID uint64    `gorm:"type:bigint unsigned;not null;index:idx_chat_pair;comment:receiver user ID" json:"receiver_id"`
	Content    string    `gorm:"type:varchar(1000);not null;comment:content" json:"content"`
	IsRead     bool      `gorm:"type:tinyint(1);not null;default:0;comment:read flag" json:"is_read"`
	CreatedAt  time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index;comment:creation time" json:"created_at"`
}

// TableName set name
func (ChatMessage) TableName() string {
	return "chat_messages"
}
