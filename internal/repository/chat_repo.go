package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fleamarket/internal/model"
)

// ChatRepository chat repository interface
type ChatRepository interface {
	// Create a contact relation
	CreateContact(ctx context.Context, contact *model.Contact) error

	// Get the contact relation between two users
	GetContact(ctx context.Context, userID, peerID uint64) (*model.Contact, error)

	// List a user's contacts
	ListContacts(ctx context.Context, userID uint64) ([]*model.Contact, error)

	// Delete a contact relation
	DeleteContact(ctx context.Context, userID, peerID uint64) error

	// Save a chat message
	CreateMessage(ctx context.Context, msg *model.ChatMessage) error

	// List messages between two users, oldest first
	ListMessages(ctx context.Context, userID, peerID uint64, page, pageSize int) ([]*model.ChatMessage, int64, error)

	// Mark messages from peer read
	MarkMessagesRead(ctx context.Context, userID, peerID uint64) error

	// Count unread messages addressed to the user
	CountUnread(ctx context.Context, userID uint64) (int64, error)
}

// chatRepository chat repository implementation
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// CreateContact creates a contact relation
func (r *chatRepository) CreateContact(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// GetContact gets the contact relation between two users
func (r *chatRepository) GetContact(ctx context.Context, userID, peerID uint64) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND peer_id = ?", userID, peerID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// ListContacts lists a user's contacts
func (r *chatRepository) ListContacts(ctx context.Context, userID uint64) ([]*model.Contact, error) {
	var contacts []*model.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Preload("Peer").
		Find(&contacts).Error
	return contacts, err
}

// DeleteContact deletes a contact relation
func (r *chatRepository) DeleteContact(ctx context.Context, userID, peerID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND peer_id = ?", userID, peerID).
		Delete(&model.Contact{}).Error
}

// CreateMessage saves a chat message
func (r *chatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages lists messages between two users
func (r *chatRepository) ListMessages(ctx context.Context, userID, peerID uint64, page, pageSize int) ([]*model.ChatMessage, int64, error) {
	var messages []*model.ChatMessage
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, peerID, peerID, userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).
		Limit(pageSize).
		Order("created_at ASC").
		Find(&messages).Error

	return messages, total, err
}

// MarkMessagesRead marks messages from peer read
func (r *chatRepository) MarkMessagesRead(ctx context.Context, userID, peerID uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", userID, peerID, false).
		Update("is_read", true).Error
}

// CountUnread counts unread messages addressed to the user
func (r *chatRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
