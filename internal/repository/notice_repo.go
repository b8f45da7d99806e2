package repository

import (
	"context"

	"gorm.io/gorm"

	"fleamarket/internal/model"
)

// NoticeRepository notice repository interface
type NoticeRepository interface {
	// Create notice
	Create(ctx context.Context, notice *model.Notice) error

	// List a user's notices, newest first
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Notice, int64, error)

	// Count a user's unread notices
	CountUnread(ctx context.Context, userID uint64) (int64, error)

	// Mark one notice read
	MarkRead(ctx context.Context, userID, noticeID uint64) error

	// Mark all of a user's notices read
	MarkAllRead(ctx context.Context, userID uint64) error

	// Delete a notice
	Delete(ctx context.Context, userID, noticeID uint64) error

	// Delete a batch of the user's notices
	DeleteMany(ctx context.Context, userID uint64, noticeIDs []uint64) error
}

// noticeRepository notice repository implementation
type noticeRepository struct {
	db *gorm.DB
}

// NewNoticeRepository creates a notice repository
func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

// Create creates a notice
func (r *noticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

// ListByUser lists a user's notices
func (r *noticeRepository) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Notice, int64, error) {
	var notices []*model.Notice
	var total int64

	offset := (page - 1) * pageSize

	db := r.db.WithContext(ctx).
		Model(&model.Notice{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&notices).Error

	return notices, total, err
}

// CountUnread counts a user's unread notices
func (r *noticeRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notice{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notice read
func (r *noticeRepository) MarkRead(ctx context.Context, userID, noticeID uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.Notice{}).
		Where("id = ? AND user_id = ?", noticeID, userID).
		Update("is_read", true).Error
}

// MarkAllRead marks all of a user's notices read
func (r *noticeRepository) MarkAllRead(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.Notice{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// Delete deletes a notice owned by the user
func (r *noticeRepository) Delete(ctx context.Context, userID, noticeID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", noticeID, userID).
		Delete(&model.Notice{}).Error
}

// DeleteMany deletes a batch of the user's notices
func (r *noticeRepository) DeleteMany(ctx context.Context, userID uint64, noticeIDs []uint64) error {
	if len(noticeIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", noticeIDs, userID).
		Delete(&model.Notice{}).Error
}
