package notice

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleamarket/internal/model"
	"fleamarket/internal/repository"
	"fleamarket/pkg/log"
	"fleamarket/pkg/utils"
)

// NoticeService notice service interface
type NoticeService interface {
	// Create a notice for a user
	Create(ctx context.Context, notice *model.Notice) error

	// List a user's notices
	List(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Notice, int64, error)

	// Count a user's unread notices, served from a cached counter
	UnreadCount(ctx context.Context, userID uint64) (int64, error)

	// Mark one notice read
	MarkRead(ctx context.Context, userID, noticeID uint64) error

	// Mark all of a user's notices read
	MarkAllRead(ctx context.Context, userID uint64) error

	// Delete a notice
	Delete(ctx context.Context, userID, noticeID uint64) error

	// Delete a batch of the user's notices
	DeleteMany(ctx context.Context, userID uint64, noticeIDs []uint64) error
}

// noticeService notice service implementation
type noticeService struct {
	noticeRepo repository.NoticeRepository
	rdb        *redis.Client
	countTTL   time.Duration
}

// NewNoticeService creates a notice service. rdb may be nil, unread
// counts then always hit the database.
func NewNoticeService(noticeRepo repository.NoticeRepository, rdb *redis.Client, countTTL time.Duration) NoticeService {
	return &noticeService{
		noticeRepo: noticeRepo,
		rdb:        rdb,
		countTTL:   countTTL,
	}
}

func unreadCountKey(userID uint64) string {
	return fmt.Sprintf("notice:unread:%d", userID)
}

// Create creates a notice and invalidates the recipient's unread
// counter. Incrementing would seed a missing key at 1 and under-report
// until the next invalidation, so the counter is dropped instead and
// the next read refills it from the database.
func (s *noticeService) Create(ctx context.Context, notice *model.Notice) error {
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to create notice")
	}

	s.dropCounter(ctx, notice.UserID)
	return nil
}

// List lists a user's notices
func (s *noticeService) List(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Notice, int64, error) {
	return s.noticeRepo.ListByUser(ctx, userID, page, pageSize)
}

// UnreadCount counts unread notices, preferring the cached counter
func (s *noticeService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	if s.rdb != nil {
		count, err := s.rdb.Get(ctx, unreadCountKey(userID)).Int64()
		if err == nil {
			return count, nil
		}
		if err != redis.Nil {
			log.WithError(err).Warn("Unread counter read failed")
		}
	}

	count, err := s.noticeRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, utils.WrapError(err, utils.CodeDatabaseError, "failed to count unread notices")
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, unreadCountKey(userID), count, s.countTTL).Err(); err != nil {
			log.WithError(err).Warn("Unread counter write failed")
		}
	}

	return count, nil
}

// MarkRead marks one notice read
func (s *noticeService) MarkRead(ctx context.Context, userID, noticeID uint64) error {
	if err := s.noticeRepo.MarkRead(ctx, userID, noticeID); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to mark notice read")
	}
	s.dropCounter(ctx, userID)
	return nil
}

// MarkAllRead marks all of a user's notices read
func (s *noticeService) MarkAllRead(ctx context.Context, userID uint64) error {
	if err := s.noticeRepo.MarkAllRead(ctx, userID); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to mark notices read")
	}
	s.dropCounter(ctx, userID)
	return nil
}

// Delete deletes a notice
func (s *noticeService) Delete(ctx context.Context, userID, noticeID uint64) error {
	if err := s.noticeRepo.Delete(ctx, userID, noticeID); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to delete notice")
	}
	s.dropCounter(ctx, userID)
	return nil
}

// DeleteMany deletes a batch of the user's notices
func (s *noticeService) DeleteMany(ctx context.Context, userID uint64, noticeIDs []uint64) error {
	if err := s.noticeRepo.DeleteMany(ctx, userID, noticeIDs); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to delete notices")
	}
	s.dropCounter(ctx, userID)
	return nil
}

// dropCounter invalidates the cached unread counter
func (s *noticeService) dropCounter(ctx context.Context, userID uint64) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, unreadCountKey(userID)).Err(); err != nil {
		log.WithError(err).Warn("Unread counter invalidation failed")
	}
}
