package notice

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fleamarket/internal/model"
)

func setupRedis(t *testing.T) *redis.Client {
	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		s.Close()
	})

	return client
}

// MockNoticeRepository is a mock implementation of repository.NoticeRepository
type MockNoticeRepository struct {
	mock.Mock
}

func (m *MockNoticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNoticeRepository) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]*model.Notice, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Notice), args.Get(1).(int64), args.Error(2)
}

func (m *MockNoticeRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNoticeRepository) MarkRead(ctx context.Context, userID, noticeID uint64) error {
	args := m.Called(ctx, userID, noticeID)
	return args.Error(0)
}

func (m *MockNoticeRepository) MarkAllRead(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNoticeRepository) Delete(ctx context.Context, userID, noticeID uint64) error {
	args := m.Called(ctx, userID, noticeID)
	return args.Error(0)
}

func (m *MockNoticeRepository) DeleteMany(ctx context.Context, userID uint64, noticeIDs []uint64) error {
	args := m.Called(ctx, userID, noticeIDs)
	return args.Error(0)
}

func TestNoticeService_Create(t *testing.T) {
	repo := new(MockNoticeRepository)
	svc := NewNoticeService(repo, nil, time.Minute)

	n := &model.Notice{UserID: 10, Type: model.NoticeTypeSale, Title: "Your goods were sold"}
	repo.On("Create", mock.Anything, n).Return(nil)

	err := svc.Create(context.Background(), n)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// A notice arriving after the counter key expired must not seed the
// counter from zero; the next read has to refill it from the database.
func TestNoticeService_CreateAfterCounterExpiry(t *testing.T) {
	repo := new(MockNoticeRepository)
	rdb := setupRedis(t)
	svc := NewNoticeService(repo, rdb, time.Minute)

	ctx := context.Background()

	// 5 unread notices, counter key already expired
	n := &model.Notice{UserID: 10, Type: model.NoticeTypeSale, Title: "Your goods were sold"}
	repo.On("Create", mock.Anything, n).Return(nil)
	repo.On("CountUnread", mock.Anything, uint64(10)).Return(int64(6), nil)

	err := svc.Create(ctx, n)
	assert.NoError(t, err)

	count, err := svc.UnreadCount(ctx, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(6), count)
	repo.AssertExpectations(t)
}

func TestNoticeService_CreateDropsCachedCounter(t *testing.T) {
	repo := new(MockNoticeRepository)
	rdb := setupRedis(t)
	svc := NewNoticeService(repo, rdb, time.Minute)

	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, unreadCountKey(10), 5, time.Minute).Err())

	n := &model.Notice{UserID: 10, Type: model.NoticeTypeSale, Title: "Your goods were sold"}
	repo.On("Create", mock.Anything, n).Return(nil)

	err := svc.Create(ctx, n)
	assert.NoError(t, err)

	exists, err := rdb.Exists(ctx, unreadCountKey(10)).Result()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), exists, "stale counter should be invalidated")
}

func TestNoticeService_UnreadCountWithoutRedis(t *testing.T) {
	repo := new(MockNoticeRepository)
	svc := NewNoticeService(repo, nil, time.Minute)

	repo.On("CountUnread", mock.Anything, uint64(10)).Return(int64(3), nil)

	count, err := svc.UnreadCount(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	repo.AssertExpectations(t)
}

func TestNoticeService_MarkRead(t *testing.T) {
	repo := new(MockNoticeRepository)
	svc := NewNoticeService(repo, nil, time.Minute)

	repo.On("MarkRead", mock.Anything, uint64(10), uint64(5)).Return(nil)

	err := svc.MarkRead(context.Background(), 10, 5)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
