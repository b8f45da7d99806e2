package goods

import (
	"context"
	"testing"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fleamarket/internal/model"
	"fleamarket/internal/repository"
	"fleamarket/pkg/utils"
)

// MockGoodsRepository is a mock implementation of repository.GoodsRepository
type MockGoodsRepository struct {
	mock.Mock
}

func (m *MockGoodsRepository) Create(ctx context.Context, goods *model.Goods) error {
	args := m.Called(ctx, goods)
	return args.Error(0)
}

func (m *MockGoodsRepository) GetByID(ctx context.Context, id uint64) (*model.Goods, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goods), args.Error(1)
}

func (m *MockGoodsRepository) ListByIDs(ctx context.Context, ids []uint64) ([]*model.Goods, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Goods), args.Error(1)
}

func (m *MockGoodsRepository) Update(ctx context.Context, goods *model.Goods) error {
	args := m.Called(ctx, goods)
	return args.Error(0)
}

func (m *MockGoodsRepository) UpdateStatus(ctx context.Context, id uint64, status int8) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockGoodsRepository) MarkSold(ctx context.Context, ids []uint64, buyerID uint64) error {
	args := m.Called(ctx, ids, buyerID)
	return args.Error(0)
}

func (m *MockGoodsRepository) RevertSale(ctx context.Context, ids []uint64, buyerID uint64) error {
	args := m.Called(ctx, ids, buyerID)
	return args.Error(0)
}

func (m *MockGoodsRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGoodsRepository) List(ctx context.Context, page, pageSize int, filter repository.GoodsFilter) ([]*model.Goods, int64, error) {
	args := m.Called(ctx, page, pageSize, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Goods), args.Get(1).(int64), args.Error(2)
}

func (m *MockGoodsRepository) ListBySeller(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.Goods, int64, error) {
	args := m.Called(ctx, sellerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Goods), args.Get(1).(int64), args.Error(2)
}

func (m *MockGoodsRepository) Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.Goods, int64, error) {
	args := m.Called(ctx, keyword, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Goods), args.Get(1).(int64), args.Error(2)
}

func (m *MockGoodsRepository) ListRecent(ctx context.Context, limit int) ([]*model.Goods, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Goods), args.Error(1)
}

func (m *MockGoodsRepository) CountByCategory(ctx context.Context, categoryID uint64) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestCache(t *testing.T) *bigcache.BigCache {
	t.Helper()
	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(time.Minute))
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return cache
}

func TestGoodsService_Publish(t *testing.T) {
	repo := new(MockGoodsRepository)
	svc := NewGoodsService(repo, nil)

	repo.On("Create", mock.MatchedBy(func(ctx context.Context) bool { return true }),
		mock.MatchedBy(func(g *model.Goods) bool {
			return g.SellerID == 10 && g.Status == model.GoodsStatusAvailable && g.Price == 2500
		})).Return(nil)

	g, err := svc.Publish(context.Background(), 10, &PublishGoodsRequest{
		Name:  "Used bike",
		Price: 2500,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Used bike", g.Name)
	repo.AssertExpectations(t)
}

func TestGoodsService_UpdateByNonOwner(t *testing.T) {
	repo := new(MockGoodsRepository)
	svc := NewGoodsService(repo, nil)

	repo.On("GetByID", mock.Anything, uint64(1)).Return(&model.Goods{
		ID:       1,
		SellerID: 10,
		Status:   model.GoodsStatusAvailable,
	}, nil)

	name := "renamed"
	_, err := svc.Update(context.Background(), 99, 1, &UpdateGoodsRequest{Name: &name})
	assert.Equal(t, utils.ErrForbidden, err)
	repo.AssertNotCalled(t, "Update")
}

func TestGoodsService_RemoveSoldGoods(t *testing.T) {
	repo := new(MockGoodsRepository)
	svc := NewGoodsService(repo, nil)

	repo.On("GetByID", mock.Anything, uint64(1)).Return(&model.Goods{
		ID:       1,
		SellerID: 10,
		Status:   model.GoodsStatusSold,
	}, nil)

	err := svc.Remove(context.Background(), 10, 1)
	assert.Equal(t, utils.CodeConflict, utils.GetErrorCode(err))
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestGoodsService_RecommendCaching(t *testing.T) {
	repo := new(MockGoodsRepository)
	svc := NewGoodsService(repo, newTestCache(t))

	recent := []*model.Goods{
		{ID: 2, Name: "Lamp", SellerID: 11, Status: model.GoodsStatusAvailable},
		{ID: 1, Name: "Used bike", SellerID: 10, Status: model.GoodsStatusAvailable},
	}
	repo.On("ListRecent", mock.Anything, 20).Return(recent, nil).Once()

	// first call misses the cache and hits the repository
	got, err := svc.Recommend(context.Background(), 20)
	assert.NoError(t, err)
	assert.Len(t, got, 2)

	// second call is served from cache, a smaller limit trims the list
	got, err = svc.Recommend(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].ID)

	repo.AssertNumberOfCalls(t, "ListRecent", 1)
}

func TestGoodsService_PublishInvalidatesRecommend(t *testing.T) {
	repo := new(MockGoodsRepository)
	svc := NewGoodsService(repo, newTestCache(t))

	recent := []*model.Goods{{ID: 1, Name: "Used bike", SellerID: 10}}
	repo.On("ListRecent", mock.Anything, 20).Return(recent, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Recommend(context.Background(), 20)
	assert.NoError(t, err)

	_, err = svc.Publish(context.Background(), 10, &PublishGoodsRequest{Name: "Lamp", Price: 100})
	assert.NoError(t, err)

	_, err = svc.Recommend(context.Background(), 20)
	assert.NoError(t, err)

	// cache was dropped on publish, so the repository is hit twice
	repo.AssertNumberOfCalls(t, "ListRecent", 2)
}
