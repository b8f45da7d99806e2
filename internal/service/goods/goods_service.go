package goods

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/allegro/bigcache/v3"

	"fleamarket/internal/model"
	"fleamarket/internal/monitor"
	"fleamarket/internal/repository"
	"fleamarket/pkg/log"
	"fleamarket/pkg/utils"
)

const recommendCacheKey = "goods:recommend"

// PublishGoodsRequest publish-goods request
type PublishGoodsRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Description *string  `json:"description"`
	CategoryID  *uint64  `json:"category_id"`
	Images      []string `json:"images"`
	Price       int64    `json:"price" binding:"required,positive"`
}

// UpdateGoodsRequest update-goods request
type UpdateGoodsRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=200"`
	Description *string  `json:"description"`
	CategoryID  *uint64  `json:"category_id"`
	Images      []string `json:"images"`
	Price       *int64   `json:"price" binding:"omitempty,positive"`
}

// GoodsService goods service interface
type GoodsService interface {
	// Publish puts new goods on sale
	Publish(ctx context.Context, sellerID uint64, req *PublishGoodsRequest) (*model.Goods, error)

	// Update edits goods owned by the seller
	Update(ctx context.Context, actorID, goodsID uint64, req *UpdateGoodsRequest) (*model.Goods, error)

	// Remove takes goods off sale
	Remove(ctx context.Context, actorID, goodsID uint64) error

	// Get goods detail
	Get(ctx context.Context, goodsID uint64) (*model.Goods, error)

	// List goods with optional filters
	List(ctx context.Context, page, pageSize int, filter repository.GoodsFilter) ([]*model.Goods, int64, error)

	// List goods of one seller
	ListBySeller(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.Goods, int64, error)

	// Search available goods by keyword
	Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.Goods, int64, error)

	// Recommend returns recent available goods, served from cache
	Recommend(ctx context.Context, limit int) ([]*model.Goods, error)
}

// goodsService goods service implementation
type goodsService struct {
	goodsRepo repository.GoodsRepository
	cache     *bigcache.BigCache
}

// NewGoodsService creates a goods service. cache may be nil, the
// recommend feed then always hits the database.
func NewGoodsService(goodsRepo repository.GoodsRepository, cache *bigcache.BigCache) GoodsService {
	return &goodsService{
		goodsRepo: goodsRepo,
		cache:     cache,
	}
}

// Publish puts new goods on sale
func (s *goodsService) Publish(ctx context.Context, sellerID uint64, req *PublishGoodsRequest) (*model.Goods, error) {
	goods := &model.Goods{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Price:       req.Price,
		SellerID:    sellerID,
		Status:      model.GoodsStatusAvailable,
	}

	if err := s.goodsRepo.Create(ctx, goods); err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to publish goods")
	}

	monitor.GoodsPublishedTotal.Inc()
	s.invalidateRecommend()

	log.WithFields(map[string]interface{}{
		"goods_id":  goods.ID,
		"seller_id": sellerID,
	}).Info("Goods published")

	return goods, nil
}

// Update edits goods owned by the seller
func (s *goodsService) Update(ctx context.Context, actorID, goodsID uint64, req *UpdateGoodsRequest) (*model.Goods, error) {
	goods, err := s.goodsRepo.GetByID(ctx, goodsID)
	if err != nil {
		return nil, err
	}
	if goods.SellerID != actorID {
		return nil, utils.ErrForbidden
	}
	if goods.IsSold() {
		return nil, utils.NewError(utils.CodeConflict, "sold goods cannot be edited")
	}

	if req.Name != nil {
		goods.Name = *req.Name
	}
	if req.Description != nil {
		goods.Description = req.Description
	}
	if req.CategoryID != nil {
		goods.CategoryID = req.CategoryID
	}
	if req.Images != nil {
		goods.Images = req.Images
	}
	if req.Price != nil {
		goods.Price = *req.Price
	}

	if err := s.goodsRepo.Update(ctx, goods); err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to update goods")
	}

	s.invalidateRecommend()
	return goods, nil
}

// Remove takes goods off sale
func (s *goodsService) Remove(ctx context.Context, actorID, goodsID uint64) error {
	goods, err := s.goodsRepo.GetByID(ctx, goodsID)
	if err != nil {
		return err
	}
	if goods.SellerID != actorID {
		return utils.ErrForbidden
	}
	if goods.IsSold() {
		return utils.NewError(utils.CodeConflict, "sold goods cannot be removed")
	}

	if err := s.goodsRepo.UpdateStatus(ctx, goodsID, model.GoodsStatusRemoved); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to remove goods")
	}

	s.invalidateRecommend()
	return nil
}

// Get gets goods detail
func (s *goodsService) Get(ctx context.Context, goodsID uint64) (*model.Goods, error) {
	return s.goodsRepo.GetByID(ctx, goodsID)
}

// List lists goods
func (s *goodsService) List(ctx context.Context, page, pageSize int, filter repository.GoodsFilter) ([]*model.Goods, int64, error) {
	return s.goodsRepo.List(ctx, page, pageSize, filter)
}

// ListBySeller lists goods of one seller
func (s *goodsService) ListBySeller(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.Goods, int64, error) {
	return s.goodsRepo.ListBySeller(ctx, sellerID, page, pageSize)
}

// Search searches available goods by keyword
func (s *goodsService) Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.Goods, int64, error) {
	return s.goodsRepo.Search(ctx, keyword, page, pageSize)
}

// Recommend returns recent available goods. The list is served from the
// in-process cache and refreshed from the database on a miss.
func (s *goodsService) Recommend(ctx context.Context, limit int) ([]*model.Goods, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(recommendCacheKey); err == nil {
			var goods []*model.Goods
			if err := json.Unmarshal(data, &goods); err == nil {
				if len(goods) > limit {
					goods = goods[:limit]
				}
				return goods, nil
			}
		} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
			log.WithError(err).Warn("Recommend cache read failed")
		}
	}

	goods, err := s.goodsRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to load recommend feed")
	}

	if s.cache != nil {
		if data, err := json.Marshal(goods); err == nil {
			if err := s.cache.Set(recommendCacheKey, data); err != nil {
				log.WithError(err).Warn("Recommend cache write failed")
			}
		}
	}

	return goods, nil
}

// invalidateRecommend drops the cached recommend feed
func (s *goodsService) invalidateRecommend() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(recommendCacheKey); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		log.WithError(err).Warn("Recommend cache invalidation failed")
	}
}
