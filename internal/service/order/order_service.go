package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fleamarket/internal/model"
	"fleamarket/internal/monitor"
	"fleamarket/internal/repository"
	"fleamarket/pkg/log"
	"fleamarket/pkg/queue"
	"fleamarket/pkg/saga"
	"fleamarket/pkg/snowflake"
	"fleamarket/pkg/utils"
)

// PlaceOrderItem one goods selection in a place-order request. Seller,
// name and amount come from the client's cart snapshot and are checked
// against the goods rows before anything is written.
type PlaceOrderItem struct {
	GoodsID  uint64  `json:"goods_id" binding:"required"`
	SellerID uint64  `json:"seller_id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Amount   int     `json:"amount" binding:"required,min=1"`
	Note     *string `json:"note"`
}

// PlaceOrderRequest place-order request
type PlaceOrderRequest struct {
	Payment     string           `json:"payment" binding:"required,oneof=wechat alipay offline"`
	Address     model.JSONMap    `json:"address" binding:"required"`
	TotalPrice  int64            `json:"total_price" binding:"required,positive"`
	ActualPrice int64            `json:"actual_price" binding:"required,positive"`
	Items       []PlaceOrderItem `json:"items" binding:"required,min=1,dive"`
}

// CancelOrderRequest identifies the sub-order to cancel and the goods
// to put back on sale
type CancelOrderRequest struct {
	SubOrderID uint64   `json:"sub_order_id" binding:"required"`
	GoodsIDs   []uint64 `json:"goods_ids" binding:"required,min=1"`
}

// OrderService order service interface
type OrderService interface {
	// Place an order for the buyer's selected goods
	PlaceOrder(ctx context.Context, buyerID uint64, req *PlaceOrderRequest) (*model.Order, error)

	// Cancel one sub-order of an order and free its goods
	CancelOrder(ctx context.Context, actorID, orderID, subOrderID uint64, goodsIDs []uint64) error

	// Get order by ID, restricted to the buyer
	GetOrder(ctx context.Context, actorID, orderID uint64) (*model.Order, error)

	// List orders of a buyer
	ListBuyerOrders(ctx context.Context, buyerID uint64, page, pageSize int) ([]*model.Order, int64, error)

	// List sub-orders of a seller
	ListSellerSubOrders(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.SubOrder, int64, error)

	// Update a seller's sub-order status
	UpdateSubOrderStatus(ctx context.Context, actorID, subOrderID uint64, status int8) error

	// List all orders, optionally restricted to a creation date range
	ListOrders(ctx context.Context, page, pageSize int, from, to *time.Time) ([]*model.Order, int64, error)

	// Delete an order aggregate
	DeleteOrder(ctx context.Context, orderID uint64) error

	// Daily order counts and turnover over the last n days
	DailyStats(ctx context.Context, days int) ([]*repository.DailyOrderStat, error)
}

// orderService order service implementation
type orderService struct {
	orderRepo   repository.OrderRepository
	goodsRepo   repository.GoodsRepository
	userRepo    repository.UserRepository
	mq          queue.Queue
	noticeTopic string
	idGenerator *snowflake.IDGenerator
}

// NewOrderService creates an order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	goodsRepo repository.GoodsRepository,
	userRepo repository.UserRepository,
	mq queue.Queue,
	noticeTopic string,
	idGenerator *snowflake.IDGenerator,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		goodsRepo:   goodsRepo,
		userRepo:    userRepo,
		mq:          mq,
		noticeTopic: noticeTopic,
		idGenerator: idGenerator,
	}
}

// PlaceOrder places an order. Selected goods are partitioned by seller
// into one sub-order each, then a saga runs the writes in sequence:
// mark the goods sold, prepend the buyer's purchase history, notify the
// sellers (best effort) and insert the order aggregate. Any failing
// transactional step rolls back the earlier ones.
func (s *orderService) PlaceOrder(ctx context.Context, buyerID uint64, req *PlaceOrderRequest) (*model.Order, error) {
	goodsIDs := make([]uint64, 0, len(req.Items))
	itemsByID := make(map[uint64]PlaceOrderItem, len(req.Items))
	for _, item := range req.Items {
		if _, dup := itemsByID[item.GoodsID]; dup {
			return nil, utils.NewError(utils.CodeInvalidParam, "duplicate goods in order")
		}
		goodsIDs = append(goodsIDs, item.GoodsID)
		itemsByID[item.GoodsID] = item
	}

	goodsList, err := s.goodsRepo.ListByIDs(ctx, goodsIDs)
	if err != nil {
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to load goods")
	}
	if len(goodsList) != len(goodsIDs) {
		return nil, utils.ErrGoodsNotFound
	}

	goodsByID := make(map[uint64]*model.Goods, len(goodsList))
	for _, g := range goodsList {
		if g.SellerID == buyerID {
			return nil, utils.NewError(utils.CodeInvalidParam, "cannot buy your own goods")
		}
		if item := itemsByID[g.ID]; item.SellerID != g.SellerID || item.Name != g.Name {
			return nil, utils.NewError(utils.CodeInvalidParam, "goods selection does not match the listing")
		}
		if !g.IsAvailable() {
			return nil, utils.ErrGoodsUnavailable
		}
		goodsByID[g.ID] = g
	}

	order := s.buildOrder(buyerID, req, goodsIDs, goodsByID, itemsByID)

	run := saga.New("place-order").
		AddStep(saga.Step{
			Name: "mark-goods-sold",
			Run: func(ctx context.Context) error {
				return s.goodsRepo.MarkSold(ctx, goodsIDs, buyerID)
			},
			Compensate: func(ctx context.Context) error {
				return s.goodsRepo.RevertSale(ctx, goodsIDs, buyerID)
			},
		}).
		AddStep(saga.Step{
			Name: "prepend-purchase-history",
			Run: func(ctx context.Context) error {
				return s.userRepo.PrependPurchases(ctx, buyerID, goodsIDs)
			},
			Compensate: func(ctx context.Context) error {
				return s.userRepo.RemovePurchases(ctx, buyerID, goodsIDs)
			},
		}).
		AddStep(saga.Step{
			Name:       "notify-sellers",
			BestEffort: true,
			Run: func(ctx context.Context) error {
				return s.notifySellers(ctx, buyerID, order.OrderNo, goodsList)
			},
		}).
		AddStep(saga.Step{
			Name: "insert-order",
			Run: func(ctx context.Context) error {
				return s.orderRepo.Create(ctx, order)
			},
			Compensate: func(ctx context.Context) error {
				if order.ID == 0 {
					return nil
				}
				return s.orderRepo.Delete(ctx, order.ID)
			},
		})

	if err := run.Execute(ctx); err != nil {
		monitor.OrderRollbackTotal.Inc()

		var execErr *saga.ExecutionError
		if errors.As(err, &execErr) && !execErr.FullyCompensated() {
			log.WithFields(map[string]interface{}{
				"order_no":     order.OrderNo,
				"failed_step":  execErr.FailedStep,
				"execution_id": execErr.ExecutionID,
			}).Error("Order placement left partial state after compensation")
		}

		if errors.Is(err, repository.ErrSaleConflict) {
			return nil, utils.ErrGoodsUnavailable
		}
		return nil, utils.WrapError(err, utils.CodeDatabaseError, "failed to place order")
	}

	monitor.OrderPlacedTotal.Inc()
	log.WithFields(map[string]interface{}{
		"order_no":   order.OrderNo,
		"buyer_id":   buyerID,
		"sub_orders": len(order.SubOrders),
		"goods":      len(goodsIDs),
	}).Info("Order placed")

	return order, nil
}

// buildOrder partitions the selected goods by seller into sub-orders.
// Sub-order order follows first appearance of each seller in the
// request, and item order inside a sub-order follows the request too.
func (s *orderService) buildOrder(
	buyerID uint64,
	req *PlaceOrderRequest,
	goodsIDs []uint64,
	goodsByID map[uint64]*model.Goods,
	itemsByID map[uint64]PlaceOrderItem,
) *model.Order {
	orderNo := fmt.Sprintf("FM%d", s.idGenerator.NextID())

	subIdx := make(map[uint64]int)
	var subOrders []model.SubOrder

	for _, id := range goodsIDs {
		g := goodsByID[id]
		item := itemsByID[id]
		idx, ok := subIdx[g.SellerID]
		if !ok {
			idx = len(subOrders)
			subIdx[g.SellerID] = idx
			subOrders = append(subOrders, model.SubOrder{
				SellerID: g.SellerID,
				Status:   model.OrderStatusInProgress,
			})
		}

		lineTotal := g.Price * int64(item.Amount)
		subOrders[idx].Items = append(subOrders[idx].Items, model.SubOrderItem{
			GoodsID:   g.ID,
			GoodsName: g.Name,
			Price:     g.Price,
			Amount:    item.Amount,
			Note:      item.Note,
		})
		subOrders[idx].TotalPrice += lineTotal
		subOrders[idx].ActualPrice += lineTotal
	}

	return &model.Order{
		OrderNo:     orderNo,
		BuyerID:     buyerID,
		Payment:     req.Payment,
		Address:     req.Address,
		TotalPrice:  req.TotalPrice,
		ActualPrice: req.ActualPrice,
		Status:      model.OrderStatusInProgress,
		SubOrders:   subOrders,
	}
}

// notifySellers publishes one sale notice per goods. Publish failures
// only fail this step; the saga treats the whole step as best effort.
func (s *orderService) notifySellers(ctx context.Context, buyerID uint64, orderNo string, goodsList []*model.Goods) error {
	now := time.Now()
	for _, g := range goodsList {
		msg := &model.SaleNoticeMessage{
			SellerID:  g.SellerID,
			BuyerID:   buyerID,
			GoodsID:   g.ID,
			GoodsName: g.Name,
			OrderNo:   orderNo,
			SoldAt:    now,
		}
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal sale notice for goods %d: %w", g.ID, err)
		}
		if err := s.mq.Publish(ctx, s.noticeTopic, data); err != nil {
			return fmt.Errorf("publish sale notice for goods %d: %w", g.ID, err)
		}
		monitor.SaleNoticePublishedTotal.Inc()
	}
	return nil
}

// CancelOrder cancels one sub-order. Only the named goods revert to
// available and only the identified sub-order flips to cancelled;
// goods of the order's other sub-orders are untouched. The three
// writes are independent of each other and run concurrently; a
// failure can leave them partially applied.
func (s *orderService) CancelOrder(ctx context.Context, actorID, orderID, subOrderID uint64, goodsIDs []uint64) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.BuyerID != actorID {
		return utils.ErrForbidden
	}

	sub := order.SubOrder(subOrderID)
	if sub == nil {
		return utils.NewError(utils.CodeInvalidParam, "sub-order does not belong to this order")
	}
	if sub.Status == model.OrderStatusCancelled {
		return utils.NewError(utils.CodeConflict, "sub-order is already cancelled")
	}

	for _, id := range goodsIDs {
		if !sub.HasGoods(id) {
			return utils.NewError(utils.CodeInvalidParam, fmt.Sprintf("goods %d does not belong to this sub-order", id))
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.goodsRepo.RevertSale(gctx, goodsIDs, order.BuyerID)
	})
	g.Go(func() error {
		return s.userRepo.RemovePurchases(gctx, order.BuyerID, goodsIDs)
	})
	g.Go(func() error {
		if err := s.orderRepo.UpdateSubOrderStatus(gctx, subOrderID, model.OrderStatusCancelled); err != nil {
			return err
		}
		if lastOpenSubOrder(order, subOrderID) {
			return s.orderRepo.UpdateStatus(gctx, order.ID, model.OrderStatusCancelled)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithFields(map[string]interface{}{
			"order_id":     orderID,
			"sub_order_id": subOrderID,
			"error":        err.Error(),
		}).Error("Failed to cancel sub-order")
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to cancel order")
	}

	monitor.OrderCancelledTotal.Inc()
	log.WithFields(map[string]interface{}{
		"order_no":     order.OrderNo,
		"sub_order_id": subOrderID,
		"actor_id":     actorID,
	}).Info("Sub-order cancelled")

	return nil
}

// lastOpenSubOrder reports whether every sub-order other than the one
// being cancelled is already cancelled
func lastOpenSubOrder(order *model.Order, subOrderID uint64) bool {
	for _, sub := range order.SubOrders {
		if sub.ID != subOrderID && sub.Status != model.OrderStatusCancelled {
			return false
		}
	}
	return true
}

// GetOrder gets an order, restricted to its buyer
func (s *orderService) GetOrder(ctx context.Context, actorID, orderID uint64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actorID {
		return nil, utils.ErrForbidden
	}
	return order, nil
}

// ListBuyerOrders lists orders of a buyer
func (s *orderService) ListBuyerOrders(ctx context.Context, buyerID uint64, page, pageSize int) ([]*model.Order, int64, error) {
	return s.orderRepo.ListBuyerOrders(ctx, buyerID, page, pageSize)
}

// ListSellerSubOrders lists sub-orders of a seller
func (s *orderService) ListSellerSubOrders(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.SubOrder, int64, error) {
	return s.orderRepo.ListSellerSubOrders(ctx, sellerID, page, pageSize)
}

// UpdateSubOrderStatus lets a seller move their sub-order along the
// shipping flow
func (s *orderService) UpdateSubOrderStatus(ctx context.Context, actorID, subOrderID uint64, status int8) error {
	if status != model.OrderStatusShipping && status != model.OrderStatusCompleted {
		return utils.NewError(utils.CodeInvalidParam, "invalid sub-order status")
	}

	sub, err := s.orderRepo.GetSubOrder(ctx, subOrderID)
	if err != nil {
		return err
	}
	if sub.SellerID != actorID {
		return utils.ErrForbidden
	}
	if sub.Status == model.OrderStatusCancelled {
		return utils.NewError(utils.CodeConflict, "sub-order is cancelled")
	}

	return s.orderRepo.UpdateSubOrderStatus(ctx, subOrderID, status)
}

// ListOrders lists all orders for administration
func (s *orderService) ListOrders(ctx context.Context, page, pageSize int, from, to *time.Time) ([]*model.Order, int64, error) {
	return s.orderRepo.ListAll(ctx, page, pageSize, from, to)
}

// DeleteOrder deletes an order aggregate. Deleting an order that does
// not exist reports a no-effect result instead of an error.
func (s *orderService) DeleteOrder(ctx context.Context, orderID uint64) error {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, utils.ErrOrderNotFound) {
			return utils.NewError(utils.CodeNoEffect, "order already gone")
		}
		return err
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return utils.WrapError(err, utils.CodeDatabaseError, "failed to delete order")
	}
	return nil
}

// DailyStats aggregates order counts and turnover for the last n days
func (s *orderService) DailyStats(ctx context.Context, days int) ([]*repository.DailyOrderStat, error) {
	if days <= 0 {
		days = 7
	}

	now := time.Now()
	from := utils.StartOfDay(now.AddDate(0, 0, -(days - 1)))
	to := utils.EndOfDay(now)

	return s.orderRepo.DailyStats(ctx, from, to)
}
