package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fleamarket/internal/middleware"
	"fleamarket/internal/model"
	"fleamarket/internal/repository"
	"fleamarket/internal/service/order"
	"fleamarket/pkg/utils"
)

// MockOrderService is a mock implementation of order.OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, buyerID uint64, req *order.PlaceOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, buyerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, actorID, orderID, subOrderID uint64, goodsIDs []uint64) error {
	args := m.Called(ctx, actorID, orderID, subOrderID, goodsIDs)
	return args.Error(0)
}

func (m *MockOrderService) GetOrder(ctx context.Context, actorID, orderID uint64) (*model.Order, error) {
	args := m.Called(ctx, actorID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListBuyerOrders(ctx context.Context, buyerID uint64, page, pageSize int) ([]*model.Order, int64, error) {
	args := m.Called(ctx, buyerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderService) ListSellerSubOrders(ctx context.Context, sellerID uint64, page, pageSize int) ([]*model.SubOrder, int64, error) {
	args := m.Called(ctx, sellerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.SubOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderService) UpdateSubOrderStatus(ctx context.Context, actorID, subOrderID uint64, status int8) error {
	args := m.Called(ctx, actorID, subOrderID, status)
	return args.Error(0)
}

func (m *MockOrderService) ListOrders(ctx context.Context, page, pageSize int, from, to *time.Time) ([]*model.Order, int64, error) {
	args := m.Called(ctx, page, pageSize, from, to)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, orderID uint64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderService) DailyStats(ctx context.Context, days int) ([]*repository.DailyOrderStat, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.DailyOrderStat), args.Error(1)
}

// asUser injects the authenticated user the way the auth middleware does
func asUser(userID uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func TestOrderHandler_PlaceOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.RegisterCustomValidators()

	t.Run("successful place order", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		placed := &model.Order{
			ID:      1,
			OrderNo: "FM1001",
			BuyerID: 7,
			Status:  model.OrderStatusInProgress,
		}

		mockService.On("PlaceOrder", mock.Anything, uint64(7), mock.MatchedBy(func(req *order.PlaceOrderRequest) bool {
			return len(req.Items) == 2 && req.Payment == "wechat"
		})).Return(placed, nil)

		router := gin.New()
		router.POST("/orders", asUser(7), handler.PlaceOrder)

		body := `{
			"payment": "wechat",
			"address": {"city": "Beijing", "detail": "dorm 5"},
			"total_price": 4000,
			"actual_price": 4000,
			"items": [
				{"goods_id": 1, "seller_id": 10, "name": "Used Textbook", "amount": 1},
				{"goods_id": 3, "seller_id": 10, "name": "Bike Lock", "amount": 1, "note": "meet at gate"}
			]
		}`
		req, _ := http.NewRequest("POST", "/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeSuccess), response["code"])

		mockService.AssertExpectations(t)
	})

	t.Run("invalid payment method", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		router := gin.New()
		router.POST("/orders", asUser(7), handler.PlaceOrder)

		body := `{
			"payment": "cash",
			"address": {"city": "Beijing"},
			"total_price": 4000,
			"actual_price": 4000,
			"items": [{"goods_id": 1, "seller_id": 10, "name": "Used Textbook", "amount": 1}]
		}`
		req, _ := http.NewRequest("POST", "/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeInvalidParam), response["code"])

		mockService.AssertNotCalled(t, "PlaceOrder")
	})

	t.Run("empty items rejected", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		router := gin.New()
		router.POST("/orders", asUser(7), handler.PlaceOrder)

		body := `{
			"payment": "alipay",
			"address": {"city": "Beijing"},
			"total_price": 4000,
			"actual_price": 4000,
			"items": []
		}`
		req, _ := http.NewRequest("POST", "/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeInvalidParam), response["code"])

		mockService.AssertNotCalled(t, "PlaceOrder")
	})

	t.Run("goods unavailable maps to conflict code", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		mockService.On("PlaceOrder", mock.Anything, uint64(7), mock.Anything).
			Return(nil, utils.ErrGoodsUnavailable)

		router := gin.New()
		router.POST("/orders", asUser(7), handler.PlaceOrder)

		body := `{
			"payment": "wechat",
			"address": {"city": "Beijing"},
			"total_price": 2500,
			"actual_price": 2500,
			"items": [{"goods_id": 1, "seller_id": 10, "name": "Used Textbook", "amount": 1}]
		}`
		req, _ := http.NewRequest("POST", "/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeConflict), response["code"])
	})
}

func TestOrderHandler_CancelOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cancelBody := func() *bytes.Buffer {
		body, _ := json.Marshal(gin.H{
			"sub_order_id": 51,
			"goods_ids":    []uint64{1, 3},
		})
		return bytes.NewBuffer(body)
	}

	t.Run("successful cancel", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		mockService.On("CancelOrder", mock.Anything, uint64(7), uint64(42), uint64(51), []uint64{1, 3}).
			Return(nil)

		router := gin.New()
		router.POST("/orders/:id/cancel", asUser(7), handler.CancelOrder)

		req, _ := http.NewRequest("POST", "/orders/42/cancel", cancelBody())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeSuccess), response["code"])

		mockService.AssertExpectations(t)
	})

	t.Run("invalid order id", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		router := gin.New()
		router.POST("/orders/:id/cancel", asUser(7), handler.CancelOrder)

		req, _ := http.NewRequest("POST", "/orders/abc/cancel", cancelBody())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeInvalidParam), response["code"])

		mockService.AssertNotCalled(t, "CancelOrder")
	})

	t.Run("missing goods list", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		router := gin.New()
		router.POST("/orders/:id/cancel", asUser(7), handler.CancelOrder)

		body, _ := json.Marshal(gin.H{"sub_order_id": 51})
		req, _ := http.NewRequest("POST", "/orders/42/cancel", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeInvalidParam), response["code"])

		mockService.AssertNotCalled(t, "CancelOrder")
	})

	t.Run("cancel by non-buyer is forbidden", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		mockService.On("CancelOrder", mock.Anything, uint64(9), uint64(42), uint64(51), []uint64{1, 3}).
			Return(utils.ErrForbidden)

		router := gin.New()
		router.POST("/orders/:id/cancel", asUser(9), handler.CancelOrder)

		req, _ := http.NewRequest("POST", "/orders/42/cancel", cancelBody())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeForbidden), response["code"])
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("successful get order", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		expected := &model.Order{
			ID:      42,
			OrderNo: "FM1042",
			BuyerID: 7,
			Status:  model.OrderStatusInProgress,
		}

		mockService.On("GetOrder", mock.Anything, uint64(7), uint64(42)).Return(expected, nil)

		router := gin.New()
		router.GET("/orders/:id", asUser(7), handler.GetOrder)

		req, _ := http.NewRequest("GET", "/orders/42", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "FM1042", data["order_no"])
	})

	t.Run("order not found", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService)

		mockService.On("GetOrder", mock.Anything, uint64(7), uint64(42)).
			Return(nil, utils.ErrOrderNotFound)

		router := gin.New()
		router.GET("/orders/:id", asUser(7), handler.GetOrder)

		req, _ := http.NewRequest("GET", "/orders/42", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, float64(utils.CodeNotFound), response["code"])
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	orders := []*model.Order{
		{ID: 2, OrderNo: "FM1002", BuyerID: 7},
		{ID: 1, OrderNo: "FM1001", BuyerID: 7},
	}
	mockService.On("ListBuyerOrders", mock.Anything, uint64(7), 1, 10).
		Return(orders, int64(2), nil)

	router := gin.New()
	router.GET("/orders", asUser(7), handler.ListOrders)

	req, _ := http.NewRequest("GET", "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Len(t, data["list"], 2)
}

func TestOrderHandler_UpdateSubOrderStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)

	mockService.On("UpdateSubOrderStatus", mock.Anything, uint64(11), uint64(5), int8(model.OrderStatusShipping)).
		Return(nil)

	router := gin.New()
	router.PUT("/sales/:id/status", asUser(11), handler.UpdateSubOrderStatus)

	body := `{"status": 3}`
	req, _ := http.NewRequest("PUT", "/sales/5/status", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
