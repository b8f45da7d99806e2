package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fleamarket/internal/middleware"
	"fleamarket/internal/service/order"
	"fleamarket/pkg/utils"
)

// OrderHandler order handler
type OrderHandler struct {
	orderService order.OrderService
}

// NewOrderHandler creates an order handler
func NewOrderHandler(orderService order.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// PlaceOrder places an order for the authenticated buyer
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req order.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	buyerID := middleware.MustGetUserID(c)

	placed, err := h.orderService.PlaceOrder(c.Request.Context(), buyerID, &req)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "order placed", placed)
}

// CancelOrder cancels one sub-order of the buyer's order
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	var req order.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	actorID := middleware.MustGetUserID(c)

	if err := h.orderService.CancelOrder(c.Request.Context(), actorID, orderID, req.SubOrderID, req.GoodsIDs); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "order cancelled", nil)
}

// GetOrder gets one of the buyer's orders
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	actorID := middleware.MustGetUserID(c)

	ord, err := h.orderService.GetOrder(c.Request.Context(), actorID, orderID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", ord)
}

// ListOrders lists the buyer's orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	buyerID := middleware.MustGetUserID(c)

	orders, total, err := h.orderService.ListBuyerOrders(c.Request.Context(), buyerID, page, pageSize)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", orders, total, page, pageSize)
}

// ListSales lists the seller's sub-orders
func (h *OrderHandler) ListSales(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	sellerID := middleware.MustGetUserID(c)

	subs, total, err := h.orderService.ListSellerSubOrders(c.Request.Context(), sellerID, page, pageSize)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", subs, total, page, pageSize)
}

// UpdateSubOrderStatus moves a seller's sub-order along the shipping flow
func (h *OrderHandler) UpdateSubOrderStatus(c *gin.Context) {
	subOrderID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	var req struct {
		Status int8 `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	actorID := middleware.MustGetUserID(c)

	if err := h.orderService.UpdateSubOrderStatus(c.Request.Context(), actorID, subOrderID, req.Status); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "sub-order updated", nil)
}

// pageParams reads page/page_size query params with defaults
func pageParams(c *gin.Context) (int, int, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	if err := utils.ValidatePage(page, pageSize); err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}
