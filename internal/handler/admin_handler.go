package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleamarket/internal/middleware"
	"fleamarket/internal/service/admin"
	"fleamarket/internal/service/order"
	"fleamarket/pkg/utils"
)

// AdminHandler admin handler
type AdminHandler struct {
	adminService admin.AdminService
	orderService order.OrderService
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(adminService admin.AdminService, orderService order.OrderService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		orderService: orderService,
	}
}

// GetProfile returns the authenticated admin's profile
func (h *AdminHandler) GetProfile(c *gin.Context) {
	adminID := middleware.MustGetUserID(c)

	a, err := h.adminService.GetAdmin(c.Request.Context(), adminID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", a)
}

// ListUsers lists users with an optional status filter
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	status, _ := strconv.Atoi(c.DefaultQuery("status", "0"))

	list, total, err := h.adminService.ListUsers(c.Request.Context(), page, pageSize, int8(status))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}

// GetUser gets one user
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	u, err := h.adminService.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", u)
}

// SetUserStatus activates or blocks a user
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	userID, err := utils.ValidateID(c.Param("id"))
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

	if err := h.adminService.SetUserStatus(c.Request.Context(), actorID, userID, req.Status); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "user status updated", nil)
}

// AdjustUserValues shifts a user's credit and share scores
func (h *AdminHandler) AdjustUserValues(c *gin.Context) {
	userID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	var req struct {
		CreditDelta int `json:"credit_delta"`
		ShareDelta  int `json:"share_delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	actorID := middleware.MustGetUserID(c)

	if err := h.adminService.AdjustUserValues(c.Request.Context(), actorID, userID, req.CreditDelta, req.ShareDelta); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "user values adjusted", nil)
}

// ListAdmins lists admin accounts
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	list, total, err := h.adminService.ListAdmins(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}

// ListOrders lists all orders, optionally restricted to a date range
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			utils.Error(c, utils.CodeInvalidParam, "from must be YYYY-MM-DD")
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			utils.Error(c, utils.CodeInvalidParam, "to must be YYYY-MM-DD")
			return
		}
		end := utils.EndOfDay(t)
		to = &end
	}

	list, total, err := h.orderService.ListOrders(c.Request.Context(), page, pageSize, from, to)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}

// DeleteOrder deletes an order aggregate
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	orderID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "order deleted", nil)
}

// RemoveGoods takes goods off the market
func (h *AdminHandler) RemoveGoods(c *gin.Context) {
	goodsID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	actorID := middleware.MustGetUserID(c)

	if err := h.adminService.RemoveGoods(c.Request.Context(), actorID, goodsID); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "goods removed", nil)
}

// DailyStats returns per-day order counts and turnover
func (h *AdminHandler) DailyStats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))

	stats, err := h.orderService.DailyStats(c.Request.Context(), days)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", stats)
}
