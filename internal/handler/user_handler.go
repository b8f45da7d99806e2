package handler

import (
	"github.com/gin-gonic/gin"

	"fleamarket/internal/middleware"
	"fleamarket/internal/service/user"
	"fleamarket/pkg/utils"
)

// UserHandler user handler
type UserHandler struct {
	userService user.UserService
}

// NewUserHandler creates a user handler
func NewUserHandler(userService user.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	u, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", u)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	userID := middleware.MustGetUserID(c)

	u, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "profile updated", u)
}

// ListPurchases lists the user's purchase history, newest first
func (h *UserHandler) ListPurchases(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)

	list, total, err := h.userService.ListPurchases(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}
