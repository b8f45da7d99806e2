package handler

import (
	"github.com/gin-gonic/gin"

	"fleamarket/internal/middleware"
	"fleamarket/internal/service/notice"
	"fleamarket/pkg/utils"
)

// NoticeHandler notice handler
type NoticeHandler struct {
	noticeService notice.NoticeService
}

// NewNoticeHandler creates a notice handler
func NewNoticeHandler(noticeService notice.NoticeService) *NoticeHandler {
	return &NoticeHandler{
		noticeService: noticeService,
	}
}

// List lists the user's notices, newest first
func (h *NoticeHandler) List(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)

	list, total, err := h.noticeService.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}

// UnreadCount returns the user's unread notice count
func (h *NoticeHandler) UnreadCount(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	count, err := h.noticeService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", gin.H{"count": count})
}

// MarkRead marks one notice as read
func (h *NoticeHandler) MarkRead(c *gin.Context) {
	noticeID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.noticeService.MarkRead(c.Request.Context(), userID, noticeID); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "notice marked read", nil)
}

// MarkAllRead marks all of the user's notices as read
func (h *NoticeHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	if err := h.noticeService.MarkAllRead(c.Request.Context(), userID); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "notices marked read", nil)
}

// DeleteMany deletes a batch of the user's notices
func (h *NoticeHandler) DeleteMany(c *gin.Context) {
	var req struct {
		IDs []uint64 `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.noticeService.DeleteMany(c.Request.Context(), userID, req.IDs); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "notices deleted", nil)
}

// Delete deletes one notice
func (h *NoticeHandler) Delete(c *gin.Context) {
	noticeID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.noticeService.Delete(c.Request.Context(), userID, noticeID); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "notice deleted", nil)
}
