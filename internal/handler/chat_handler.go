package handler

import (
	"github.com/gin-gonic/gin"

	"fleamarket/internal/middleware"
	"fleamarket/internal/service/chat"
	"fleamarket/pkg/utils"
)

// ChatHandler chat handler
type ChatHandler struct {
	chatService chat.ChatService
}

// NewChatHandler creates a chat handler
func NewChatHandler(chatService chat.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// AddContact adds a peer to the user's contact list
func (h *ChatHandler) AddContact(c *gin.Context) {
	var req struct {
		PeerID  uint64  `json:"peer_id" binding:"required"`
		GoodsID *uint64 `json:"goods_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	userID := middleware.MustGetUserID(c)

	contact, err := h.chatService.AddContact(c.Request.Context(), userID, req.PeerID, req.GoodsID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "contact added", contact)
}

// ListContacts lists the user's contacts, most recently active first
func (h *ChatHandler) ListContacts(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	list, err := h.chatService.ListContacts(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", list)
}

// RemoveContact removes a peer from the user's contact list
func (h *ChatHandler) RemoveContact(c *gin.Context) {
	peerID, err := utils.ValidateID(c.Param("peer_id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.chatService.RemoveContact(c.Request.Context(), userID, peerID); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "contact removed", nil)
}

// SendMessage sends a chat message to a peer
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req struct {
		ReceiverID uint64 `json:"receiver_id" binding:"required"`
		Content    string `json:"content" binding:"required,min=1,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	userID := middleware.MustGetUserID(c)

	msg, err := h.chatService.SendMessage(c.Request.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "message sent", msg)
}

// ListMessages lists the conversation with a peer, oldest first
func (h *ChatHandler) ListMessages(c *gin.Context) {
	peerID, err := utils.ValidateID(c.Param("peer_id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	userID := middleware.MustGetUserID(c)

	list, total, err := h.chatService.ListMessages(c.Request.Context(), userID, peerID, page, pageSize)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}

// UnreadCount returns the user's unread chat message count
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	count, err := h.chatService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", gin.H{"count": count})
}
