package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fleamarket/internal/middleware"
	"fleamarket/internal/repository"
	"fleamarket/internal/service/goods"
	"fleamarket/pkg/utils"
)

// GoodsHandler goods handler
type GoodsHandler struct {
	goodsService goods.GoodsService
}

// NewGoodsHandler creates a goods handler
func NewGoodsHandler(goodsService goods.GoodsService) *GoodsHandler {
	return &GoodsHandler{
		goodsService: goodsService,
	}
}

// Publish puts new goods on sale
func (h *GoodsHandler) Publish(c *gin.Context) {
	var req goods.PublishGoodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	sellerID := middleware.MustGetUserID(c)

	g, err := h.goodsService.Publish(c.Request.Context(), sellerID, &req)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "goods published", g)
}

// Update edits goods owned by the seller
func (h *GoodsHandler) Update(c *gin.Context) {
	goodsID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	var req goods.UpdateGoodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	actorID := middleware.MustGetUserID(c)

	g, err := h.goodsService.Update(c.Request.Context(), actorID, goodsID, &req)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "goods updated", g)
}

// Remove takes goods off sale
func (h *GoodsHandler) Remove(c *gin.Context) {
	goodsID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	actorID := middleware.MustGetUserID(c)

	if err := h.goodsService.Remove(c.Request.Context(), actorID, goodsID); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "goods removed", nil)
}

// Get gets goods detail
func (h *GoodsHandler) Get(c *gin.Context) {
	goodsID, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	g, err := h.goodsService.Get(c.Request.Context(), goodsID)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", g)
}

// List lists goods with optional status, category and date filters
func (h *GoodsHandler) List(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	status, _ := strconv.Atoi(c.DefaultQuery("status", "0"))
	categoryID, _ := strconv.ParseUint(c.DefaultQuery("category_id", "0"), 10, 64)

	filter := repository.GoodsFilter{
		Status:     int8(status),
		CategoryID: categoryID,
	}
	if v := c.Query("from"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			utils.Error(c, utils.CodeInvalidParam, "from must be YYYY-MM-DD")
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			utils.Error(c, utils.CodeInvalidParam, "to must be YYYY-MM-DD")
			return
		}
		end := utils.EndOfDay(t)
		filter.To = &end
	}

	list, total, err := h.goodsService.List(c.Request.Context(), page, pageSize, filter)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}

// ListMine lists the authenticated seller's goods
func (h *GoodsHandler) ListMine(c *gin.Context) {
	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	sellerID := middleware.MustGetUserID(c)

	list, total, err := h.goodsService.ListBySeller(c.Request.Context(), sellerID, page, pageSize)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}

// Search searches available goods by keyword
func (h *GoodsHandler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		utils.Error(c, utils.CodeInvalidParam, "keyword is required")
		return
	}

	page, pageSize, err := pageParams(c)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	list, total, err := h.goodsService.Search(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.SuccessPage(c, "success", list, total, page, pageSize)
}

// Recommend returns the recommend feed
func (h *GoodsHandler) Recommend(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	list, err := h.goodsService.Recommend(c.Request.Context(), limit)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", list)
}
