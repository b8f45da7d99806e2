package handler

import (
	"github.com/gin-gonic/gin"

	"fleamarket/internal/service/category"
	"fleamarket/pkg/utils"
)

// CategoryHandler category handler
type CategoryHandler struct {
	categoryService category.CategoryService
}

// NewCategoryHandler creates a category handler
func NewCategoryHandler(categoryService category.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

type categoryNameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// Create creates a category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	cat, err := h.categoryService.Create(c.Request.Context(), req.Name)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "category created", cat)
}

// Rename renames a category
func (h *CategoryHandler) Rename(c *gin.Context) {
	id, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	var req categoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	cat, err := h.categoryService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "category renamed", cat)
}

// SetActivation toggles whether a category accepts new goods
func (h *CategoryHandler) SetActivation(c *gin.Context) {
	id, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	var req struct {
		Activation *bool `json:"activation" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.CodeInvalidParam, utils.FormatValidationError(err))
		return
	}

	if err := h.categoryService.SetActivation(c.Request.Context(), id, *req.Activation); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "category updated", nil)
}

// Delete deletes an unused category
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := utils.ValidateID(c.Param("id"))
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "category deleted", nil)
}

// List lists categories
func (h *CategoryHandler) List(c *gin.Context) {
	activatedOnly := c.DefaultQuery("activated", "true") != "false"

	list, err := h.categoryService.List(c.Request.Context(), activatedOnly)
	if err != nil {
		utils.ErrorFrom(c, err)
		return
	}

	utils.Success(c, "success", list)
}
