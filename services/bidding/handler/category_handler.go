package handler

import (
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/bidding/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// ListCategoriesHandler handles GET /categories
func (h *BiddingHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListCategoriesHandler", err, nil)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}

	utils.JSONResponse(c, http.StatusOK, categories, "categories retrieved successfully")
}

// CreateCategoryHandler handles POST /categories
func (h *BiddingHandler) CreateCategoryHandler(c *gin.Context) {
	var req helpers.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateCategoryHandler", err)
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), helpers.UserID(c), req.Name)
	if err != nil {
		helpers.RespondError(c, "CreateCategoryHandler", err, map[string]any{"name": req.Name})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, category, "category created successfully")
	helpers.LogSuccess("CreateCategoryHandler", "category created successfully", map[string]any{
		"category_id": category.ID,
		"name":        category.Name,
	})
}
