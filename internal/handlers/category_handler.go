package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/ledger"
)

// CategoryHandler handles category registry requests. Categories are keyed by
// name; the registry holds no other attributes.
type CategoryHandler struct {
	engine *ledger.Engine
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(engine *ledger.Engine) *CategoryHandler {
	return &CategoryHandler{engine: engine}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameCategoryRequest represents the request payload for renaming a category.
type RenameCategoryRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// CreateCategory adds a category to the registry.
// @Summary     Create a category
// @Description Add a new category name to the registry
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category name"
// @Success     201 {object} map[string][]string "Updated registry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.engine.CreateCategory(req.Name); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"categories": h.engine.Categories()})
}

// GetCategories lists the registry in insertion order.
// @Summary     Get categories
// @Description List all category names
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]string "Registry"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.engine.Categories()})
}

// RenameCategory renames a category, cascading to transactions.
// @Summary     Rename a category
// @Description Rename a category; every transaction referencing the old name is rewritten in the same operation
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       name    path string                true "Current category name"
// @Param       request body RenameCategoryRequest true "New category name"
// @Success     200 {object} map[string][]string "Updated registry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate category"
// @Router      /categories/{name} [put]
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	var req RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.engine.RenameCategory(c.Param("name"), req.NewName); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": h.engine.Categories()})
}

// DeleteCategory removes a category, reassigning its transactions.
// @Summary     Delete a category
// @Description Delete a category; transactions referencing it are reassigned to the fallback category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Category name"
// @Success     200 {object} map[string][]string "Updated registry"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category in use"
// @Router      /categories/{name} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.engine.DeleteCategory(c.Param("name")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": h.engine.Categories()})
}
