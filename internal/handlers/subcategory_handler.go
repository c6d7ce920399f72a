package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spice/internal/errors"
	"spice/internal/services"
)

// SubCategoryHandler handles sub category requests and the category to sub
// category lookup used by the menu item form.
type SubCategoryHandler struct {
	subCategoryService services.SubCategoryServicer
	auditService       services.AuditServicer
}

// NewSubCategoryHandler creates a new SubCategoryHandler
func NewSubCategoryHandler(subCategoryService services.SubCategoryServicer, auditService services.AuditServicer) *SubCategoryHandler {
	return &SubCategoryHandler{subCategoryService: subCategoryService, auditService: auditService}
}

// CreateSubCategoryRequest represents the request payload for creating a sub category
type CreateSubCategoryRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	CategoryID string `json:"category_id" binding:"required,uuid"`
}

// UpdateSubCategoryRequest represents the request payload for renaming a sub category
type UpdateSubCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SubCategoryOption is one entry of the sub category dropdown.
type SubCategoryOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateSubCategory handles the creation of a new sub category
// @Summary     Create a sub category
// @Description Create a sub category under an existing category. Names are unique per category.
// @Tags        subcategories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubCategoryRequest true "Sub category details"
// @Success     201 {object} models.SubCategory "Sub category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Sub category exists under the category"
// @Router      /subcategories [post]
func (h *SubCategoryHandler) CreateSubCategory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	subCategory, err := h.subCategoryService.CreateSubCategory(req.Name, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "CREATE_SUBCATEGORY", "sub_category", subCategory.ID, c.ClientIP(),
		map[string]interface{}{"name": subCategory.Name, "category_id": subCategory.CategoryID})

	c.JSON(http.StatusCreated, gin.H{"sub_category": subCategory})
}

// ListSubCategories handles the retrieval of all sub categories
// @Summary     List sub categories
// @Description Get all sub categories with their category
// @Tags        subcategories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.SubCategory "List of sub categories"
// @Router      /subcategories [get]
func (h *SubCategoryHandler) ListSubCategories(c *gin.Context) {
	subCategories, err := h.subCategoryService.ListSubCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sub_categories": subCategories})
}

// ListSubCategoryNames handles the retrieval of distinct sub category names
// @Summary     List sub category names
// @Description Get every sub category name once, sorted ascending
// @Tags        subcategories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} string "Distinct names"
// @Router      /subcategories/names [get]
func (h *SubCategoryHandler) ListSubCategoryNames(c *gin.Context) {
	names, err := h.subCategoryService.ListDistinctSubCategoryNames()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"names": names})
}

// GetSubCategoryByID handles the retrieval of a specific sub category
// @Summary     Get sub category by ID
// @Tags        subcategories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Sub category ID"
// @Success     200 {object} models.SubCategory "Sub category details"
// @Failure     404 {object} ErrorResponse "Sub category not found"
// @Router      /subcategories/{id} [get]
func (h *SubCategoryHandler) GetSubCategoryByID(c *gin.Context) {
	subCategoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	subCategory, err := h.subCategoryService.GetSubCategoryByID(subCategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sub_category": subCategory})
}

// UpdateSubCategory handles renaming a sub category
// @Summary     Rename sub category
// @Tags        subcategories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Sub category ID"
// @Param       request body UpdateSubCategoryRequest true "New name"
// @Success     200 {object} models.SubCategory "Updated sub category"
// @Failure     404 {object} ErrorResponse "Sub category not found"
// @Failure     409 {object} ErrorResponse "Sub category exists under the category"
// @Router      /subcategories/{id} [put]
func (h *SubCategoryHandler) UpdateSubCategory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subCategoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	subCategory, err := h.subCategoryService.UpdateSubCategory(subCategoryID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "UPDATE_SUBCATEGORY", "sub_category", subCategory.ID, c.ClientIP(),
		map[string]interface{}{"name": subCategory.Name})

	c.JSON(http.StatusOK, gin.H{"sub_category": subCategory})
}

// DeleteSubCategory handles deleting a sub category
// @Summary     Delete sub category
// @Tags        subcategories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Sub category ID"
// @Success     200 {object} MessageResponse "Sub category deleted"
// @Failure     404 {object} ErrorResponse "Sub category not found"
// @Failure     409 {object} ErrorResponse "Sub category used by menu items"
// @Router      /subcategories/{id} [delete]
func (h *SubCategoryHandler) DeleteSubCategory(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subCategoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.subCategoryService.DeleteSubCategory(subCategoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "DELETE_SUBCATEGORY", "sub_category", subCategoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Sub category deleted successfully"})
}

// GetSubCategory returns the sub categories of one category as dropdown options.
// An unknown category yields an empty list.
// @Summary     Sub category options for a category
// @Tags        subcategories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {array} SubCategoryOption "Options"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Router      /categories/{id}/subcategories [get]
func (h *SubCategoryHandler) GetSubCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	subCategories, err := h.subCategoryService.ListSubCategoriesByCategory(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	options := make([]SubCategoryOption, 0, len(subCategories))
	for _, sc := range subCategories {
		options = append(options, SubCategoryOption{ID: sc.ID, Name: sc.Name})
	}

	c.JSON(http.StatusOK, options)
}
