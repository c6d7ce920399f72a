package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spice/internal/errors"
	"spice/internal/models"
	"spice/internal/pagination"
	"spice/internal/services"
)

// MenuItemHandler handles menu item requests. Create and update accept a
// multipart form so an image can be uploaded with the fields.
type MenuItemHandler struct {
	menuItemService services.MenuItemServicer
	auditService    services.AuditServicer
	maxUploadBytes  int64
}

// NewMenuItemHandler creates a new MenuItemHandler. maxUploadBytes caps the
// request body of create and update.
func NewMenuItemHandler(menuItemService services.MenuItemServicer, auditService services.AuditServicer, maxUploadBytes int64) *MenuItemHandler {
	return &MenuItemHandler{
		menuItemService: menuItemService,
		auditService:    auditService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// MenuItemForm represents the fields of the menu item form. The same fields
// are accepted as JSON when no image is uploaded.
type MenuItemForm struct {
	Name          string `form:"name" json:"name" binding:"required,min=1,max=100"`
	Description   string `form:"description" json:"description" binding:"max=2000"`
	Price         string `form:"price" json:"price" binding:"required,price"`
	Spicyness     string `form:"spicyness" json:"spicyness" binding:"omitempty,spicyness"`
	CategoryID    string `form:"category_id" json:"category_id" binding:"required,uuid"`
	SubCategoryID string `form:"sub_category_id" json:"sub_category_id" binding:"required,uuid"`
}

// toInput converts the bound form into service input.
func (f MenuItemForm) toInput() (services.MenuItemInput, error) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return services.MenuItemInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid price format")
	}
	spicyness, ok := models.ParseSpicyness(f.Spicyness)
	if !ok {
		return services.MenuItemInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid spicyness")
	}
	return services.MenuItemInput{
		Name:          f.Name,
		Description:   f.Description,
		Price:         price,
		Spicyness:     spicyness,
		CategoryID:    f.CategoryID,
		SubCategoryID: f.SubCategoryID,
	}, nil
}

// bindMenuItemForm binds the form fields and opens the optional image file.
// The returned close func must be called once the service is done with it.
func (h *MenuItemHandler) bindMenuItemForm(c *gin.Context) (services.MenuItemInput, *services.ImageUpload, func(), error) {
	noop := func() {}
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var form MenuItemForm
	if err := c.ShouldBind(&form); err != nil {
		if isBodyTooLarge(err) {
			return services.MenuItemInput{}, nil, noop, h.tooLarge()
		}
		return services.MenuItemInput{}, nil, noop, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	input, err := form.toInput()
	if err != nil {
		return services.MenuItemInput{}, nil, noop, err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return input, nil, noop, nil
		}
		return services.MenuItemInput{}, nil, noop, apperrors.WithMessage(apperrors.ErrInvalidImage, "Unable to read image upload")
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return services.MenuItemInput{}, nil, noop, h.tooLarge()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return services.MenuItemInput{}, nil, noop, apperrors.WithMessage(apperrors.ErrInvalidImage, "Unable to read image upload")
	}
	return input, imageUpload(fileHeader, file), func() { _ = file.Close() }, nil
}

func imageUpload(fileHeader *multipart.FileHeader, file multipart.File) *services.ImageUpload {
	return &services.ImageUpload{Filename: fileHeader.Filename, Content: file}
}

// isBodyTooLarge reports whether err came from the MaxBytesReader. Some
// multipart paths flatten the error, so the message is checked as well.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func (h *MenuItemHandler) tooLarge() error {
	return apperrors.WithMessage(apperrors.ErrInvalidImage,
		fmt.Sprintf("Upload exceeds the %d MB limit", h.maxUploadBytes>>20))
}

// CreateMenuItem handles the creation of a new menu item
// @Summary     Create a menu item
// @Description Create a menu item. Without an image upload the default food image is copied.
// @Tags        menu-items
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       name formData string true "Name"
// @Param       description formData string false "Description"
// @Param       price formData string true "Price"
// @Param       spicyness formData string false "Spicyness (mild, medium, hot)"
// @Param       category_id formData string true "Category ID"
// @Param       sub_category_id formData string true "Sub category ID"
// @Param       image formData file false "Image"
// @Success     201 {object} models.MenuItem "Menu item created"
// @Failure     400 {object} ErrorResponse "Invalid input or image"
// @Failure     500 {object} ErrorResponse "Image storage failed"
// @Router      /menu-items [post]
func (h *MenuItemHandler) CreateMenuItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	input, image, closeImage, err := h.bindMenuItemForm(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer closeImage()

	item, err := h.menuItemService.CreateMenuItem(input, image)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "CREATE_MENU_ITEM", "menu_item", item.ID, c.ClientIP(),
		map[string]interface{}{"name": item.Name, "price": item.Price.String(), "image": item.Image})

	c.JSON(http.StatusCreated, gin.H{"menu_item": item})
}

// ListMenuItems handles the retrieval of menu items
// @Summary     List menu items
// @Description Get a paginated list of menu items with category and sub category
// @Tags        menu-items
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Items per page" default(20)
// @Success     200 {object} pagination.PageResponse[models.MenuItem] "Paginated menu items"
// @Failure     400 {object} ErrorResponse "Invalid pagination parameters"
// @Router      /menu-items [get]
func (h *MenuItemHandler) ListMenuItems(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.menuItemService.ListMenuItems(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMenuItem handles the retrieval of a specific menu item
// @Summary     Get menu item by ID
// @Tags        menu-items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Menu item ID"
// @Success     200 {object} models.MenuItem "Menu item details"
// @Failure     404 {object} ErrorResponse "Menu item not found"
// @Router      /menu-items/{id} [get]
func (h *MenuItemHandler) GetMenuItem(c *gin.Context) {
	menuItemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.menuItemService.GetMenuItem(menuItemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"menu_item": item})
}

// UpdateMenuItem handles editing a menu item
// @Summary     Update a menu item
// @Description Overwrite every field of a menu item. An uploaded image replaces the stored one.
// @Tags        menu-items
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Menu item ID"
// @Param       name formData string true "Name"
// @Param       description formData string false "Description"
// @Param       price formData string true "Price"
// @Param       spicyness formData string false "Spicyness (mild, medium, hot)"
// @Param       category_id formData string true "Category ID"
// @Param       sub_category_id formData string true "Sub category ID"
// @Param       image formData file false "Replacement image"
// @Success     200 {object} models.MenuItem "Updated menu item"
// @Failure     400 {object} ErrorResponse "Invalid input or image"
// @Failure     404 {object} ErrorResponse "Menu item not found"
// @Router      /menu-items/{id} [put]
func (h *MenuItemHandler) UpdateMenuItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	menuItemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	input, image, closeImage, err := h.bindMenuItemForm(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer closeImage()

	item, err := h.menuItemService.UpdateMenuItem(menuItemID, input, image)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "UPDATE_MENU_ITEM", "menu_item", item.ID, c.ClientIP(),
		map[string]interface{}{"name": item.Name, "price": item.Price.String(), "image_replaced": image != nil})

	c.JSON(http.StatusOK, gin.H{"menu_item": item})
}

// DeleteMenuItem handles deleting a menu item and its image
// @Summary     Delete a menu item
// @Tags        menu-items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Menu item ID"
// @Success     200 {object} MessageResponse "Menu item deleted"
// @Failure     404 {object} ErrorResponse "Menu item not found"
// @Failure     500 {object} ErrorResponse "Image could not be removed"
// @Router      /menu-items/{id} [delete]
func (h *MenuItemHandler) DeleteMenuItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	menuItemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.menuItemService.DeleteMenuItem(menuItemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor, "DELETE_MENU_ITEM", "menu_item", menuItemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}
