package services

import (
	"io"

	"github.com/shopspring/decimal"

	"spice/internal/models"
	"spice/internal/pagination"
)

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID, name string) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// SubCategoryServicer defines the contract for sub category business logic.
type SubCategoryServicer interface {
	CreateSubCategory(name, categoryID string) (*models.SubCategory, error)
	ListSubCategories() ([]models.SubCategory, error)
	ListSubCategoriesByCategory(categoryID string) ([]models.SubCategory, error)
	ListDistinctSubCategoryNames() ([]string, error)
	GetSubCategoryByID(subCategoryID string) (*models.SubCategory, error)
	UpdateSubCategory(subCategoryID, name string) (*models.SubCategory, error)
	DeleteSubCategory(subCategoryID string) error
}

// MenuItemInput carries the editable fields of a menu item.
type MenuItemInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Spicyness     models.Spicyness
	CategoryID    string
	SubCategoryID string
}

// ImageUpload is an uploaded image file. Filename is only used for its extension.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// MenuItemServicer defines the contract for menu item business logic.
type MenuItemServicer interface {
	CreateMenuItem(input MenuItemInput, image *ImageUpload) (*models.MenuItem, error)
	ListMenuItems(page pagination.PageRequest) (*pagination.PageResponse[models.MenuItem], error)
	GetMenuItem(menuItemID string) (*models.MenuItem, error)
	UpdateMenuItem(menuItemID string, input MenuItemInput, image *ImageUpload) (*models.MenuItem, error)
	DeleteMenuItem(menuItemID string) error
}

// AssetStore is the image storage used by the menu item service.
type AssetStore interface {
	Write(name string, r io.Reader) error
	Delete(name string) error
	Exists(name string) (bool, error)
	Copy(src, dst string) error
}

// NotificationServicer sends transactional e-mail. Delivery is best effort.
type NotificationServicer interface {
	SendEmail(to, subject, htmlBody string) bool
	Enqueue(to, subject, htmlBody string) bool
	Close()
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(actor, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
