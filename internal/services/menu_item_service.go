package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"spice/internal/assets"
	apperrors "spice/internal/errors"
	"spice/internal/logger"
	"spice/internal/models"
	"spice/internal/pagination"
	"spice/internal/uuid"
)

// menuItemService handles menu item business logic and keeps each item's
// image file in step with its row.
type menuItemService struct {
	db           *gorm.DB
	store        AssetStore
	defaultImage string
}

// NewMenuItemService creates a new MenuItemServicer. defaultImage names the
// file in store that is copied for items created without an upload.
func NewMenuItemService(db *gorm.DB, store AssetStore, defaultImage string) MenuItemServicer {
	return &menuItemService{db: db, store: store, defaultImage: defaultImage}
}

// validateMenuItemInput normalizes input and checks that the sub category
// belongs to the selected category.
func validateMenuItemInput(tx *gorm.DB, input *MenuItemInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "menu item name is required")
	}
	if !input.Price.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
	}
	if !models.ValidPrice(input.Price) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			"price must have at most 2 decimal places and be less than "+models.MaxPrice.String())
	}
	if !input.Spicyness.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown spicyness "+string(input.Spicyness))
	}
	if input.CategoryID == "" || input.SubCategoryID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category and sub category are required")
	}

	var category models.Category
	if err := tx.Where("id = ?", input.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "category does not exist")
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var subCategory models.SubCategory
	if err := tx.Where("id = ?", input.SubCategoryID).First(&subCategory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "sub category does not exist")
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if subCategory.CategoryID != category.ID {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			"sub category "+subCategory.Name+" does not belong to category "+category.Name)
	}
	return nil
}

// storeImage writes the upload, or a copy of the default image, under a name
// derived from the menu item id and returns that name.
func (s *menuItemService) storeImage(menuItemID string, image *ImageUpload) (string, error) {
	if image == nil {
		name := menuItemID + assets.DefaultExtension
		if err := s.store.Copy(s.defaultImage, name); err != nil {
			return "", apperrors.Wrap(apperrors.ErrAssetIO, err)
		}
		return name, nil
	}

	name, err := assets.Name(menuItemID, image.Filename)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidImage, "image must be a png, jpg, jpeg, gif or webp file")
	}
	if err := s.store.Write(name, image.Content); err != nil {
		return "", apperrors.Wrap(apperrors.ErrAssetIO, err)
	}
	return name, nil
}

// discardAsset removes a file written for a change that was not committed.
func (s *menuItemService) discardAsset(name string) {
	if err := s.store.Delete(name); err != nil {
		logger.Get().Warnw("failed to remove orphaned menu item image",
			"file", name,
			"error", err,
		)
	}
}

// CreateMenuItem writes the item's image first and then commits the row that
// references it. If the row cannot be committed the image is removed again.
func (s *menuItemService) CreateMenuItem(input MenuItemInput, image *ImageUpload) (*models.MenuItem, error) {
	id := uuid.New()
	var written string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := validateMenuItemInput(tx, &input); err != nil {
			return err
		}

		name, err := s.storeImage(id, image)
		if err != nil {
			return err
		}
		written = name

		item := &models.MenuItem{
			Base:          models.Base{ID: id},
			Name:          input.Name,
			Description:   input.Description,
			Price:         input.Price,
			Spicyness:     input.Spicyness,
			CategoryID:    input.CategoryID,
			SubCategoryID: input.SubCategoryID,
			Image:         assets.PublicPath(name),
		}
		if err := tx.Create(item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		if written != "" {
			s.discardAsset(written)
		}
		return nil, asAppError(err)
	}

	return s.GetMenuItem(id)
}

// ListMenuItems retrieves a paginated list of menu items with their category
// and sub category.
func (s *menuItemService) ListMenuItems(page pagination.PageRequest) (*pagination.PageResponse[models.MenuItem], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.MenuItem{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.MenuItem
	if err := s.db.Preload("Category").Preload("SubCategory").
		Order("name ASC").
		Scopes(pagination.Paginate(page)).
		Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetMenuItem retrieves a menu item with its category and sub category.
func (s *menuItemService) GetMenuItem(menuItemID string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.Preload("Category").Preload("SubCategory").
		Where("id = ?", menuItemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMenuItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateMenuItem overwrites every editable field. When a new image is given
// it is written as <id><ext>, the row is updated, and the previous file is
// removed before the transaction commits.
func (s *menuItemService) UpdateMenuItem(menuItemID string, input MenuItemInput, image *ImageUpload) (*models.MenuItem, error) {
	var written, previous string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Where("id = ?", menuItemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrMenuItemNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := validateMenuItemInput(tx, &input); err != nil {
			return err
		}

		imagePath := item.Image
		previous = assets.NameFromPublicPath(item.Image)
		if image != nil {
			name, err := s.storeImage(item.ID, image)
			if err != nil {
				return err
			}
			written = name
			imagePath = assets.PublicPath(name)
		}

		updates := map[string]interface{}{
			"name":            input.Name,
			"description":     input.Description,
			"price":           input.Price,
			"spicyness":       input.Spicyness,
			"category_id":     input.CategoryID,
			"sub_category_id": input.SubCategoryID,
			"image":           imagePath,
		}
		if err := tx.Model(&models.MenuItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if written != "" && previous != "" && previous != written {
			if err := s.store.Delete(previous); err != nil {
				return apperrors.Wrap(apperrors.ErrAssetIO, err)
			}
		}
		return nil
	})
	if err != nil {
		// Same-name writes already replaced the old file; nothing to undo.
		if written != "" && written != previous {
			s.discardAsset(written)
		}
		return nil, asAppError(err)
	}

	return s.GetMenuItem(menuItemID)
}

// DeleteMenuItem removes the row and its image together. A failure to delete
// the image rolls the row deletion back.
func (s *menuItemService) DeleteMenuItem(menuItemID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Where("id = ?", menuItemID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrMenuItemNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(&item).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if name := assets.NameFromPublicPath(item.Image); name != "" {
			if err := s.store.Delete(name); err != nil {
				return apperrors.Wrap(apperrors.ErrAssetIO, err)
			}
		}
		return nil
	})
	return asAppError(err)
}

// asAppError wraps errors that escaped a transaction without being mapped,
// such as a failed commit.
func asAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
