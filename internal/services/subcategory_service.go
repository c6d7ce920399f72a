package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "spice/internal/errors"
	"spice/internal/models"
)

// subCategoryService handles sub category business logic.
type subCategoryService struct {
	db *gorm.DB
}

// NewSubCategoryService creates a new SubCategoryServicer.
func NewSubCategoryService(db *gorm.DB) SubCategoryServicer {
	return &subCategoryService{db: db}
}

// subCategoryExists builds the conflict error shown next to the form.
func subCategoryExists(categoryName string) error {
	return apperrors.WithMessage(apperrors.ErrSubCategoryExists,
		"Error: SubCategory exists under "+categoryName+" category. Please use another name.")
}

// checkDuplicateName fails with ErrSubCategoryExists when another sub category
// of categoryID already uses name, ignoring case. excludeID skips the row
// being renamed.
func checkDuplicateName(tx *gorm.DB, name string, category *models.Category, excludeID string) error {
	q := tx.Model(&models.SubCategory{}).Where("LOWER(name) = LOWER(?) AND category_id = ?", name, category.ID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return subCategoryExists(category.Name)
	}
	return nil
}

// CreateSubCategory creates a sub category under an existing category.
func (s *subCategoryService) CreateSubCategory(name, categoryID string) (*models.SubCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "sub category name is required")
	}
	if categoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category does not exist")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := checkDuplicateName(s.db, name, &category, ""); err != nil {
		return nil, err
	}

	subCategory := &models.SubCategory{Name: name, CategoryID: category.ID}
	if err := s.db.Create(subCategory).Error; err != nil {
		// Lost a race with a concurrent insert of the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, subCategoryExists(category.Name)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	subCategory.Category = &category
	return subCategory, nil
}

// ListSubCategories retrieves all sub categories with their category.
func (s *subCategoryService) ListSubCategories() ([]models.SubCategory, error) {
	subCategories := []models.SubCategory{}
	if err := s.db.Preload("Category").Order("name ASC").Find(&subCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subCategories, nil
}

// ListSubCategoriesByCategory retrieves the sub categories of one category.
func (s *subCategoryService) ListSubCategoriesByCategory(categoryID string) ([]models.SubCategory, error) {
	subCategories := []models.SubCategory{}
	if err := s.db.Where("category_id = ?", categoryID).Order("name ASC").Find(&subCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subCategories, nil
}

// ListDistinctSubCategoryNames returns every sub category name once, ascending.
func (s *subCategoryService) ListDistinctSubCategoryNames() ([]string, error) {
	names := []string{}
	if err := s.db.Model(&models.SubCategory{}).
		Distinct().
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return names, nil
}

// GetSubCategoryByID retrieves a sub category with its category.
func (s *subCategoryService) GetSubCategoryByID(subCategoryID string) (*models.SubCategory, error) {
	var subCategory models.SubCategory
	if err := s.db.Preload("Category").Where("id = ?", subCategoryID).First(&subCategory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &subCategory, nil
}

// UpdateSubCategory renames a sub category. Its category cannot change.
func (s *subCategoryService) UpdateSubCategory(subCategoryID, name string) (*models.SubCategory, error) {
	subCategory, err := s.GetSubCategoryByID(subCategoryID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "sub category name is required")
	}

	category := subCategory.Category
	if category == nil {
		category = &models.Category{Base: models.Base{ID: subCategory.CategoryID}}
	}
	if err := checkDuplicateName(s.db, name, category, subCategory.ID); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.SubCategory{}).Where("id = ?", subCategory.ID).Update("name", name).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, subCategoryExists(category.Name)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	subCategory.Name = name
	return subCategory, nil
}

// DeleteSubCategory deletes a sub category that no menu item references.
func (s *subCategoryService) DeleteSubCategory(subCategoryID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var subCategory models.SubCategory
		if err := tx.Where("id = ?", subCategoryID).First(&subCategory).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrSubCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var itemCount int64
		if err := tx.Model(&models.MenuItem{}).Where("sub_category_id = ?", subCategoryID).Count(&itemCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if itemCount > 0 {
			return apperrors.ErrSubCategoryInUse
		}

		if err := tx.Delete(&subCategory).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
