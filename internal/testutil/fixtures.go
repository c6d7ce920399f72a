package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"spice/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestSubCategory creates a sub category with a unique name under categoryID.
func CreateTestSubCategory(t *testing.T, db *gorm.DB, categoryID string) *models.SubCategory {
	t.Helper()
	return CreateTestSubCategoryWithName(t, db, categoryID, fmt.Sprintf("Test SubCategory %d", nextID()))
}

// CreateTestSubCategoryWithName creates a sub category with the given name.
func CreateTestSubCategoryWithName(t *testing.T, db *gorm.DB, categoryID, name string) *models.SubCategory {
	t.Helper()

	subCategory := &models.SubCategory{Name: name, CategoryID: categoryID}
	if err := db.Create(subCategory).Error; err != nil {
		t.Fatalf("failed to create test sub category: %v", err)
	}
	return subCategory
}

// CreateTestMenuItem inserts a menu item row directly, without an image file.
func CreateTestMenuItem(t *testing.T, db *gorm.DB, categoryID, subCategoryID string) *models.MenuItem {
	t.Helper()

	n := nextID()
	item := &models.MenuItem{
		Name:          fmt.Sprintf("Test Dish %d", n),
		Price:         decimal.RequireFromString("9.99"),
		Spicyness:     models.SpicynessMild,
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
		Image:         fmt.Sprintf("/images/test-dish-%d.png", n),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test menu item: %v", err)
	}
	return item
}
