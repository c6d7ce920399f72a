package models

// Category is the top-level menu grouping, e.g. "Pizza".
type Category struct {
	Base
	Name string `gorm:"not null" json:"name"`
}

// SubCategory is a grouping nested under exactly one Category, e.g. "Veg"
// under "Pizza". Names are unique per category ignoring case, enforced by
// SubCategoryNameIndex.
type SubCategory struct {
	Base
	Name       string    `gorm:"not null" json:"name"`
	CategoryID string    `gorm:"type:uuid;not null;index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// SubCategoryNameIndex is the unique expression index behind sub category
// names. Struct tags cannot express it, so schemas built by AutoMigrate run
// it explicitly.
const SubCategoryNameIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_sub_categories_lower_name_category
	ON sub_categories (LOWER(name), category_id)`
