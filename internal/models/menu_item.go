package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Spicyness represents how hot a dish is
type Spicyness string

const (
	SpicynessNA     Spicyness = ""
	SpicynessMild   Spicyness = "mild"
	SpicynessMedium Spicyness = "medium"
	SpicynessHot    Spicyness = "hot"
)

// spicynessOrdinals maps the legacy numeric form (NA, NotSpicy, Spicy, VerySpicy).
var spicynessOrdinals = map[string]Spicyness{
	"0": SpicynessNA,
	"1": SpicynessMild,
	"2": SpicynessMedium,
	"3": SpicynessHot,
}

// Valid reports whether s is one of the known levels.
func (s Spicyness) Valid() bool {
	switch s {
	case SpicynessNA, SpicynessMild, SpicynessMedium, SpicynessHot:
		return true
	}
	return false
}

// PriceScale is the number of decimal places stored for a price.
const PriceScale = 2

// MaxPrice is the smallest price the NUMERIC(10,2) column cannot hold.
var MaxPrice = decimal.New(1, 8)

// ValidPrice reports whether p is positive, below MaxPrice and has at most
// PriceScale decimal places. Trailing zeros such as 9.500 are accepted.
func ValidPrice(p decimal.Decimal) bool {
	return p.IsPositive() && p.LessThan(MaxPrice) && p.Equal(p.Truncate(PriceScale))
}

// ParseSpicyness accepts a level name in any case or its ordinal.
func ParseSpicyness(raw string) (Spicyness, bool) {
	raw = strings.TrimSpace(raw)
	if s, ok := spicynessOrdinals[raw]; ok {
		return s, true
	}
	s := Spicyness(strings.ToLower(raw))
	return s, s.Valid()
}

// MenuItem is a purchasable dish belonging to one Category and one
// SubCategory of that Category.
type MenuItem struct {
	Base
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Spicyness     Spicyness       `gorm:"size:16" json:"spicyness"`
	Image         string          `json:"image"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CategoryID    string          `gorm:"type:uuid;not null;index" json:"category_id"`
	SubCategoryID string          `gorm:"type:uuid;not null;index" json:"sub_category_id"`

	// Relationships
	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubCategory *SubCategory `gorm:"foreignKey:SubCategoryID" json:"sub_category,omitempty"`
}
