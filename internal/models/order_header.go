package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderHeader is written by the ordering front end. The admin backend only
// owns its schema.
type OrderHeader struct {
	Base
	UserID      string          `gorm:"not null;index" json:"user_id"`
	OrderDate   time.Time       `gorm:"not null" json:"order_date"`
	OrderTotal  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"order_total"`
	PickupName  string          `json:"pickup_name"`
	PhoneNumber *string         `json:"phone_number,omitempty"`
	Comments    string          `json:"comments"`
	Status      string          `gorm:"not null" json:"status"`
}
