// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"spice/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("spicyness", validateSpicyness)
		_ = v.RegisterValidation("price", validatePrice)
	}
}

// validateSpicyness accepts level names in any case and legacy ordinals.
func validateSpicyness(fl validator.FieldLevel) bool {
	_, ok := models.ParseSpicyness(fl.Field().String())
	return ok
}

// validatePrice accepts decimal strings the price column can store exactly.
func validatePrice(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return models.ValidPrice(d)
}
