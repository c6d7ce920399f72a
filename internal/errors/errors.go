// Package errors provides custom error types for the Spice admin API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so callers can
// match derived errors against the sentinels with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category still has sub categories or menu items", StatusCode: http.StatusConflict}
)

// SubCategory errors.
var (
	ErrSubCategoryNotFound = &AppError{Code: "SUBCATEGORY_NOT_FOUND", Message: "Sub category not found", StatusCode: http.StatusNotFound}
	ErrSubCategoryExists   = &AppError{Code: "SUBCATEGORY_EXISTS", Message: "Sub category already exists in this category", StatusCode: http.StatusConflict}
	ErrSubCategoryInUse    = &AppError{Code: "SUBCATEGORY_IN_USE", Message: "Sub category is used by existing menu items", StatusCode: http.StatusConflict}
)

// MenuItem errors.
var (
	ErrMenuItemNotFound = &AppError{Code: "MENU_ITEM_NOT_FOUND", Message: "Menu item not found", StatusCode: http.StatusNotFound}
	ErrInvalidImage     = &AppError{Code: "INVALID_IMAGE", Message: "Unsupported image upload", StatusCode: http.StatusBadRequest}
	ErrAssetIO          = &AppError{Code: "ASSET_IO_ERROR", Message: "Failed to store menu item image", StatusCode: http.StatusInternalServerError}
)
