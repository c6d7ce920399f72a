package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spice/internal/errors"
	"spice/internal/logger"
)

// ErrorHandler converts errors attached with c.Error into the JSON error
// envelope. It does nothing when the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()
		if err.IsType(gin.ErrorTypeBind) {
			writeError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
		writeError(c, err.Err)
	}
}

// Recovery turns a panic into an INTERNAL_ERROR response and logs the value.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Get().Errorw("panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		writeError(c, apperrors.ErrInternalServer)
		c.Abort()
	})
}

// NotFound answers unknown routes with the error envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		writeError(c, apperrors.ErrNotFound)
	}
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": gin.H{"code": "METHOD_NOT_ALLOWED", "message": "Method not allowed"},
		})
	}
}

// writeError renders AppErrors as-is. Any other error is logged and reported
// as a generic internal error.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
