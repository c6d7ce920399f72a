// Package router assembles the gin engine: middleware, static images, API
// docs and the manager-only admin routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spice/internal/assets"
	"spice/internal/config"
	"spice/internal/handlers"
	"spice/internal/middleware"
	"spice/internal/services"

	_ "spice/internal/docs" // Register swagger docs
)

// Services bundles the business services the handlers depend on.
type Services struct {
	Category     services.CategoryServicer
	SubCategory  services.SubCategoryServicer
	MenuItem     services.MenuItemServicer
	Notification services.NotificationServicer
	Audit        services.AuditServicer
}

// New builds the HTTP engine. Images are served from cfg.ImagesDir under
// the same prefix stored in MenuItem.Image.
func New(cfg *config.Config, svc Services) *gin.Engine {
	categoryHandler := handlers.NewCategoryHandler(svc.Category, svc.Audit)
	subCategoryHandler := handlers.NewSubCategoryHandler(svc.SubCategory, svc.Audit)
	menuItemHandler := handlers.NewMenuItemHandler(svc.MenuItem, svc.Audit, cfg.MaxUploadBytes)
	notificationHandler := handlers.NewNotificationHandler(svc.Notification, svc.Audit)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.MethodNotAllowed())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Menu item images
	router.StaticFS(assets.PublicPrefix, newImageFS(cfg.ImagesDir))

	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret, middleware.RoleManager))

	// Category routes
	categories := admin.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.GET("/:id/subcategories", subCategoryHandler.GetSubCategory)

	// Sub category routes
	subCategories := admin.Group("/subcategories")
	subCategories.POST("", subCategoryHandler.CreateSubCategory)
	subCategories.GET("", subCategoryHandler.ListSubCategories)
	subCategories.GET("/names", subCategoryHandler.ListSubCategoryNames)
	subCategories.GET("/:id", subCategoryHandler.GetSubCategoryByID)
	subCategories.PUT("/:id", subCategoryHandler.UpdateSubCategory)
	subCategories.DELETE("/:id", subCategoryHandler.DeleteSubCategory)

	// Menu item routes
	menuItems := admin.Group("/menu-items")
	menuItems.POST("", menuItemHandler.CreateMenuItem)
	menuItems.GET("", menuItemHandler.ListMenuItems)
	menuItems.GET("/:id", menuItemHandler.GetMenuItem)
	menuItems.PUT("/:id", menuItemHandler.UpdateMenuItem)
	menuItems.DELETE("/:id", menuItemHandler.DeleteMenuItem)

	// Notification routes
	admin.POST("/notifications/email", notificationHandler.SendEmail)

	return router
}
