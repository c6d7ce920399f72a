package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spice/internal/assets"
	"spice/internal/config"
	"spice/internal/database"
	"spice/internal/jobs"
	"spice/internal/logger"
	"spice/internal/router"
	"spice/internal/services"
	"spice/internal/validator"
)

// @title           Spice Admin API
// @version         1.0
// @description     Admin backend of the Spice restaurant: menu categories, sub categories, menu items with images, and outbound email.

// @host      localhost:8080
// @BasePath  /api/v1/admin

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if appConfig.LogFile != "" {
		logger.InitWithOptions(appConfig.Env, logger.Options{File: appConfig.LogFile})
	}
	log := logger.Get()

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Image store
	store, err := assets.NewStore(appConfig.ImagesDir)
	if err != nil {
		return fmt.Errorf("failed to open image directory: %w", err)
	}
	if ok, err := store.Exists(appConfig.DefaultFoodImage); err != nil || !ok {
		log.Warnw("default food image missing, menu items without an upload will fail",
			"dir", store.Dir(),
			"file", appConfig.DefaultFoodImage,
		)
	}

	validator.Register()

	notifier, err := services.NewNotificationService(appConfig)
	if err != nil {
		return fmt.Errorf("failed to start mail workers: %w", err)
	}
	defer notifier.Close()
	if !appConfig.MailEnabled() {
		log.Warn("SMTP_HOST not set, outgoing email is disabled")
	}

	db := dbManager.DB()

	// Background jobs
	scheduler := jobs.NewScheduler()
	sweeper := services.NewImageSweeper(db, store, appConfig.DefaultFoodImage, appConfig.AssetSweepMinAge)
	if err := jobs.RegisterImageSweep(scheduler, appConfig.AssetSweepSchedule, sweeper); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := scheduler.Stop(ctx); err != nil {
			log.Warnf("scheduler did not stop cleanly: %v", err)
		}
	}()

	// Initialize services
	engine := router.New(appConfig, router.Services{
		Category:     services.NewCategoryService(db),
		SubCategory:  services.NewSubCategoryService(db),
		MenuItem:     services.NewMenuItemService(db, store, appConfig.DefaultFoodImage),
		Notification: notifier,
		Audit:        services.NewAuditService(db),
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Spice admin server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
