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

	"github.com/mykitchen/kitchen/config"
	"github.com/mykitchen/kitchen/internal/app/controller"
	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/internal/bootstrap"
	"github.com/mykitchen/kitchen/internal/router"
	"github.com/mykitchen/kitchen/internal/scheduler"
	"github.com/mykitchen/kitchen/internal/storage"
	"github.com/mykitchen/kitchen/internal/store"
	"github.com/mykitchen/kitchen/internal/websocket"
	"github.com/mykitchen/kitchen/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	format := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: true,
	})

	logger.Info("Starting MyKitchen server", map[string]interface{}{
		"environment":   cfg.Server.Environment,
		"port":          cfg.Server.Port,
		"catalog":       cfg.Catalog.Backend,
		"auth_provider": cfg.Auth.Provider,
		"mirror":        cfg.Mirror.Backend,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inf, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open backing services", err)
	}
	defer inf.Close()

	m, err := inf.Mirror()
	if err != nil {
		logger.Fatal("Failed to open mirror", err)
	}
	provider, err := inf.IdentityProvider()
	if err != nil {
		logger.Fatal("Failed to configure identity provider", err)
	}

	// The store restores the mirrored session and cart here.
	st := store.New(m)
	defer st.Close()

	recipeRepo := inf.RecipeRepository()

	authService := service.NewAuthService(provider, st)
	recipeService := service.NewRecipeService(recipeRepo, st)
	cartService := service.NewCartService(recipeRepo, st)
	analyticsService := service.NewAnalyticsService(recipeRepo)

	hub := websocket.NewHub()
	go hub.Run(ctx)
	detach := hub.Attach(st)
	defer detach()

	go authService.Restore(ctx)

	reconciler := scheduler.NewCartReconcileScheduler(cartService, cfg.Scheduler.CartReconcileSpec)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}
	defer reconciler.Stop()

	s3 := storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewRecipeController(recipeService),
		controller.NewStagingController(cartService),
		controller.NewCartController(cartService),
		controller.NewAnalyticsController(analyticsService),
		controller.NewUploadController(s3),
		controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins),
		authService,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server gracefully...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err)
	}
	logger.Info("Server stopped successfully", nil)
}
