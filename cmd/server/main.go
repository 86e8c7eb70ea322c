package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZanzyTHEbar/review-o-meter/internal/config"
	"github.com/ZanzyTHEbar/review-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/review-o-meter/internal/inference"
	"github.com/ZanzyTHEbar/review-o-meter/internal/monitoring"
	"github.com/gin-gonic/gin"
)

// @title						Review-o-Meter API
// @version					1.0.0
// @description				Movie review sentiment form backed by a remote inference service.
// @BasePath					/
// @accept						json
// @produce					json
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Validate already rejected unknown levels
	level, _ := cfg.SlogLevel()
	appLogger := monitoring.NewLogger(cfg.LogFormat, level)
	slog.SetDefault(appLogger.Logger)

	gin.SetMode(cfg.GinMode)

	appMetrics := monitoring.NewMetrics()

	client, err := inference.New(cfg,
		inference.WithLogger(appLogger),
		inference.WithMetrics(appMetrics),
	)
	if err != nil {
		slog.Error("Failed to create inference client", "error", err)
		os.Exit(1)
	}
	defer errors.SafeClose(client, "inference client")

	if cfg.APIVariant == config.VariantJSON && cfg.APIURL == "" {
		slog.Warn("API_URL is not set; submissions will fail", "endpoint", client.Endpoint())
	}

	r, err := newRouter(routerDeps{
		cfg:      cfg,
		analyzer: client,
		variant:  client.Variant(),
		logger:   appLogger,
		metrics:  appMetrics,
	})
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server",
			"port", cfg.Port,
			"api_variant", cfg.APIVariant,
			"endpoint", client.Endpoint(),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}
