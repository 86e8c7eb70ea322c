package main

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/review-o-meter/docs"
	"github.com/ZanzyTHEbar/review-o-meter/internal/config"
	"github.com/ZanzyTHEbar/review-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/review-o-meter/internal/frontend"
	"github.com/ZanzyTHEbar/review-o-meter/internal/middleware"
	"github.com/ZanzyTHEbar/review-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/review-o-meter/internal/review"
	"github.com/ZanzyTHEbar/review-o-meter/internal/security"
)

const assetsPrefix = "/assets"

type routerDeps struct {
	cfg      *config.Config
	analyzer review.Analyzer
	variant  review.Variant
	logger   *monitoring.Logger
	metrics  *monitoring.Metrics
}

func newRouter(deps routerDeps) (*gin.Engine, error) {
	tmpl, err := frontend.LoadIndexTemplate()
	if err != nil {
		return nil, err
	}
	staticFS, err := frontend.GetStaticFS()
	if err != nil {
		return nil, err
	}

	pages := frontend.NewHandler(tmpl, deps.analyzer, deps.variant, deps.logger, deps.metrics)

	r := gin.New()

	// Request IDs first so every later log line carries one
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(deps.metrics, deps.logger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(security.SecurityHeadersMiddleware(deps.cfg.EnableHSTS))
	r.Use(middleware.Gzip(middleware.DefaultCompressionConfig()))

	csp := security.CSPMiddleware("")
	r.GET("/", csp, pages.ShowForm)
	r.POST("/", csp, pages.SubmitForm)
	r.GET(assetsPrefix+"/*filepath", frontend.NewAssetHandler(staticFS, assetsPrefix))

	api := r.Group("/api")
	if corsMiddleware := newCORS(deps.cfg.AllowedOrigins); corsMiddleware != nil {
		api.Use(corsMiddleware)
		// Preflight requests only reach group middleware through a matching route
		api.OPTIONS("/analyze", func(c *gin.Context) {})
	}
	api.POST("/analyze", analyzeHandler(pages))

	r.GET("/health", healthHandler(deps.cfg))
	r.GET("/metrics", metricsHandler(deps.metrics))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r, nil
}

// newCORS returns nil when no origin is allowed. A "*" entry allows any origin.
func newCORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}

	corsConfig := cors.Config{
		AllowMethods:     []string{"POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", monitoring.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", monitoring.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	return cors.New(corsConfig)
}
