package bootstrap

import (
	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/handlers"
	"github.com/SC0R9I0N/qr-class-manager/internal/metrics"
	"github.com/SC0R9I0N/qr-class-manager/internal/middleware"
	"github.com/SC0R9I0N/qr-class-manager/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	recorder core.Recorder,
	rateLimitRedisClient *redis.Client,
) (*gin.Engine, error) {
	setupGinMode(cfg)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/health", handlers.Health(db))
	setupMetricsEndpoint(r, cfg)

	scanLimiter, err := setupScanRateLimit(cfg, rateLimitRedisClient)
	if err != nil {
		return nil, err
	}

	setupAPIRoutes(r, cfg, h, recorder, scanLimiter)
	logServerStartup(cfg)

	return r, nil
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		logrus.Info("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		logrus.Info("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		logrus.Warn("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAPIRoutes registers the authenticated attendance and session routes
func setupAPIRoutes(
	r *gin.Engine,
	cfg *config.Config,
	h handlerSet,
	recorder core.Recorder,
	scanLimiter gin.HandlerFunc,
) {
	auth := middleware.BearerAuth(middleware.BearerAuthConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	}, recorder)

	api := r.Group("/", auth)
	{
		api.POST("/attendance/scan", scanLimiter, h.attendance.Scan)
		api.GET("/attendance", h.attendance.List)

		api.POST("/sessions", h.session.Open)
		api.GET("/sessions", h.session.List)
		api.GET("/sessions/:id", h.session.Get)
		api.POST("/sessions/:id/qr", h.session.MintQR)
		api.POST("/sessions/:id/close", h.session.Close)
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	production := cfg.IsProduction()
	gin.SetMode(ginModeMap[production])
	logrus.WithField("mode", ginModeLogMessage[production]).Info("Gin mode configured")
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	logrus.WithFields(logrus.Fields{
		"addr":              cfg.ServerAddr,
		"base_url":          cfg.BaseURL,
		"database":          cfg.DatabaseDriver,
		"qr_expiration":     cfg.QRCodeExpiration.String(),
		"qr_expiry_enforce": cfg.QRExpiryEnforced,
	}).Info("Attendance server starting")
}
