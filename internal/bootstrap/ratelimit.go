package bootstrap

import (
	"fmt"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// setupScanRateLimit builds the limiter in front of POST /attendance/scan.
// A pass-through handler is returned when rate limiting is disabled.
func setupScanRateLimit(cfg *config.Config, redisClient *redis.Client) (gin.HandlerFunc, error) {
	if !cfg.EnableRateLimit {
		logrus.Info("Rate limiting disabled")
		return func(c *gin.Context) { c.Next() }, nil
	}

	limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:        cfg.ScanRateLimit,
		StoreType:   middleware.RateLimitStoreType(cfg.RateLimitStore),
		RedisClient: redisClient,
		Prefix:      "qr-class-manager:ratelimit:scan",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scan rate limiter: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"store": cfg.RateLimitStore,
		"rate":  cfg.ScanRateLimit,
	}).Info("Rate limiting enabled for attendance scans")
	return limiter, nil
}
