package bootstrap

import (
	"context"
	"fmt"

	"github.com/SC0R9I0N/qr-class-manager/internal/cache"
	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/metrics"

	"github.com/sirupsen/logrus"
)

const metricsCacheKeyPrefix = "qr-class-manager:metrics:"

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		logrus.Info("Prometheus metrics initialized")
	} else {
		logrus.Info("Metrics disabled (using noop implementation)")
	}
	return recorder
}

// initializeMetricsCache creates the cache in front of the gauge queries.
// Returns nils when no gauge job will run.
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil, nil
	}

	switch cfg.MetricsCacheType {
	case config.MetricsCacheTypeRedis:
		ctx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
		defer cancel()

		c, err := cache.NewRueidisCache[int64](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			metricsCacheKeyPrefix,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis metrics cache: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"addr": cfg.RedisAddr,
			"db":   cfg.RedisDB,
		}).Info("Metrics cache: redis")
		return c, c.Close, nil

	default:
		c := cache.NewMemoryCache[int64]()
		logrus.Info("Metrics cache: memory (single instance only)")
		return c, c.Close, nil
	}
}
