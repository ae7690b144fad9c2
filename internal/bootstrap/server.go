package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
	"github.com/SC0R9I0N/qr-class-manager/internal/core"
	"github.com/SC0R9I0N/qr-class-manager/internal/metrics"
	"github.com/SC0R9I0N/qr-class-manager/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		select {
		case err := <-errCh:
			logrus.WithError(err).Error("Failed to start server")
			return err
		case <-ctx.Done():
			return nil
		}
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, cfg *config.Config, srv *http.Server) {
	m.AddShutdownJob(func() error {
		logrus.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logrus.WithError(err).Warn("Server forced to shutdown")
			return err
		}

		logrus.Info("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		logrus.Info("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing Redis client")
			return err
		}
		logrus.Info("Redis connection closed")
		return nil
	})
}

// addDatabaseShutdownJob closes the database pool
func addDatabaseShutdownJob(m *graceful.Manager, cfg *config.Config, db *store.Store) {
	m.AddShutdownJob(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DBCloseTimeout)
		defer cancel()

		if err := db.Close(ctx); err != nil {
			logrus.WithError(err).Warn("Error closing database")
			return err
		}
		logrus.Info("Database closed")
		return nil
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db core.MetricsStore,
	recorder core.Recorder,
	metricsCache core.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.MetricsGaugeUpdateInterval)
		defer ticker.Stop()

		cacheWrapper := metrics.NewCacheWrapper(db, metricsCache)

		updateGaugeMetricsWithCache(ctx, cacheWrapper, recorder, cfg.MetricsCacheTTL)

		for {
			select {
			case <-ticker.C:
				updateGaugeMetricsWithCache(ctx, cacheWrapper, recorder, cfg.MetricsCacheTTL)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addCacheCleanupJob adds cache cleanup on shutdown
func addCacheCleanupJob(m *graceful.Manager, metricsCacheCloser func() error) {
	if metricsCacheCloser == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := metricsCacheCloser(); err != nil {
			logrus.WithError(err).Warn("Error closing metrics cache")
		} else {
			logrus.Info("Metrics cache closed")
		}
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	mu              sync.Mutex
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

// newErrorLogger creates a new error logger with rate limiting
func newErrorLogger() *errorLogger {
	return &errorLogger{
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // At most once per 5 minutes per operation
	}
}

// logIfNeeded logs an error only if rate limit allows. Reports whether it logged.
func (e *errorLogger) logIfNeeded(operation string, err error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	lastTime, exists := e.lastErrorTimes[operation]
	if exists && now.Sub(lastTime) < e.rateLimitWindow {
		return false
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"operation":      operation,
		"suppressed_for": e.rateLimitWindow.String(),
	}).Warn("Database query failed")
	e.lastErrorTimes[operation] = now
	return true
}

var gaugeErrorLogger = newErrorLogger()

// updateGaugeMetricsWithCache refreshes the active sessions gauge through the
// cache so replicas sharing Redis do not all hit the database.
func updateGaugeMetricsWithCache(
	ctx context.Context,
	cacheWrapper *metrics.CacheWrapper,
	recorder core.Recorder,
	cacheTTL time.Duration,
) {
	activeSessions, err := cacheWrapper.GetActiveSessionsCount(ctx, cacheTTL)
	if err != nil {
		recorder.RecordDatabaseQueryError("count_active_sessions")
		gaugeErrorLogger.logIfNeeded("count_active_sessions", err)
		return
	}
	recorder.SetActiveSessionsCount(int(activeSessions))
}
