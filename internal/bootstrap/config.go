package bootstrap

import (
	"fmt"

	"github.com/SC0R9I0N/qr-class-manager/internal/config"
)

// validateAllConfiguration validates all configuration settings the server needs
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}
	if err := validateRedisConfig(cfg); err != nil {
		return fmt.Errorf("invalid redis configuration: %w", err)
	}
	return nil
}

// validateRedisConfig checks that REDIS_ADDR is present when a component uses Redis
func validateRedisConfig(cfg *config.Config) error {
	needsRedis := (cfg.EnableRateLimit && cfg.RateLimitStore == config.RateLimitStoreRedis) ||
		(cfg.MetricsEnabled && cfg.MetricsGaugeUpdateEnabled &&
			cfg.MetricsCacheType == config.MetricsCacheTypeRedis)
	if needsRedis && cfg.RedisAddr == "" {
		return fmt.Errorf("%w: REDIS_ADDR", config.ErrMissingSetting)
	}
	return nil
}
