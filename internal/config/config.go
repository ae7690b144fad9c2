package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store backend constants
const (
	TokenStoreFile   = "file"
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Metrics cache constants
const (
	MetricsCacheTypeMemory = "memory"
	MetricsCacheTypeRedis  = "redis"
)

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

// Log format constants
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const defaultJWTSecret = "your-256-bit-secret-change-in-production"

// ErrMissingSetting is returned when a command needs a value that is unset.
var ErrMissingSetting = errors.New("missing required setting")

type Config struct {
	// Identity provider (client side)
	IdentityAPIURL             string
	IdentityClientID           string
	IdentityAPITimeout         time.Duration
	IdentityInsecureSkipVerify bool

	// Attendance API (client side)
	AttendanceAPIURL             string
	AttendanceAPITimeout         time.Duration
	AttendanceInsecureSkipVerify bool
	AttendanceAPIMaxRetries      int
	AttendanceAPIRetryDelay      time.Duration
	AttendanceAPIMaxRetryDelay   time.Duration
	SubmitTimeout                time.Duration // Upper bound for one scan, token refresh included

	// Token store
	TokenStore     string // "file", "memory" or "redis"
	TokenStorePath string // File store location (default: user config dir)
	TokenStoreTTL  time.Duration

	// Values sent with every scan
	ClientLocation   string
	ClientDeviceInfo string

	// Server settings
	ServerAddr  string
	BaseURL     string
	Environment string

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Bearer verification
	JWTSecret   string
	JWTIssuer   string // Optional, checked when set
	JWTAudience string // Optional, checked when set

	// QR codes
	QRCodeExpiration time.Duration
	QRExpiryEnforced bool

	// Rate limiting
	EnableRateLimit bool
	ScanRateLimit   string // ulule/limiter format, e.g. "30-M"
	RateLimitStore  string // "memory" or "redis"

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string // Bearer token for /metrics; empty leaves it open
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheTTL            time.Duration
	MetricsCacheType           string // "memory" or "redis"

	// Redis (token store, rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Timeouts
	DBInitTimeout         time.Duration
	DBCloseTimeout        time.Duration
	RedisConnTimeout      time.Duration
	RedisCloseTimeout     time.Duration
	ServerShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", DatabaseDriverSQLite)
	var dsn string
	if driver == DatabaseDriverSQLite {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "attendance.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		IdentityAPIURL:             getEnv("IDENTITY_API_URL", ""),
		IdentityClientID:           getEnv("IDENTITY_CLIENT_ID", ""),
		IdentityAPITimeout:         getEnvDuration("IDENTITY_API_TIMEOUT", 10*time.Second),
		IdentityInsecureSkipVerify: getEnvBool("IDENTITY_INSECURE_SKIP_VERIFY", false),

		AttendanceAPIURL:             getEnv("ATTENDANCE_API_URL", "http://localhost:8080"),
		AttendanceAPITimeout:         getEnvDuration("ATTENDANCE_API_TIMEOUT", 10*time.Second),
		AttendanceInsecureSkipVerify: getEnvBool("ATTENDANCE_INSECURE_SKIP_VERIFY", false),
		AttendanceAPIMaxRetries:      getEnvInt("ATTENDANCE_API_MAX_RETRIES", 2),
		AttendanceAPIRetryDelay:      getEnvDuration("ATTENDANCE_API_RETRY_DELAY", 500*time.Millisecond),
		AttendanceAPIMaxRetryDelay:   getEnvDuration("ATTENDANCE_API_MAX_RETRY_DELAY", 5*time.Second),
		SubmitTimeout:                getEnvDuration("SUBMIT_TIMEOUT", 15*time.Second),

		TokenStore:     getEnv("TOKEN_STORE", TokenStoreFile),
		TokenStorePath: getEnv("TOKEN_STORE_PATH", ""),
		TokenStoreTTL:  getEnvDuration("TOKEN_STORE_TTL", 720*time.Hour), // 30 days

		ClientLocation:   getEnv("CLIENT_LOCATION", ""),
		ClientDeviceInfo: getEnv("CLIENT_DEVICE_INFO", ""),

		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		JWTIssuer:   getEnv("JWT_ISSUER", ""),
		JWTAudience: getEnv("JWT_AUDIENCE", ""),

		QRCodeExpiration: getEnvDuration("QR_CODE_EXPIRATION", 60*time.Minute),
		QRExpiryEnforced: getEnvBool("QR_EXPIRY_ENFORCED", true),

		EnableRateLimit: getEnvBool("ENABLE_RATE_LIMIT", true),
		ScanRateLimit:   getEnv("SCAN_RATE_LIMIT", "30-M"),
		RateLimitStore:  getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 5*time.Minute),
		MetricsCacheTTL:            getEnvDuration("METRICS_CACHE_TTL", 5*time.Minute),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", MetricsCacheTypeMemory),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", LogFormatText),

		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		DBCloseTimeout:        getEnvDuration("DB_CLOSE_TIMEOUT", 5*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		RedisCloseTimeout:     getEnvDuration("REDIS_CLOSE_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// IsProduction reports whether ENVIRONMENT is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreMemory, TokenStoreRedis:
	default:
		return fmt.Errorf(
			"invalid TOKEN_STORE value: %q (must be %q, %q or %q)",
			c.TokenStore, TokenStoreFile, TokenStoreMemory, TokenStoreRedis,
		)
	}

	if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis,
		)
	}

	if c.MetricsCacheType != MetricsCacheTypeMemory && c.MetricsCacheType != MetricsCacheTypeRedis {
		return fmt.Errorf(
			"invalid METRICS_CACHE_TYPE value: %q (must be %q or %q)",
			c.MetricsCacheType, MetricsCacheTypeMemory, MetricsCacheTypeRedis,
		)
	}

	if c.DatabaseDriver != DatabaseDriverSQLite && c.DatabaseDriver != DatabaseDriverPostgres {
		return fmt.Errorf(
			"invalid DATABASE_DRIVER value: %q (must be %q or %q)",
			c.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres,
		)
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf(
			"invalid LOG_FORMAT value: %q (must be %q or %q)",
			c.LogFormat, LogFormatText, LogFormatJSON,
		)
	}

	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("SUBMIT_TIMEOUT must be positive, got %v", c.SubmitTimeout)
	}
	if c.QRCodeExpiration <= 0 {
		return fmt.Errorf("QR_CODE_EXPIRATION must be positive, got %v", c.QRCodeExpiration)
	}
	if c.AttendanceAPIMaxRetries < 0 {
		return fmt.Errorf(
			"ATTENDANCE_API_MAX_RETRIES must not be negative, got %d",
			c.AttendanceAPIMaxRetries,
		)
	}

	if c.MetricsGaugeUpdateEnabled && c.MetricsGaugeUpdateInterval <= 0 {
		return fmt.Errorf(
			"METRICS_GAUGE_UPDATE_INTERVAL must be positive, got %v",
			c.MetricsGaugeUpdateInterval,
		)
	}

	return nil
}

// ValidateIdentity checks the settings needed to talk to the identity provider.
func (c *Config) ValidateIdentity() error {
	if c.IdentityAPIURL == "" {
		return fmt.Errorf("%w: IDENTITY_API_URL", ErrMissingSetting)
	}
	if c.IdentityClientID == "" {
		return fmt.Errorf("%w: IDENTITY_CLIENT_ID", ErrMissingSetting)
	}
	return nil
}

// ValidateServer checks the settings needed to run the attendance server.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be changed in production")
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("%w: DATABASE_DSN", ErrMissingSetting)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
