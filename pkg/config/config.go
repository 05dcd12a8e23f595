package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 명세서 원본 소스
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceDocStore = "docstore"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port       string
	Env        string // development, staging, production
	TrustProxy bool   // 리버스 프록시 뒤에서만 X-Forwarded-For 사용

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Document store (명세서 원본)
	DocStore DocStoreConfig

	// Analytics
	Analytics AnalyticsConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool

	RecordCacheTTL  time.Duration // 원본 명세서 캐시
	SnapshotLimit   int           // 클라이언트별 스냅샷 재계산 허용 횟수
	SnapshotWindow  time.Duration
	RateLimitPrefix string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DocStoreConfig holds document store API configuration
type DocStoreConfig struct {
	BaseURL    string
	APIKey     string
	RatePerSec float64
	Timeout    time.Duration
}

// AnalyticsConfig holds engine host settings
type AnalyticsConfig struct {
	OwnerID    string
	ConfigPath string // YAML (internal/analyticsconfig)
	Source     string // file | postgres | docstore
	RecordFile string
	ReportDir  string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port:       getEnv("PORT", "8089"),
		Env:        getEnv("ENV", "development"),
		TrustProxy: getEnvAsBool("TRUST_PROXY", false),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:            getEnv("REDIS_HOST", "localhost"),
			Port:            getEnv("REDIS_PORT", "6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			Enabled:         getEnvAsBool("REDIS_ENABLED", false),
			RecordCacheTTL:  getEnvAsDuration("REDIS_RECORD_CACHE_TTL", "30s"),
			SnapshotLimit:   getEnvAsInt("SNAPSHOT_RATE_LIMIT", 20),
			SnapshotWindow:  getEnvAsDuration("SNAPSHOT_RATE_WINDOW", "10s"),
			RateLimitPrefix: getEnv("SNAPSHOT_RATE_PREFIX", "ratelimit:snapshot"),
		},

		DocStore: DocStoreConfig{
			BaseURL:    getEnv("DOCSTORE_BASE_URL", ""),
			APIKey:     getEnv("DOCSTORE_API_KEY", ""),
			RatePerSec: getEnvAsFloat("DOCSTORE_RATE_PER_SEC", 5),
			Timeout:    getEnvAsDuration("DOCSTORE_TIMEOUT", "15s"),
		},

		Analytics: AnalyticsConfig{
			OwnerID:    getEnv("OWNER_ID", ""),
			ConfigPath: getEnv("ANALYTICS_CONFIG", ""),
			Source:     getEnv("RECORD_SOURCE", SourceFile),
			RecordFile: getEnv("RECORD_FILE", ""),
			ReportDir:  getEnv("REPORT_DIR", "reports"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// 원본 소스별 필수값
	switch c.Analytics.Source {
	case SourceFile:
		// RECORD_FILE은 CLI 플래그로도 줄 수 있어 여기서 강제하지 않음
	case SourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when RECORD_SOURCE=postgres")
		}
	case SourceDocStore:
		if c.DocStore.BaseURL == "" {
			return fmt.Errorf("DOCSTORE_BASE_URL is required when RECORD_SOURCE=docstore")
		}
		if c.DocStore.RatePerSec <= 0 {
			return fmt.Errorf("DOCSTORE_RATE_PER_SEC must be > 0")
		}
	default:
		return fmt.Errorf("RECORD_SOURCE must be one of: file, postgres, docstore")
	}

	if c.Redis.Enabled && (c.Redis.SnapshotLimit <= 0 || c.Redis.SnapshotWindow <= 0) {
		return fmt.Errorf("SNAPSHOT_RATE_LIMIT and SNAPSHOT_RATE_WINDOW must be > 0")
	}

	return nil
}

// IsProduction reports whether ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
