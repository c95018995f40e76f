package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	StorageDriver  string
	DatabaseURL    string
	RunMigrations  bool
	MigrationsPath string

	JWTSecret          string
	RateLimit          string // limiter format, e.g. "100-M"
	CORSAllowedOrigins []string

	RedisURL        string // empty disables the balance cache
	BalanceCacheTTL time.Duration

	SequenceMaxRetries int
	SequencePrefixes   map[string]string // document type -> prefix overrides

	VarianceDecomposer string
	VarianceRatios     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("BALANCE_CACHE_TTL", "30s")
	v.SetDefault("SEQUENCE_MAX_RETRIES", 5)
	v.SetDefault("SEQUENCE_PREFIXES", "")
	v.SetDefault("VARIANCE_DECOMPOSER", "single")
	v.SetDefault("VARIANCE_RATIOS", "")

	// Environment variables override the defaults and the .env file.
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		StorageDriver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:        v.GetString("PGSQL_URL"),
		RunMigrations:      v.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RedisURL:           v.GetString("REDIS_URL"),
		SequenceMaxRetries: v.GetInt("SEQUENCE_MAX_RETRIES"),
		VarianceDecomposer: v.GetString("VARIANCE_DECOMPOSER"),
		VarianceRatios:     v.GetString("VARIANCE_RATIOS"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("BALANCE_CACHE_TTL"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid BALANCE_CACHE_TTL %q", v.GetString("BALANCE_CACHE_TTL"))
	}
	cfg.BalanceCacheTTL = ttl

	prefixes, err := parsePrefixes(v.GetString("SEQUENCE_PREFIXES"))
	if err != nil {
		return nil, err
	}
	cfg.SequencePrefixes = prefixes

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %s", StorageDriverPostgres)
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureJWTSecret // !! CHANGE IN PRODUCTION !!
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.SequenceMaxRetries <= 0 {
		cfg.SequenceMaxRetries = 1
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePrefixes reads "INVOICE:INV,CREDIT_NOTE:CN".
func parsePrefixes(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range splitList(raw) {
		docType, prefix, ok := strings.Cut(pair, ":")
		docType, prefix = strings.TrimSpace(docType), strings.TrimSpace(prefix)
		if !ok || docType == "" || prefix == "" {
			return nil, fmt.Errorf("invalid SEQUENCE_PREFIXES entry %q, want TYPE:PREFIX", pair)
		}
		out[strings.ToUpper(docType)] = prefix
	}
	return out, nil
}
