package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	// LedgerSourceMode selects which ledger source backs the reporting engine:
	// "raw" reads ledger_transactions directly, "aggregate" reads the
	// precomputed life-to-date tables. Injected into constructors explicitly,
	// never consulted as a process-wide switch.
	LedgerSourceMode string

	HTTPAddr string

	OTLPEndpoint string

	DBType        string
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBSSLMode     string
	DBMaxIdleConn int
	DBMaxOpenConn int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

const (
	SourceModeRaw       = "raw"
	SourceModeAggregate = "aggregate"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:          getenv("APP_SERVICE", "ledgerline"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      getenv("ENVIRONMENT", "development"),
		LedgerSourceMode: normalizeSourceMode(getenv("LEDGER_SOURCE_MODE", SourceModeRaw)),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:           getenv("DATABASE_TYPE", "postgres"),
		DBHost:           getenv("DATABASE_HOST", "localhost"),
		DBPort:           getenv("DATABASE_PORT", "5432"),
		DBName:           getenv("DATABASE_NAME", "postgres"),
		DBUser:           getenv("DATABASE_USER", "postgres"),
		DBPassword:       getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:        getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:    getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:    getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
		RedisDB:          getenvInt("REDIS_DB", 0),
	}
}

func normalizeSourceMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SourceModeAggregate:
		return SourceModeAggregate
	default:
		return SourceModeRaw
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
