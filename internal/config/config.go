package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	defaultGRPCAddr     = ":8080"
	defaultHTTPAddr     = ":8081"
	defaultAnalystToken = "dev-token"
	defaultAdminToken   = "dev-admin-token"
	defaultCeiling      = "1000000000000"
	defaultStartupDelay = 2 * time.Second
)

// Config holds the server configuration
type Config struct {
	DBConnStr         string
	GRPCAddr          string
	HTTPAddr          string
	AnalystToken      string
	AdminToken        string
	MaxFinancialValue decimal.Decimal
	LogLevel          slog.Level
	LogFormat         string // "text" or "json"
	DBStartupDelay    time.Duration
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a variable lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DBConnStr:    getenv("DB_CONN_STR"),
		GRPCAddr:     get("GRPC_ADDR", defaultGRPCAddr),
		HTTPAddr:     get("HTTP_ADDR", defaultHTTPAddr),
		AnalystToken: get("ANALYST_TOKEN", defaultAnalystToken),
		AdminToken:   get("ADMIN_TOKEN", defaultAdminToken),
		LogFormat:    strings.ToLower(get("LOG_FORMAT", "text")),
	}

	if cfg.DBConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			get("DB_HOST", "localhost"),
			get("DB_PORT", "5432"),
			get("DB_USER", "postgres"),
			get("DB_PASSWORD", "postgres"),
			get("DB_NAME", "stagelens"))
	}

	ceiling, err := decimal.NewFromString(get("MAX_FINANCIAL_VALUE", defaultCeiling))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FINANCIAL_VALUE: %w", err)
	}
	if !ceiling.IsPositive() {
		return nil, fmt.Errorf("invalid MAX_FINANCIAL_VALUE: must be positive, got %s", ceiling)
	}
	cfg.MaxFinancialValue = ceiling

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}

	cfg.DBStartupDelay = defaultStartupDelay
	if v := get("DB_STARTUP_DELAY", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_STARTUP_DELAY: %w", err)
		}
		cfg.DBStartupDelay = d
	}

	if cfg.AnalystToken == cfg.AdminToken {
		return nil, errors.New("ANALYST_TOKEN and ADMIN_TOKEN must differ")
	}

	return cfg, nil
}

// NewLogger builds the process logger from the configured level and format
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
