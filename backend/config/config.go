// ABOUTME: Configuration loader for backend service
// ABOUTME: Loads settings from environment variables (and an optional .env file) with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultCalculatorURL = "http://127.0.0.1:15050"

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, for upstream model/option lookups (default 300)
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)
	ShutdownTimeout    time.Duration
	MetricsEnabled     bool // expose /metrics and record request metrics (default: true)

	// Calculation service
	CalculatorURL      string
	CalculatorTimeout  time.Duration // per-attempt timeout (default 30s)
	CalculatorRetryMax int           // retries on 5xx/connection errors (default 2)

	// Rate Limiting
	RateLimitEnabled   bool // Enable rate limiting (default: true)
	RateLimitCalculate int  // Requests per minute for calculation endpoints (default: 30)
	RateLimitDefault   int  // Requests per minute for all other endpoints (default: 100)
}

// Load reads configuration from the environment. Values in the file named by
// ENV_FILE (default ".env") are applied first without overriding real
// environment variables; a missing file is not an error.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout:    time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),

		CalculatorURL:      ensureScheme(getEnv("CALCULATOR_URL", defaultCalculatorURL)),
		CalculatorTimeout:  time.Duration(getEnvInt("CALCULATOR_TIMEOUT_SECONDS", 30)) * time.Second,
		CalculatorRetryMax: getEnvInt("CALCULATOR_RETRY_MAX", 2),

		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitCalculate: getEnvInt("RATE_LIMIT_CALCULATE", 30),
		RateLimitDefault:   getEnvInt("RATE_LIMIT_DEFAULT", 100),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.CalculatorURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("CALCULATOR_URL is not a valid URL: %q", c.CalculatorURL)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %d", c.CacheTTL)
	}
	if c.CalculatorTimeout <= 0 {
		return fmt.Errorf("CALCULATOR_TIMEOUT_SECONDS must be positive")
	}
	if c.CalculatorRetryMax < 0 || c.CalculatorRetryMax > 10 {
		return fmt.Errorf("CALCULATOR_RETRY_MAX must be between 0 and 10, got %d", c.CalculatorRetryMax)
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_CALCULATE", c.RateLimitCalculate},
		{"RATE_LIMIT_DEFAULT", c.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds http:// prefix if the URL has no scheme; the calculation
// service is normally a local sidecar without TLS.
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
