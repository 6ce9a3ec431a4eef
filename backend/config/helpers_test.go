// ABOUTME: Test helpers for config tests
// ABOUTME: Isolates each test from the caller's environment and any .env file

package config

import (
	"os"
	"path/filepath"
	"testing"
)

var configKeys = []string{
	"PORT", "CACHE_TTL", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT_SECONDS", "METRICS_ENABLED",
	"CALCULATOR_URL", "CALCULATOR_TIMEOUT_SECONDS", "CALCULATOR_RETRY_MAX",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_CALCULATE", "RATE_LIMIT_DEFAULT",
}

// setCleanEnv unsets every variable Load reads, points ENV_FILE at a file
// that does not exist, then applies extra. t.Setenv restores the originals.
func setCleanEnv(t *testing.T, extra map[string]string) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for key, value := range extra {
		t.Setenv(key, value)
	}
}
