// ABOUTME: Debug logger for the TUI that writes structured lines to a file
// ABOUTME: Keeps log output off the terminal while the alternate screen is active

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// DefaultDir returns the directory debug logs go to, or "" when
// GPU_MEMORY_DEBUG is unset.
func DefaultDir() string {
	if os.Getenv("GPU_MEMORY_DEBUG") == "" {
		return ""
	}
	if dir := os.Getenv("GPU_MEMORY_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gpu-memory")
}

// Init opens configDir/debug.log for appending. An empty configDir
// disables logging.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	if configDir == "" {
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	logFile = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return nil
}

// Close closes the log file and disables logging.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Log writes a debug message with key/value attributes.
func Log(msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Debug(msg, args...)
}

// Error logs err with context. Nil errors are ignored.
func Error(context string, err error) {
	if err == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger.Error(context, "error", err)
}
