package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdaliyot/webcrypto/internal/app"
	"github.com/sdaliyot/webcrypto/internal/domain/keys"
	"github.com/sdaliyot/webcrypto/internal/infrastructure/keystore"
	"github.com/sdaliyot/webcrypto/internal/pkg/config"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// setupLogger initializes the singleton console logger for CLI use.
func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelWarning,
		LogType:  config.LogTypeConsole,
	}
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.GetLogger()
}

// setupSubtle builds a provider table over a fresh in-memory registry.
// Handles read from disk are resolved through their sealed snapshots.
func setupSubtle() (*app.Subtle, logger.Logger, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	registry, err := keystore.NewRegistry(nil, loggerInstance)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create key registry: %w", err)
	}

	subtle, err := app.NewSubtle(registry, loggerInstance)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create provider table: %w", err)
	}

	return subtle, loggerInstance, nil
}

// writeHandle persists a key handle as JSON.
func writeHandle(path string, handle *keys.Handle) error {
	data, err := json.Marshal(handle)
	if err != nil {
		return fmt.Errorf("failed to serialize key handle: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write key handle: %w", err)
	}
	return nil
}

// decodeHexFlag decodes an optional hex-encoded flag value. Empty input
// yields a nil slice.
func decodeHexFlag(name, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	decoded, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s flag, expected hex: %w", name, err)
	}
	return decoded, nil
}

// readHandle loads a key handle from a JSON file.
func readHandle(path string) (*keys.Handle, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read key handle: %w", err)
	}
	var handle keys.Handle
	if err := json.Unmarshal(data, &handle); err != nil {
		return nil, fmt.Errorf("failed to parse key handle: %w", err)
	}
	return &handle, nil
}
