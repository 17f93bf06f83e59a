// Package testutil provides shared helpers for unit tests.
package testutil

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/pkg/config"
	"github.com/sdaliyot/webcrypto/internal/pkg/logger"
)

// SetupTestLogger sets up a logger for testing purposes.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
	}

	err := logger.InitLogger(settings)
	require.NoError(t, err)

	log, err := logger.GetLogger()
	require.NoError(t, err)

	return log
}

// MustHex decodes a hex string, failing the test on malformed input.
func MustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
