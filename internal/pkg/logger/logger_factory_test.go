//go:build unit
// +build unit

package logger

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdaliyot/webcrypto/internal/pkg/config"
)

func resetLoggerSingleton() {
	loggerInstance = nil
	loggerErr = nil
	loggerOnce = sync.Once{}
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		settings func(t *testing.T) *config.LoggerSettings
		wantErr  bool
	}{
		{
			name: "console logger",
			settings: func(_ *testing.T) *config.LoggerSettings {
				return &config.LoggerSettings{
					LogLevel: config.LogLevelInfo,
					LogType:  config.LogTypeConsole,
				}
			},
			wantErr: false,
		},
		{
			name: "file logger with rotation",
			settings: func(t *testing.T) *config.LoggerSettings {
				return &config.LoggerSettings{
					LogLevel:   config.LogLevelDebug,
					LogType:    config.LogTypeFile,
					FilePath:   filepath.Join(t.TempDir(), "app.log"),
					MaxSize:    10,
					MaxBackups: 3,
					MaxAge:     28,
				}
			},
			wantErr: false,
		},
		{
			name: "invalid log level",
			settings: func(_ *testing.T) *config.LoggerSettings {
				return &config.LoggerSettings{
					LogLevel: "invalid",
					LogType:  config.LogTypeConsole,
				}
			},
			wantErr: true,
		},
		{
			name: "file logger missing rotation settings",
			settings: func(_ *testing.T) *config.LoggerSettings {
				return &config.LoggerSettings{
					LogLevel: config.LogLevelInfo,
					LogType:  config.LogTypeFile,
					FilePath: "/tmp/test.log",
				}
			},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resetLoggerSingleton()

			err := InitLogger(test.settings(t))
			if test.wantErr {
				require.Error(t, err)

				_, err = GetLogger()
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			log, err := GetLogger()
			require.NoError(t, err)
			assert.NotNil(t, log)

			log.Info("initialized")
		})
	}
}

func TestGetLoggerBeforeInit(t *testing.T) {
	resetLoggerSingleton()

	_, err := GetLogger()
	assert.Error(t, err)
}
