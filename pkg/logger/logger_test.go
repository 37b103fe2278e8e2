package logger

import (
	"testing"

	"careers-portal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_ProductionConfig(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Env: "production",
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
	}

	err := Init(cfg)
	require.NoError(t, err)
	assert.NotNil(t, Logger)

	// Clean up
	Close()
	Logger = nil
}

func TestInit_DevelopmentConfig(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Env: "development",
		},
		Log: config.LogConfig{
			Level:  "debug",
			Format: "console",
		},
	}

	err := Init(cfg)
	require.NoError(t, err)
	assert.NotNil(t, Logger)

	Close()
	Logger = nil
}

func TestInit_LevelMapping(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		cfg := &config.Config{
			Server: config.ServerConfig{Env: "production"},
			Log:    config.LogConfig{Level: level, Format: "json"},
		}

		err := Init(cfg)
		require.NoError(t, err, level)
		Close()
		Logger = nil
	}
}

func TestHelpers_NilLogger(t *testing.T) {
	Logger = nil

	// Helpers must not panic before Init.
	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	child := With(zap.String("key", "value"))
	assert.NotNil(t, child)
}
