package config_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/sancris/concierge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFansOutToBothWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := config.SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("message delivered", "chat", 42)

	assert.Contains(t, stderr.String(), "message delivered")
	assert.Contains(t, stderr.String(), "chat=42")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &entry))
	assert.Equal(t, "message delivered", entry["msg"])
	assert.Equal(t, float64(42), entry["chat"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := config.SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("noise")
	logger.Info("still noise")

	assert.Empty(t, stderr.String())
	assert.Empty(t, file.String())
}

func TestSetupLoggerFallsBackWithoutFile(t *testing.T) {
	// A directory path cannot be opened as a log file.
	logger, cleanup := config.SetupLogger(t.TempDir(), slog.LevelInfo)
	require.NotNil(t, logger)
	assert.NoError(t, cleanup())
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concierge.log")
	logger, cleanup := config.SetupLogger(path, slog.LevelInfo)
	require.NotNil(t, logger)
	require.NoError(t, cleanup())
}
