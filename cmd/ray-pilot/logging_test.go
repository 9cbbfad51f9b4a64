package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ray-pilot/config"
)

// TestLogPath verifies the output target for each mode
func TestLogPath(t *testing.T) {
	assert.Equal(t, "stderr", logPath(config.LoggingConfig{}, false))
	assert.Equal(t, filepath.Join(logDir, logFileName), logPath(config.LoggingConfig{}, true))
	assert.Equal(t, "x.log", logPath(config.LoggingConfig{File: "x.log"}, true))
}

// TestNewLoggerWritesFile verifies file logging creates the directory and writes entries
func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", logFileName)
	logger, err := newLogger(config.LoggingConfig{Level: "debug", Format: "json", File: path}, false)
	require.NoError(t, err)

	logger.Debug("probe message")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "probe message")
}

// TestNewLoggerLevelFilter verifies entries below the configured level are dropped
func TestNewLoggerLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), logFileName)
	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "console", File: path}, false)
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

// TestLogRotation verifies an oversized log is renamed aside before reopening
func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, logFileName)
	require.NoError(t, os.WriteFile(path, make([]byte, maxLogSize+1), 0o644))

	logger, err := newLogger(config.LoggingConfig{Level: "info", File: path}, false)
	require.NoError(t, err)
	logger.Info("fresh")
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var rotated int
	for _, e := range entries {
		if e.Name() != logFileName && strings.HasPrefix(e.Name(), "ray-pilot_") && strings.HasSuffix(e.Name(), ".log") {
			rotated++
		}
	}
	assert.Equal(t, 1, rotated)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}

// TestRotateLogSmallFile verifies files under the limit stay in place
func TestRotateLogSmallFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), logFileName)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, rotateLog(path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, rotateLog(filepath.Join(t.TempDir(), "missing.log")))
}
