package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/petasbytes/go-toolgen/internal/config"
)

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := newLogger(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeLog()) }()

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolgen.log")
	var buf bytes.Buffer
	log, closeLog, err := newLogger(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1}, &buf)
	require.NoError(t, err)

	log.Info("generated", zap.String("file", "calc.go"))
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Equal(t, "generated", gjson.Get(line, "msg").String())
	assert.Equal(t, "calc.go", gjson.Get(line, "file").String())
	assert.Contains(t, buf.String(), "generated")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewLogger_CloseReleasesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toolgen.log")
	log, closeLog, err := newLogger(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, &bytes.Buffer{})
	require.NoError(t, err)

	log.Info("first")
	require.NoError(t, closeLog())
	require.NoError(t, os.Rename(path, filepath.Join(dir, "moved.log")))

	// lumberjack reopens lazily; a write after close lands in a fresh file.
	log.Info("second")
	require.NoError(t, closeLog())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
	assert.NotContains(t, string(data), "first")
}
