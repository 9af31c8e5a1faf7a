package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/themizzi/shopcheck/internal/config"
)

func TestInitialize_JSON(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	var buf bytes.Buffer
	logger := Initialize(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "shopcheck"}, zapcore.AddSync(&buf))
	logger.Named("view").Info("filter applied", zap.String("filter", "Brand"))
	Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "shopcheck.view", entry["logger"])
	assert.Equal(t, "filter applied", entry["msg"])
	assert.Equal(t, "Brand", entry["filter"])
}

func TestInitialize_LevelFilter(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	var buf bytes.Buffer
	logger := Initialize(config.LoggerConfig{Level: "warn", Format: "console"}, zapcore.AddSync(&buf))
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitialize_OnlyOnce(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))
	GetLogger().Info("once")

	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String())
}

func TestInitialize_LogFile(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	path := filepath.Join(t.TempDir(), "run.log")
	var buf bytes.Buffer
	logger := Initialize(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&buf))
	logger.Info("to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestGetLogger_Fallback(t *testing.T) {
	resetLogger()
	assert.NotNil(t, GetLogger())
}
