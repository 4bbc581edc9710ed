package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keepDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestNew_JSONFormat(t *testing.T) {
	keepDefault(t)
	var buf bytes.Buffer

	logger, err := New(&buf, "info", "json")
	require.NoError(t, err)

	logger.Info("screen loaded", "screen", "friends", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "screen loaded", entry["msg"])
	assert.Equal(t, "friends", entry["screen"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNew_LevelFilters(t *testing.T) {
	keepDefault(t)
	var buf bytes.Buffer

	logger, err := New(&buf, "warn", "text")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_InstallsDefault(t *testing.T) {
	keepDefault(t)
	var buf bytes.Buffer

	_, err := New(&buf, "debug", "text")
	require.NoError(t, err)

	slog.Debug("via default")
	assert.Contains(t, buf.String(), "via default")
}

func TestNew_RejectsUnknownValues(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "trace", "text")
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
