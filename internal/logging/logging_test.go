package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "json", "debug")
		require.NoError(t, err)
		logger.Debug("search completed", "found", 3)

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "search completed", rec["msg"])
		assert.Equal(t, float64(3), rec["found"])
	})

	t.Run("text filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "text", "warn")
		require.NoError(t, err)
		logger.Info("hidden")
		assert.Empty(t, buf.String())
		logger.Warn("skipping candidate", "id", "a.jpg")
		assert.Contains(t, buf.String(), "id=a.jpg")
	})

	t.Run("errors", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, "xml", "info")
		assert.Error(t, err)
		_, err = New(&bytes.Buffer{}, "text", "loud")
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
