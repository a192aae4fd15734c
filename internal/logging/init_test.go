package logging

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name      string
		logType   string
		level     string
		wantError bool
	}{
		{"json/info", JSON, "info", false},
		{"text/debug", Text, "debug", false},
		{"tint/warn", Tint, "warn", false},
		{"default format", "", "error", false},
		{"invalid level", JSON, "bogus", true},
		{"unknown type", "xml", "info", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Initialize(io.Discard, tt.logType, tt.level)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTee_WritesToAllHandlers(t *testing.T) {
	t.Parallel()
	var a, b bytes.Buffer

	logger := Tee(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		NewLineHandler(&b, slog.LevelInfo),
	)
	logger.Info("step completed", "step", "packages")

	assert.Contains(t, a.String(), "step completed")
	assert.Contains(t, b.String(), "[INFO] step completed step=packages")
}

func TestTee_RespectsPerHandlerLevel(t *testing.T) {
	t.Parallel()
	var console, file bytes.Buffer

	logger := Tee(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		NewLineHandler(&file, slog.LevelDebug),
	)
	logger.Debug("apt-get output", "lines", 3)

	assert.Empty(t, console.String())
	require.Contains(t, file.String(), "[DEBUG] apt-get output lines=3")
}
