package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineFormat = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[(DEBUG|INFO|WARN|ERROR)\] .+$`)

func TestLineHandler_Format(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelDebug))

	logger.Info("installing packages", "count", 12)
	logger.Warn("salt endpoint slow", "attempt", 2)
	logger.Error("step failed", "step", "database", "err", "exit status 1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Regexp(t, lineFormat, line)
	}
	assert.Contains(t, lines[0], "installing packages count=12")
	assert.Contains(t, lines[2], `err="exit status 1"`)
}

func TestLineHandler_AttrsAndGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo)).
		With("run", "abc").
		WithGroup("step")

	logger.Info("done", "name", "firewall")

	assert.Contains(t, buf.String(), "done run=abc step.name=firewall")
}

func TestLineHandler_FiltersLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(NewLineHandler(&buf, slog.LevelInfo))

	logger.Debug("noise")

	assert.Empty(t, buf.String())
}

func TestOpenRunLog_Appends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "install.log")

	first, err := OpenRunLog(path, slog.LevelInfo)
	require.NoError(t, err)
	slog.New(first.Handler()).Info("first run")
	require.NoError(t, first.Close())

	assert.Zero(t, first.Offset())

	second, err := OpenRunLog(path, slog.LevelInfo)
	require.NoError(t, err)
	before, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.Size(), second.Offset())
	slog.New(second.Handler()).Info("second run")
	require.NoError(t, second.Close())

	assert.Equal(t, path, second.Path())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first run")
	assert.Contains(t, lines[1], "second run")
	assert.Contains(t, string(data[second.Offset():]), "second run")
	assert.NotContains(t, string(data[second.Offset():]), "first run")
}
