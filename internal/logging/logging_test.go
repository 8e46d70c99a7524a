package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := ResolveLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ResolveLevel("loud")
	assert.Error(t, err)
}

func TestNewWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "whichkey.log")

	logger, closer, err := newLogger(&console, "info", path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("sequence matched", "keys", "of")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, out := range []string{console.String(), string(data)} {
		assert.Contains(t, out, "sequence matched")
		assert.Contains(t, out, "keys=of")
		assert.NotContains(t, out, "hidden")
	}
}

func TestNewConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := newLogger(&console, "debug", "")
	require.NoError(t, err)
	logger.Debug("key recorded")
	assert.NoError(t, closer.Close())
	assert.Contains(t, console.String(), "key recorded")
}

func TestNewInvalidLevel(t *testing.T) {
	_, _, err := New("verbose", "")
	assert.Error(t, err)
}
