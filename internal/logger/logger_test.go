package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"blagbl/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLogger_New_PlainRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn, config.StylePlain)
	log.Info("hidden")
	log.Warn("shown", "err", "boom")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "level=WARN msg=shown err=boom")
}

func TestLogger_New_Enhanced(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, config.StyleEnhanced)
	log.Debug("loaded", "entries", 3)

	require.Contains(t, buf.String(), "loaded")
	require.Contains(t, buf.String(), "entries")
}

func TestLogger_Setup_ReturnsConfiguredLogger(t *testing.T) {
	t.Parallel()

	before := slog.Default()
	var buf bytes.Buffer
	log, err := Setup(&buf, config.Config{LogLevel: "error", Style: config.StylePlain})
	require.NoError(t, err)
	require.Same(t, before, slog.Default())

	log.Warn("hidden")
	log.Error("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown")

	_, err = Setup(&buf, config.Config{LogLevel: "loud", Style: config.StylePlain})
	require.Error(t, err)
}
