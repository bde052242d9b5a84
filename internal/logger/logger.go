package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"blagbl/internal/config"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New builds a logger for the given style: plain key=value text or tint's colored output.
func New(w io.Writer, level slog.Level, style string) *slog.Logger {
	if style == config.StyleEnhanced {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    !colorable(w),
		}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup builds the logger described by cfg. Callers pass it on explicitly.
func Setup(w io.Writer, cfg config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return New(w, level, cfg.Style), nil
}

func colorable(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
