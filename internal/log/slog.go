package log

import (
	"io"
	"log/slog"

	"translit/internal/config"
)

// levelSilent is above every level slog emits, so nothing passes.
const levelSilent = slog.LevelError + 4

// Setup builds the diagnostic logger for a run. Diagnostics are written as
// text to w; --debug enables debug records, --verbose info records, and
// --quiet silences everything. By default only warnings and errors pass.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelFor(cfg),
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func levelFor(cfg *config.Config) slog.Level {
	switch {
	case !cfg.ShouldLog():
		return levelSilent
	case cfg.IsDebug():
		return slog.LevelDebug
	case cfg.IsVerbose():
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}
