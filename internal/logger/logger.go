package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"estatehub/internal/config"
)

// Options configures the process logger.
type Options struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer
	Level  slog.Leveler
	// JSON switches to slog's JSON handler; otherwise tint renders colored text.
	JSON      bool
	AddSource bool
}

// New builds a slog.Logger. Colored text output is used for local runs and
// JSON for anything shipped to a collector.
func New(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{
			AddSource: opts.AddSource,
			Level:     opts.Level,
		})
	} else {
		handler = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      opts.Level,
			AddSource:  opts.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	}
	return slog.New(handler)
}

// FromConfig maps the LOG_* settings onto Options.
func FromConfig(cfg config.LogConfig) *slog.Logger {
	return New(Options{
		Level: cfg.Level,
		JSON:  cfg.Format == "json",
	})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
