package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Options selects the handler built by New.
type Options struct {
	Level slog.Level
	// Format is "json" or "text".
	Format string
	// Color marks ERROR messages in red. Only meaningful for text output.
	Color bool
}

// New creates a new slog.Logger writing to w.
// json: JSONHandler (for log collection)
// text: TextHandler, optionally with colored ERROR messages
func New(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	switch {
	case opts.Format == "json":
		handler = slog.NewJSONHandler(w, hopts)
	case opts.Color:
		handler = newColorTextHandler(w, hopts)
	default:
		handler = slog.NewTextHandler(w, hopts)
	}
	return slog.New(handler)
}

// NewStderr logs to standard error, so log lines never land in the console
// transcript on standard output. Color is used when stderr is a terminal.
func NewStderr(level slog.Level, format string) *slog.Logger {
	return New(os.Stderr, Options{
		Level:  level,
		Format: format,
		Color:  term.IsTerminal(int(os.Stderr.Fd())),
	})
}

// colorTextHandler wraps TextHandler to add red color to ERROR level
type colorTextHandler struct {
	handler slog.Handler
}

func newColorTextHandler(w io.Writer, opts *slog.HandlerOptions) *colorTextHandler {
	return &colorTextHandler{
		handler: slog.NewTextHandler(w, opts),
	}
}

func (h *colorTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *colorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		colored := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("\x1b[31m%s\x1b[0m", r.Message), r.PC)
		r.Attrs(func(a slog.Attr) bool {
			colored.AddAttrs(a)
			return true
		})
		return h.handler.Handle(ctx, colored)
	}
	return h.handler.Handle(ctx, r)
}

func (h *colorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorTextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *colorTextHandler) WithGroup(name string) slog.Handler {
	return &colorTextHandler{handler: h.handler.WithGroup(name)}
}
