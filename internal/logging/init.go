package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// Console handler formats.
const (
	JSON = "json"
	Text = "text"
	Tint = "tint"
)

// ParseLevel converts a level name such as "debug" into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, fmt.Errorf("could not parse log level: %w", err)
	}
	return level, nil
}

// NewConsoleHandler builds the console handler for the given format.
func NewConsoleHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case JSON:
		return slog.NewJSONHandler(w, opts), nil
	case Text:
		return slog.NewTextHandler(w, opts), nil
	case Tint, "":
		return tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: "15:04:05"}), nil
	default:
		return nil, fmt.Errorf("unknown logging type: %s", format)
	}
}

// Initialize installs a console logger as the slog default.
func Initialize(w io.Writer, format, levelName string) (*slog.Logger, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	h, err := NewConsoleHandler(w, format, level)
	if err != nil {
		return nil, err
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, nil
}

// Tee returns a logger that sends every record to all handlers.
func Tee(handlers ...slog.Handler) *slog.Logger {
	return slog.New(fanout(handlers))
}

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
