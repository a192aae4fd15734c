package logging

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"
)

type handlerBox struct{ h slog.Handler }

// Switch is a slog.Handler whose destination can be replaced after
// loggers derived from it were handed out. Components created before the
// run log exists keep logging through it and follow the switch.
type Switch struct {
	target *atomic.Pointer[handlerBox]
	ops    []func(slog.Handler) slog.Handler
}

// NewSwitch returns a Switch forwarding to initial.
func NewSwitch(initial slog.Handler) *Switch {
	s := &Switch{target: new(atomic.Pointer[handlerBox])}
	s.Set(initial)
	return s
}

// Set replaces the destination for this Switch and every handler derived
// from it.
func (s *Switch) Set(h slog.Handler) {
	s.target.Store(&handlerBox{h: h})
}

func (s *Switch) current() slog.Handler {
	h := s.target.Load().h
	for _, op := range s.ops {
		h = op(h)
	}
	return h
}

// Enabled implements slog.Handler.
func (s *Switch) Enabled(ctx context.Context, l slog.Level) bool {
	return s.target.Load().h.Enabled(ctx, l)
}

// Handle implements slog.Handler.
func (s *Switch) Handle(ctx context.Context, r slog.Record) error {
	return s.current().Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (s *Switch) WithAttrs(attrs []slog.Attr) slog.Handler {
	return s.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup implements slog.Handler.
func (s *Switch) WithGroup(name string) slog.Handler {
	return s.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (s *Switch) derive(op func(slog.Handler) slog.Handler) *Switch {
	return &Switch{target: s.target, ops: append(slices.Clone(s.ops), op)}
}
