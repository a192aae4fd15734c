package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TimeLayout is the timestamp layout used in run log lines.
const TimeLayout = "2006-01-02 15:04:05"

// RunLog is an append-only log file for a single invocation.
type RunLog struct {
	path   string
	file   *os.File
	offset int64
	h      *lineHandler
}

// OpenRunLog opens (or creates) path for appending. Parent directories are
// created with 0750.
func OpenRunLog(path string, level slog.Leveler) (*RunLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create run log directory: %w", err)
	}
	// #nosec G304 -- path comes from operator configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat run log: %w", err)
	}
	return &RunLog{
		path:   path,
		file:   f,
		offset: info.Size(),
		h:      NewLineHandler(f, level),
	}, nil
}

// Path returns the file location.
func (r *RunLog) Path() string { return r.path }

// Offset returns the file size at open, where this invocation's lines begin.
func (r *RunLog) Offset() int64 { return r.offset }

// Handler returns the slog handler writing to the file.
func (r *RunLog) Handler() slog.Handler { return r.h }

// Close flushes and closes the file.
func (r *RunLog) Close() error {
	if err := r.file.Sync(); err != nil {
		_ = r.file.Close()
		return err
	}
	return r.file.Close()
}

// lineHandler renders records in the run log line format.
type lineHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	now    func() time.Time
}

// NewLineHandler returns a handler writing "[timestamp] [LEVEL] message"
// lines to w.
func NewLineHandler(w io.Writer, level slog.Leveler) slog.Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &lineHandler{mu: &sync.Mutex{}, w: w, level: level, now: time.Now}
}

func (h *lineHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = h.now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", ts.Format(TimeLayout), r.Level.String(), r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, h.groups, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.groups, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func writeAttr(b *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := append(append([]string{}, groups...), a.Key)
		for _, ga := range a.Value.Group() {
			writeAttr(b, sub, ga)
		}
		return
	}
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"") {
		val = fmt.Sprintf("%q", val)
	}
	fmt.Fprintf(b, " %s=%s", key, val)
}
