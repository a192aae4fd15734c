package provisioning

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// Logger is the minimal printf-style sink used for free-form messages.
type Logger interface {
	Printf(format string, v ...any)
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports overall progress after a phase finishes
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "packages", "database")
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseSkipped indicates the host already matched the phase's desired state.
	EventPhaseSkipped EventType = "phase.skipped"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventServiceStatus reports the state of a managed service.
	EventServiceStatus EventType = "service.status"
	// EventProbe reports the HTTP reachability probe result.
	EventProbe EventType = "probe.result"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of slog.
type LogObserver struct {
	logger        *slog.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger, contextFields: make(map[string]string)}
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...any) {
	o.logger.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	fields := make(map[string]string, len(o.contextFields)+len(event.Fields))
	maps.Copy(fields, o.contextFields)
	maps.Copy(fields, event.Fields)

	attrs := make([]any, 0, 2*len(fields)+2)
	if event.Phase != "" {
		attrs = append(attrs, "step", event.Phase)
	}
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		attrs = append(attrs, k, fields[k])
	}

	level := slog.LevelInfo
	if event.Type == EventPhaseFailed {
		level = slog.LevelError
	}
	o.logger.Log(context.Background(), level, event.Message, attrs...)
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	if total == 0 {
		return
	}
	o.logger.Info(fmt.Sprintf("Progress: %d/%d (%d%%)", current, total, current*100/total), "step", phase)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	merged := maps.Clone(o.contextFields)
	maps.Copy(merged, fields)
	return &LogObserver{logger: o.logger, contextFields: merged}
}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

// Printf implements Logger.
func (m MultiObserver) Printf(format string, v ...any) {
	for _, o := range m {
		o.Printf(format, v...)
	}
}

// Event implements Observer.
func (m MultiObserver) Event(event Event) {
	for _, o := range m {
		o.Event(event)
	}
}

// Progress implements Observer.
func (m MultiObserver) Progress(phase string, current, total int) {
	for _, o := range m {
		o.Progress(phase, current, total)
	}
}

// WithFields implements Observer.
func (m MultiObserver) WithFields(fields map[string]string) Observer {
	out := make(MultiObserver, len(m))
	for i, o := range m {
		out[i] = o.WithFields(fields)
	}
	return out
}

// RecordingObserver keeps every event in memory. The metrics exporter and
// tests read from it.
type RecordingObserver struct {
	mu     sync.Mutex
	events []Event
}

// Printf implements Logger.
func (r *RecordingObserver) Printf(string, ...any) {}

// Event implements Observer.
func (r *RecordingObserver) Event(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	r.events = append(r.events, event)
}

// Progress implements Observer.
func (r *RecordingObserver) Progress(phase string, current, total int) {
	r.Event(Event{
		Type:  EventProgress,
		Phase: phase,
		Fields: map[string]string{
			"current": fmt.Sprint(current),
			"total":   fmt.Sprint(total),
		},
	})
}

// WithFields implements Observer. Fields are not merged.
func (r *RecordingObserver) WithFields(map[string]string) Observer { return r }

// Events returns the recorded events.
func (r *RecordingObserver) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// OfType returns the recorded events of type t.
func (r *RecordingObserver) OfType(t EventType) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{Type: EventPhaseStarted, Phase: phase, Message: "step started"})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: "step completed",
		Fields:  map[string]string{"duration": duration.Round(time.Millisecond).String()},
	})
}

// LogPhaseSkipped logs that a phase had nothing to do.
func LogPhaseSkipped(observer Observer, phase string) {
	observer.Event(Event{Type: EventPhaseSkipped, Phase: phase, Message: "step skipped, already satisfied"})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "step failed",
		Fields:  map[string]string{"error": err.Error()},
	})
}
