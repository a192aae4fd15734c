// Package metrics exports the outcome of a run in the prometheus text
// format so node_exporter's textfile collector can pick it up.
package metrics

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/provisioning"
)

const namespace = "wpstack"

// Exporter holds the run metrics in a private registry.
type Exporter struct {
	registry *prometheus.Registry

	runSuccess   prometheus.Gauge
	runTimestamp prometheus.Gauge
	runDuration  prometheus.Gauge

	stepDuration *prometheus.GaugeVec
	stepStatus   *prometheus.GaugeVec

	serviceUp   *prometheus.GaugeVec
	probeUp     prometheus.Gauge
	probeStatus prometheus.Gauge
}

// NewExporter creates an Exporter with all metrics registered.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "success",
			Help:      "Whether the last run finished without error (1) or not (0)",
		}),
		runTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "timestamp_seconds",
			Help:      "Unix time the last run started",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of the last run in seconds",
		}),
		stepDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "step",
			Name:      "duration_seconds",
			Help:      "Duration of each step in the last run",
		}, []string{"step"}),
		stepStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "step",
			Name:      "status",
			Help:      "Outcome of each step in the last run, 1 for the matching status",
		}, []string{"step", "status"}),
		serviceUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "up",
			Help:      "Whether a managed service was active (1) or not (0) at verification",
		}, []string{"service"}),
		probeUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "success",
			Help:      "Whether the HTTP probe answered 2xx/3xx",
		}),
		probeStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "status_code",
			Help:      "HTTP status code returned by the probe, 0 when unreachable",
		}),
	}

	e.registry.MustRegister(
		e.runSuccess,
		e.runTimestamp,
		e.runDuration,
		e.stepDuration,
		e.stepStatus,
		e.serviceUp,
		e.probeUp,
		e.probeStatus,
	)
	return e
}

// Observe records a finished run. runErr is the error the run ended with.
func (e *Exporter) Observe(s *provisioning.Summary, runErr error) {
	e.runSuccess.Set(boolFloat(runErr == nil))
	e.runTimestamp.Set(float64(s.StartedAt.Unix()))
	e.runDuration.Set(s.Seconds)

	for _, step := range s.Steps {
		e.stepDuration.WithLabelValues(step.Name).Set(step.Seconds)
		e.stepStatus.WithLabelValues(step.Name, string(step.Status)).Set(1)
	}
	for _, svc := range s.Services {
		e.serviceUp.WithLabelValues(svc.Name).Set(boolFloat(svc.Active))
	}
	if s.Probe != nil {
		e.probeUp.Set(boolFloat(s.Probe.OK))
		e.probeStatus.Set(float64(s.Probe.StatusCode))
	}
}

// Encode renders all metrics in the text exposition format.
func (e *Exporter) Encode() ([]byte, error) {
	families, err := e.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}

// WriteTextfile writes the metrics to path on the target. The runner
// replaces the file atomically, so the collector never reads a partial
// file.
func (e *Exporter) WriteTextfile(ctx context.Context, runner shell.Runner, path string) error {
	data, err := e.Encode()
	if err != nil {
		return err
	}
	if err := runner.WriteFile(ctx, path, data, os.FileMode(0o644)); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
