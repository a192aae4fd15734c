// Package benchmarks provides timing estimates for provisioning steps.
package benchmarks

import "time"

// DefaultTimings are median step durations on a fresh 2 vCPU host (seconds).
var DefaultTimings = map[string]int{
	"preflight":     2,
	"system-update": 90,
	"packages":      120,
	"firewall":      3,
	"database":      5,
	"php":           3,
	"application":   20,
	"app-config":    2,
	"webserver":     3,
	"services":      5,
}

// Observed is the measured duration of a finished step.
type Observed struct {
	Step     string
	Duration time.Duration
}

// EstimateRemaining calculates the estimated time remaining based on the
// step order, the current step and its elapsed time, and the steps that
// already finished.
func EstimateRemaining(order []string, current string, elapsed time.Duration, finished []Observed) time.Duration {
	return EstimateRemainingWithScale(order, current, elapsed, finished, PerformanceScale(current, elapsed, finished))
}

// EstimateRemainingWithScale calculates ETA while applying a performance scale factor.
func EstimateRemainingWithScale(
	order []string,
	current string,
	elapsed time.Duration,
	finished []Observed,
	scale float64,
) time.Duration {
	currentIdx := -1
	for i, s := range order {
		if s == current {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return 0
	}

	var remaining time.Duration

	// For the current step: max(0, expected - elapsed)
	if expected, ok := Expected(current); ok {
		expected = time.Duration(float64(expected) * scale)
		if expected > elapsed {
			remaining += expected - elapsed
		}
	}

	done := make(map[string]bool, len(finished))
	for _, o := range finished {
		done[o.Step] = true
	}
	for _, step := range order[currentIdx+1:] {
		if done[step] {
			continue
		}
		if expected, ok := Expected(step); ok {
			remaining += time.Duration(float64(expected) * scale)
		}
	}

	return remaining
}

// PerformanceScale derives a speed multiplier from observed-vs-expected durations.
// Example: expected 2m, observed 3m => scale=1.5 (future ETAs are stretched by 50%).
func PerformanceScale(current string, elapsed time.Duration, finished []Observed) float64 {
	var expectedTotal, actualTotal time.Duration

	for _, o := range finished {
		expected, ok := Expected(o.Step)
		if !ok {
			continue
		}
		expectedTotal += expected
		actualTotal += o.Duration
	}

	// An overrunning step counts immediately so the ETA adapts quickly.
	if expected, ok := Expected(current); ok && elapsed > expected {
		expectedTotal += expected
		actualTotal += elapsed
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < 0.3 {
		return 0.3
	}
	if scale > 3.0 {
		return 3.0
	}
	return scale
}

// Expected returns the benchmark duration for a step.
func Expected(step string) (time.Duration, bool) {
	secs, ok := DefaultTimings[step]
	if !ok {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// TotalEstimate returns the total estimated time for the steps in order.
func TotalEstimate(order []string) time.Duration {
	var total time.Duration
	for _, step := range order {
		if d, ok := Expected(step); ok {
			total += d
		}
	}
	return total
}
