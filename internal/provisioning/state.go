package provisioning

import (
	"slices"
	"sync"
	"time"
)

// StepStatus is the outcome of a single phase.
type StepStatus string

// Step statuses.
const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

// StepResult records how a phase went.
type StepResult struct {
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"-"`
	Seconds  float64       `json:"seconds"`
	Error    string        `json:"error,omitempty"`
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	mu sync.Mutex

	// ServerIP is detected by the preflight phase.
	ServerIP string

	files    []string
	services []string
	steps    []StepResult
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// RecordFile notes a file written on the target.
func (s *State) RecordFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.files, path) {
		s.files = append(s.files, path)
	}
}

// RecordService notes a service that was restarted, reloaded or enabled.
func (s *State) RecordService(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.services, name) {
		s.services = append(s.services, name)
	}
}

// Files returns the files written so far.
func (s *State) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.files)
}

// Services returns the services touched so far.
func (s *State) Services() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.services)
}

// Steps returns the recorded phase results in execution order.
func (s *State) Steps() []StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.steps)
}

func (s *State) recordStep(name string, status StepStatus, d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := StepResult{Name: name, Status: status, Duration: d, Seconds: d.Round(time.Millisecond).Seconds()}
	if err != nil {
		r.Error = err.Error()
	}
	s.steps = append(s.steps, r)
}
