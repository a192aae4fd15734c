package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/provisioning/verify"
	"github.com/imamik/wpstack/internal/ui/benchmarks"
)

// Step is a provisioning step as displayed.
type Step struct {
	Name      string
	Status    provisioning.StepStatus
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// Model is the Bubble Tea model for the provisioning dashboard.
type Model struct {
	Target string

	// Steps (apply mode)
	Steps     []Step
	Completed int
	Total     int

	// Latest verification pass (watch mode)
	Verify *verify.Result
	Checks int

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool

	// Mode
	Mode string // "apply", "watch"
}

// NewApplyModel creates a model for the apply command TUI. steps lists
// the step names in execution order.
func NewApplyModel(target string, steps []string) Model {
	m := Model{
		Target:    target,
		StartTime: time.Now(),
		Mode:      "apply",
		Total:     len(steps),

		EstimatedRemaining: benchmarks.TotalEstimate(steps),
		PerformanceScale:   1.0,
	}
	for _, name := range steps {
		m.Steps = append(m.Steps, Step{Name: name, Status: provisioning.StepPending})
	}
	return m
}

// NewWatchModel creates a model for the verify --watch TUI.
func NewWatchModel(target string) Model {
	return Model{
		Target:    target,
		StartTime: time.Now(),
		Mode:      "watch",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StepMsg:
		m.updateStep(msg)

	case ProgressMsg:
		m.Completed = msg.Current
		m.Total = msg.Total

	case VerifyMsg:
		m.Verify = msg.Result
		m.Checks++

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateStep(msg StepMsg) {
	idx := -1
	for i, s := range m.Steps {
		if s.Name == msg.Step {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	step := &m.Steps[idx]
	switch msg.Status {
	case provisioning.StepRunning:
		step.StartedAt = time.Now()
	case provisioning.StepCompleted, provisioning.StepSkipped, provisioning.StepFailed:
		if !step.StartedAt.IsZero() {
			step.Duration = time.Since(step.StartedAt)
		}
	}
	step.Status = msg.Status
	if msg.Err != nil {
		step.Err = msg.Err
	}
}

func (m *Model) updateETA() {
	if m.Mode != "apply" {
		return
	}

	order := make([]string, 0, len(m.Steps))
	var finished []benchmarks.Observed
	current, elapsed := "", time.Duration(0)
	for _, s := range m.Steps {
		order = append(order, s.Name)
		switch s.Status {
		case provisioning.StepCompleted:
			finished = append(finished, benchmarks.Observed{Step: s.Name, Duration: s.Duration})
		case provisioning.StepRunning:
			current, elapsed = s.Name, time.Since(s.StartedAt)
		}
	}
	if current == "" {
		m.EstimatedRemaining = 0
		return
	}

	m.PerformanceScale = benchmarks.PerformanceScale(current, elapsed, finished)
	m.EstimatedRemaining = benchmarks.EstimateRemainingWithScale(order, current, elapsed, finished, m.PerformanceScale)
}

func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
