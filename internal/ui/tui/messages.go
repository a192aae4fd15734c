// Package tui provides a Bubble Tea-based terminal UI for provisioning runs.
package tui

import (
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/provisioning/verify"
)

// StepMsg reports a step transition.
type StepMsg struct {
	Step   string
	Status provisioning.StepStatus
	Err    error
}

// ProgressMsg reports how many steps have finished.
type ProgressMsg struct {
	Current int
	Total   int
}

// VerifyMsg carries the latest verification pass.
type VerifyMsg struct {
	Result *verify.Result
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
