package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/wpstack/internal/provisioning"
)

// ErrQuit is returned when the operator leaves the TUI before the run ends.
var ErrQuit = errors.New("interrupted from the terminal UI")

// sender is the part of tea.Program the observer needs.
type sender interface {
	Send(msg tea.Msg)
}

// Observer forwards provisioning events to a running Bubble Tea program.
type Observer struct {
	p sender
}

// NewObserver creates an Observer sending to p.
func NewObserver(p sender) *Observer {
	return &Observer{p: p}
}

// Printf implements provisioning.Logger. Free-form messages go to the
// run log only.
func (o *Observer) Printf(string, ...any) {}

// Event implements provisioning.Observer.
func (o *Observer) Event(e provisioning.Event) {
	switch e.Type {
	case provisioning.EventPhaseStarted:
		o.p.Send(StepMsg{Step: e.Phase, Status: provisioning.StepRunning})
	case provisioning.EventPhaseCompleted:
		o.p.Send(StepMsg{Step: e.Phase, Status: provisioning.StepCompleted})
	case provisioning.EventPhaseSkipped:
		o.p.Send(StepMsg{Step: e.Phase, Status: provisioning.StepSkipped})
	case provisioning.EventPhaseFailed:
		o.p.Send(StepMsg{Step: e.Phase, Status: provisioning.StepFailed, Err: errors.New(e.Fields["error"])})
	}
}

// Progress implements provisioning.Observer.
func (o *Observer) Progress(_ string, current, total int) {
	o.p.Send(ProgressMsg{Current: current, Total: total})
}

// WithFields implements provisioning.Observer.
func (o *Observer) WithFields(map[string]string) provisioning.Observer { return o }

// RunApplyTUI wraps a provisioning run with a Bubble Tea TUI. runFn
// receives an observer to attach to the run and a context that is
// canceled when the operator quits. The error of runFn is returned.
func RunApplyTUI(
	ctx context.Context,
	target string,
	steps []string,
	runFn func(ctx context.Context, obs provisioning.Observer) error,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewApplyModel(target, steps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	runErr := make(chan error, 1)
	go func() {
		err := runFn(ctx, NewObserver(p))
		runErr <- err
		if err != nil {
			p.Send(ErrMsg{Err: err})
		} else {
			p.Send(DoneMsg{})
		}
	}()

	finalModel, tuiErr := p.Run()
	cancel()
	err := <-runErr

	if err != nil {
		return err
	}
	if tuiErr != nil && !errors.Is(tuiErr, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", tuiErr)
	}
	if fm, ok := finalModel.(Model); ok && !fm.Done && fm.Err == nil {
		return ErrQuit
	}
	return nil
}
