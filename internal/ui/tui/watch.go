package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/wpstack/internal/provisioning/verify"
)

// RunWatchTUI shows the results of r until the reporting period ends or
// the operator quits. r.OnResult is replaced.
func RunWatchTUI(ctx context.Context, target string, r *verify.Reporter) (*verify.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewWatchModel(target)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	r.OnResult = func(res *verify.Result) {
		p.Send(VerifyMsg{Result: res})
	}

	done := make(chan error, 1)
	go func() {
		err := r.Run(ctx)
		done <- err
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	cancel()
	runErr := <-done
	if runErr != nil {
		return nil, runErr
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	fm, _ := finalModel.(Model)
	return fm.Verify, nil
}
