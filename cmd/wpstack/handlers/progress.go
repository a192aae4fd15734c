package handlers

import (
	"fmt"
	"io"

	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/ui/tui"
)

const progressBarWidth = 30

// plainProgress prints a text progress bar after every finished step.
type plainProgress struct {
	w io.Writer
}

func (p *plainProgress) Printf(string, ...any) {}

func (p *plainProgress) Event(e provisioning.Event) {
	if e.Type == provisioning.EventPhaseStarted {
		fmt.Fprintf(p.w, "==> %s\n", e.Phase)
	}
}

func (p *plainProgress) Progress(phase string, current, total int) {
	fmt.Fprintf(p.w, "    %s %s\n", tui.ProgressBar(current, total, progressBarWidth), phase)
}

func (p *plainProgress) WithFields(map[string]string) provisioning.Observer { return p }
