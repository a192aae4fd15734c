package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/wpstack/internal/provisioning"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)

	if m.Mode == "apply" {
		renderProgressBar(&b, m)
		renderSteps(&b, m)
	}

	if m.Verify != nil {
		renderServices(&b, m)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("wpstack: %s", m.Target)
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Done")
	case m.Mode == "watch" && m.Verify != nil && m.Verify.Healthy():
		status += readyStyle.Render("Healthy")
	case m.Mode == "watch" && m.Verify != nil:
		status += warningStyle.Render("Degraded")
	case m.Mode == "watch":
		status += dimStyle.Render("Checking...")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render(m.activeStep())
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func (m Model) activeStep() string {
	for _, s := range m.Steps {
		if s.Status == provisioning.StepRunning {
			return s.Name
		}
	}
	return "Provisioning..."
}

func renderProgressBar(b *strings.Builder, m Model) {
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = max(m.Width-30, 10)
	}
	filled, pct := progress(m.Completed, m.Total, barWidth)

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%% (%d/%d)%s\n", bar, pct, m.Completed, m.Total, eta)
}

func renderSteps(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Steps"))
	b.WriteString("\n")

	for _, step := range m.Steps {
		icon, style := stepIcon(step.Status, m.SpinnerFrame)
		dur := ""
		switch {
		case step.Duration > 0:
			dur = formatDuration(step.Duration)
		case step.Status == provisioning.StepRunning && !step.StartedAt.IsZero():
			dur = formatDuration(time.Since(step.StartedAt))
		}
		fmt.Fprintf(b, "    %s %-14s %s\n", style(icon), style(step.Name), dimStyle.Render(dur))
		if step.Err != nil {
			fmt.Fprintf(b, "        %s\n", failedStyle.Render(step.Err.Error()))
		}
	}
}

func renderServices(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Services"))
	b.WriteString("\n")

	for _, svc := range m.Verify.Services {
		icon, style := statusIcon(svc.Active)
		fmt.Fprintf(b, "    %s %-14s %s\n", style(icon), style(svc.Name), dimStyle.Render(svc.State))
	}
	if p := m.Verify.Probe; p != nil {
		icon, style := statusIcon(p.OK)
		detail := fmt.Sprintf("HTTP %d", p.StatusCode)
		if p.Error != "" {
			detail = p.Error
		}
		fmt.Fprintf(b, "    %s %-14s %s\n", style(icon), style(p.URL), dimStyle.Render(detail))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	parts := []string{fmt.Sprintf("elapsed: %s", formatDuration(time.Since(m.StartTime)))}
	if m.Mode == "watch" {
		parts = append(parts, fmt.Sprintf("checks: %d", m.Checks))
		if m.Verify != nil {
			parts = append(parts, fmt.Sprintf("last check: %s", m.Verify.CheckedAt.Format(time.TimeOnly)))
		}
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

// Helper functions

func statusIcon(ok bool) (string, styleFunc) {
	if ok {
		return checkMark, sf(readyStyle)
	}
	return crossMark, sf(failedStyle)
}

func stepIcon(status provisioning.StepStatus, frame int) (string, styleFunc) {
	switch status {
	case provisioning.StepCompleted:
		return checkMark, sf(readyStyle)
	case provisioning.StepSkipped:
		return skipMark, sf(dimStyle)
	case provisioning.StepFailed:
		return crossMark, sf(failedStyle)
	case provisioning.StepRunning:
		return currentSpinner(frame), sf(activeStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func currentSpinner(frame int) string {
	if len(spinnerFrames) == 0 {
		return spinner
	}
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// progress returns the filled cell count for a bar of width and the
// whole percentage of completed over total.
func progress(completed, total, width int) (filled, pct int) {
	if total <= 0 {
		return 0, 0
	}
	completed = min(max(completed, 0), total)
	return completed * width / total, completed * 100 / total
}

// ProgressBar renders a plain text bar such as "[#####-----]  50% (5/10)"
// for non-interactive output.
func ProgressBar(completed, total, width int) string {
	filled, pct := progress(completed, total, width)
	return fmt.Sprintf("[%s%s] %3d%% (%d/%d)",
		strings.Repeat("#", filled), strings.Repeat("-", width-filled), pct, completed, total)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
