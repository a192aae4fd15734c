package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/imamik/wpstack/internal/provisioning"
)

// RenderSummary writes the end-of-run report. It is the only place the
// generated passwords are shown.
func RenderSummary(w io.Writer, s *provisioning.Summary) error {
	var b strings.Builder

	title := "wpstack: " + s.Target
	if s.DryRun {
		title += " (dry run)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString(" ")
	switch {
	case s.DryRun:
		b.WriteString(dimStyle.Render("nothing was changed"))
	case s.Healthy:
		b.WriteString(readyStyle.Render("Healthy"))
	default:
		b.WriteString(failedStyle.Render("Unhealthy"))
	}
	b.WriteString("\n")

	section(&b, "Site")
	for _, u := range s.URLs {
		fmt.Fprintf(&b, "    %s\n", u)
	}
	if s.ServerIP != "" {
		fmt.Fprintf(&b, "    %-16s %s\n", "Server IP", s.ServerIP)
	}

	section(&b, "Database")
	fmt.Fprintf(&b, "    %-16s %s\n", "Name", s.Database.Name)
	fmt.Fprintf(&b, "    %-16s %s@%s\n", "User", s.Database.User, s.Database.Host)
	if c := s.Credentials; c != nil {
		fmt.Fprintf(&b, "    %-16s %s\n", "User password", secretStyle.Render(c.AppPassword))
		fmt.Fprintf(&b, "    %-16s %s\n", "Root password", secretStyle.Render(c.AdminPassword))
	}

	if len(s.Services) > 0 || s.Probe != nil {
		section(&b, "Services")
		for _, svc := range s.Services {
			icon, style := statusIcon(svc.Active)
			fmt.Fprintf(&b, "    %s %-14s %s\n", style(icon), style(svc.Name), dimStyle.Render(svc.State))
		}
		if p := s.Probe; p != nil {
			icon, style := statusIcon(p.OK)
			detail := fmt.Sprintf("HTTP %d", p.StatusCode)
			if p.Error != "" {
				detail = p.Error
			}
			fmt.Fprintf(&b, "    %s %-14s %s\n", style(icon), style(p.URL), dimStyle.Render(detail))
		}
	}

	section(&b, "Steps")
	for _, step := range s.Steps {
		icon, style := stepIcon(step.Status, 0)
		fmt.Fprintf(&b, "    %s %-14s %s\n", style(icon), style(step.Name), dimStyle.Render(fmt.Sprintf("%.1fs", step.Seconds)))
	}
	if len(s.Started) > 0 {
		fmt.Fprintf(&b, "    %-16s %s\n", "Started", strings.Join(s.Started, ", "))
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf("  run %s  |  %s  |  log: %s", s.RunID, formatDuration(s.Duration), s.LogPath)))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, name string) {
	b.WriteString(sectionStyle.Render("  " + name))
	b.WriteString("\n")
}
