package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/provisioning/verify"
	"github.com/imamik/wpstack/internal/ui/tui"
)

// VerifyOptions configures the verify command.
type VerifyOptions struct {
	TargetOptions

	Watch    bool
	Interval time.Duration
}

var (
	// detectServerIP finds the address the probe targets.
	detectServerIP = system.ServerIP

	// newVerifier builds the service and probe checker.
	newVerifier = verify.New

	// runWatchTUI shows the watch dashboard.
	runWatchTUI = tui.RunWatchTUI
)

// Verify checks services and site reachability on the target. With Watch
// it keeps checking until ctx is canceled.
func Verify(ctx context.Context, opts VerifyOptions) error {
	if err := checkOutput(opts.Output); err != nil {
		return err
	}
	if opts.Watch && opts.Interval <= 0 {
		return provisioning.NewError(provisioning.KindConfig, "", errors.New("--interval must be positive"))
	}

	cfg, err := loadValidConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	timeouts := config.LoadTimeouts()
	logger := slog.Default()

	runner, err := buildRunner(opts.TargetOptions, false, timeouts, logger)
	if err != nil {
		return err
	}
	defer closeRunner(runner, logger)

	ip, err := detectServerIP(ctx, runner)
	if err != nil {
		return provisioning.NewError(provisioning.KindExecution, "", err)
	}
	v := newVerifier(runner, cfg, ip, timeouts.Probe)

	if opts.Watch {
		return watch(ctx, opts, runner.Target(), v)
	}

	result, err := v.Check(ctx)
	if err != nil {
		return provisioning.NewError(provisioning.KindAborted, "", err)
	}
	if err := printResult(stdout, opts.Output, result); err != nil {
		return err
	}
	if err := result.Err(); err != nil {
		return provisioning.NewError(provisioning.KindVerification, "", err)
	}
	return nil
}

func watch(ctx context.Context, opts VerifyOptions, target string, v *verify.Verifier) error {
	r := &verify.Reporter{Verifier: v, Interval: opts.Interval}

	if isInteractive() && !opts.Plain && opts.Output != OutputYAML {
		last, err := runWatchTUI(ctx, target, r)
		if err != nil {
			return err
		}
		if last != nil {
			return printResult(stdout, OutputText, last)
		}
		return nil
	}

	r.OnResult = func(res *verify.Result) {
		if opts.Output == OutputYAML {
			fmt.Fprintln(stdout, "---")
			_ = writeYAML(stdout, res)
			return
		}
		printStatusLine(stdout, res)
	}
	return r.Run(ctx)
}

func printResult(w io.Writer, format string, res *verify.Result) error {
	if format == OutputYAML {
		return writeYAML(w, res)
	}

	var b strings.Builder
	for _, svc := range res.Services {
		fmt.Fprintf(&b, "  %s %-14s %s\n", mark(svc.Active), svc.Name, svc.State)
	}
	if p := res.Probe; p != nil {
		detail := fmt.Sprintf("HTTP %d", p.StatusCode)
		if p.Error != "" {
			detail = p.Error
		}
		fmt.Fprintf(&b, "  %s %-14s %s\n", mark(p.OK), p.URL, detail)
	}
	if res.Healthy() {
		b.WriteString("Healthy\n")
	} else {
		b.WriteString("Unhealthy\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// printStatusLine prints one compact line per pass, e.g.
// "12:00:05 mariadb=active php8.2-fpm=active nginx=active http=200".
func printStatusLine(w io.Writer, res *verify.Result) {
	parts := []string{res.CheckedAt.Format(time.TimeOnly)}
	for _, svc := range res.Services {
		parts = append(parts, svc.Name+"="+svc.State)
	}
	if p := res.Probe; p != nil {
		if p.Error != "" {
			parts = append(parts, "http=down")
		} else {
			parts = append(parts, fmt.Sprintf("http=%d", p.StatusCode))
		}
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}

func mark(ok bool) string {
	if ok {
		return "[OK]"
	}
	return "[!!]"
}
