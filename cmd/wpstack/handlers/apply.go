package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/credentials"
	"github.com/imamik/wpstack/internal/logging"
	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/provisioning/steps"
	"github.com/imamik/wpstack/internal/provisioning/verify"
	"github.com/imamik/wpstack/internal/ui/tui"
)

// ApplyOptions configures an apply run.
type ApplyOptions struct {
	TargetOptions

	Yes    bool
	DryRun bool

	// Monitor keeps reporting service status this long after success.
	Monitor  time.Duration
	Interval time.Duration
}

// Factory function variables for apply - can be replaced in tests.
var (
	// checkPrivileges verifies root on the target.
	checkPrivileges = system.CheckPrivileges

	// confirmRun asks the operator before touching the host.
	confirmRun = promptConfirm

	// generateCredentials creates the run's database passwords.
	generateCredentials = credentials.Generate

	// openRunLog opens the append-only run log.
	openRunLog = logging.OpenRunLog

	// newProvisioningContext creates the run context.
	newProvisioningContext = provisioning.NewContext

	// provisioningSteps returns the ordered steps.
	provisioningSteps = steps.All

	// runVerification performs the post-provisioning checks.
	runVerification = verify.Run

	// runApplyTUI shows the dashboard while the steps run.
	runApplyTUI = tui.RunApplyTUI
)

// Apply provisions the web stack on the selected target.
//
// The workflow:
//  1. Loads and validates the configuration
//  2. Connects to the target (local, SSH, or a recording dry-run runner)
//  3. Checks for root before anything is written
//  4. Asks for confirmation unless --yes or --dry-run is given
//  5. Opens the run log and generates fresh credentials
//  6. Runs the steps in order, stopping at the first failure
//  7. Verifies services and site reachability
//  8. Exports metrics, uploads the report, and prints the summary
//
// Nothing is rolled back on failure; re-running converges the host.
func Apply(ctx context.Context, opts ApplyOptions) error {
	if err := checkOutput(opts.Output); err != nil {
		return err
	}
	if opts.Monitor > 0 && opts.Interval <= 0 {
		return provisioning.NewError(provisioning.KindConfig, "", errors.New("--interval must be positive when --monitor is set"))
	}

	cfg, err := loadValidConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	timeouts := config.LoadTimeouts()
	interactive := isInteractive()
	useTUI := interactive && !opts.Plain && !opts.DryRun && opts.Output != OutputYAML

	console := slog.Default().Handler()
	sink := logging.NewSwitch(console)
	logger := slog.New(sink)

	runner, err := buildRunner(opts.TargetOptions, opts.DryRun, timeouts, logger)
	if err != nil {
		return err
	}
	defer closeRunner(runner, logger)

	// Privilege failures must leave no trace, so this precedes the run log.
	if err := checkPrivileges(ctx, runner); err != nil {
		return provisioning.NewError(provisioning.KindPrivilege, "", err)
	}

	if err := confirm(opts, interactive, runner.Target(), cfg); err != nil {
		return err
	}

	logPath := ""
	var logOffset int64
	if !opts.DryRun {
		runLog, err := openLog(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = runLog.Close() }()
		logPath = runLog.Path()
		logOffset = runLog.Offset()

		if useTUI {
			sink.Set(runLog.Handler())
		} else {
			sink.Set(logging.Tee(console, runLog.Handler()).Handler())
		}
	}

	creds, err := generateCredentials()
	if err != nil {
		return fmt.Errorf("failed to generate credentials: %w", err)
	}

	pctx := newProvisioningContext(ctx, cfg, runner, creds, logger)
	pctx.DryRun = opts.DryRun
	if opts.DryRun {
		pctx.Salts = placeholderSalts{}
	}
	logger.Info("run started", "run_id", pctx.RunID, "target", runner.Target(), "dry_run", opts.DryRun)

	start := time.Now()
	runErr := runSteps(ctx, pctx, useTUI, logger)

	var result *verify.Result
	if runErr == nil && !opts.DryRun {
		result, runErr = runVerification(pctx)
	}

	summary := provisioning.NewSummary(pctx, start)
	summary.LogPath = logPath
	if result != nil {
		summary.SetVerification(result.Services, result.Probe)
	}

	if runErr != nil {
		logger.Error("run failed", "run_id", pctx.RunID, "err", runErr)
	} else {
		logger.Info("run finished", "run_id", pctx.RunID, "duration", summary.Duration.Round(time.Millisecond), "healthy", summary.Healthy)
	}

	if !opts.DryRun {
		exportMetrics(ctx, runner, cfg, summary, runErr, logger)
		uploadReport(ctx, cfg, summary, logOffset, timeouts, logger)
	}

	if err := printSummary(stdout, opts.Output, summary); err != nil {
		return err
	}

	if runErr != nil {
		if logPath != "" {
			return fmt.Errorf("%w\nSee the run log at %s", runErr, logPath)
		}
		return runErr
	}

	if opts.Monitor > 0 && !opts.DryRun {
		monitor(ctx, runner, cfg, pctx.State.ServerIP, timeouts, opts)
	}
	return nil
}

// confirm enforces the confirmation rules: --yes and dry runs skip the
// prompt, a non-terminal stdin without --yes refuses to run.
func confirm(opts ApplyOptions, interactive bool, target string, cfg *config.Config) error {
	if opts.Yes || opts.DryRun {
		return nil
	}
	if !interactive {
		return provisioning.NewError(provisioning.KindAborted, "",
			errors.New("confirmation required but stdin is not a terminal; pass --yes to run unattended"))
	}

	ok, err := confirmRun(target, cfg)
	if err != nil && !errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("confirmation prompt failed: %w", err)
	}
	if !ok {
		return provisioning.NewError(provisioning.KindAborted, "", errors.New("declined by operator"))
	}
	return nil
}

func promptConfirm(target string, cfg *config.Config) (bool, error) {
	site := cfg.Site.Domain
	if site == "" {
		site = "the server address"
	}

	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Provision WordPress on %s?", target)).
		Description(fmt.Sprintf("Installs %s, PHP %s and MariaDB and serves %s from %s.",
			cfg.WebServer, cfg.PHP.Version, site, cfg.Site.DocumentRoot)).
		Affirmative("Yes, provision").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

func openLog(cfg *config.Config) (*logging.RunLog, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, provisioning.NewError(provisioning.KindConfig, "", err)
	}
	runLog, err := openRunLog(cfg.Log.Path, level)
	if err != nil {
		return nil, provisioning.NewError(provisioning.KindExecution, "", err)
	}
	return runLog, nil
}

// runSteps runs all steps either behind the dashboard or with plain
// progress lines.
func runSteps(ctx context.Context, pctx *provisioning.Context, useTUI bool, logger *slog.Logger) error {
	phases := provisioningSteps()
	logObs := provisioning.NewLogObserver(logger)

	if !useTUI {
		pctx.Observer = provisioning.MultiObserver{logObs, &plainProgress{w: stdout}}
		return provisioning.RunPhases(pctx, phases)
	}

	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name()
	}
	err := runApplyTUI(ctx, pctx.Runner.Target(), names, func(c context.Context, obs provisioning.Observer) error {
		pctx.Context = c
		pctx.Observer = provisioning.MultiObserver{logObs, obs}
		return provisioning.RunPhases(pctx, phases)
	})

	// The dashboard's context ends with the program.
	pctx.Context = ctx
	pctx.Observer = logObs

	if errors.Is(err, tui.ErrQuit) {
		return provisioning.NewError(provisioning.KindAborted, "", err)
	}
	return err
}

func printSummary(w io.Writer, format string, s *provisioning.Summary) error {
	if format == OutputYAML {
		return writeYAML(w, s)
	}
	return tui.RenderSummary(w, s)
}

// monitor polls service status after a successful run until the period
// ends or ctx is canceled.
func monitor(ctx context.Context, runner shell.Runner, cfg *config.Config, serverIP string, timeouts *config.Timeouts, opts ApplyOptions) {
	r := &verify.Reporter{
		Verifier: newVerifier(runner, cfg, serverIP, timeouts.Probe),
		Interval: opts.Interval,
		For:      opts.Monitor,
		OnResult: func(res *verify.Result) { printStatusLine(stdout, res) },
	}

	fmt.Fprintf(stdout, "\nMonitoring for %s every %s (Ctrl+C to stop)\n", opts.Monitor, opts.Interval)
	stop := r.Start(ctx)
	defer stop()

	select {
	case <-ctx.Done():
	case <-time.After(opts.Monitor):
	}
}

// placeholderSalts stands in for the salt endpoint during dry runs.
type placeholderSalts struct{}

func (placeholderSalts) Fetch(context.Context) (credentials.Salts, error) {
	salts := make(credentials.Salts, 0, len(credentials.SaltNames))
	for _, name := range credentials.SaltNames {
		salts = append(salts, credentials.Salt{Name: name, Value: "dry-run"})
	}
	return salts, nil
}
