package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/credentials"
	"github.com/imamik/wpstack/internal/logging"
	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/provisioning"
)

// saveAndRestoreFactories saves all factory functions and restores them after the test.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfig := loadConfig
	origNewLocalRunner := newLocalRunner
	origNewSSHRunner := newSSHRunner
	origNewDryRunRunner := newDryRunRunner
	origReadFile := readFile
	origIsInteractive := isInteractive
	origStdout := stdout
	origCheckPrivileges := checkPrivileges
	origConfirmRun := confirmRun
	origGenerateCredentials := generateCredentials
	origOpenRunLog := openRunLog
	origNewProvisioningContext := newProvisioningContext
	origProvisioningSteps := provisioningSteps
	origRunVerification := runVerification
	origRunApplyTUI := runApplyTUI
	origNewUploader := newUploader
	origReadLog := readLog
	origDetectServerIP := detectServerIP
	origNewVerifier := newVerifier
	origRunWatchTUI := runWatchTUI
	origFileExists := fileExists
	origRunWizard := runWizard
	origSaveConfig := saveConfig

	t.Cleanup(func() {
		loadConfig = origLoadConfig
		newLocalRunner = origNewLocalRunner
		newSSHRunner = origNewSSHRunner
		newDryRunRunner = origNewDryRunRunner
		readFile = origReadFile
		isInteractive = origIsInteractive
		stdout = origStdout
		checkPrivileges = origCheckPrivileges
		confirmRun = origConfirmRun
		generateCredentials = origGenerateCredentials
		openRunLog = origOpenRunLog
		newProvisioningContext = origNewProvisioningContext
		provisioningSteps = origProvisioningSteps
		runVerification = origRunVerification
		runApplyTUI = origRunApplyTUI
		newUploader = origNewUploader
		readLog = origReadLog
		detectServerIP = origDetectServerIP
		newVerifier = origNewVerifier
		runWatchTUI = origRunWatchTUI
		fileExists = origFileExists
		runWizard = origRunWizard
		saveConfig = origSaveConfig
	})
}

type fakeSalts struct{}

func (fakeSalts) Fetch(context.Context) (credentials.Salts, error) {
	salts := make(credentials.Salts, 0, len(credentials.SaltNames))
	for _, name := range credentials.SaltNames {
		salts = append(salts, credentials.Salt{Name: name, Value: "salt-" + name})
	}
	return salts, nil
}

// testEnv wires the handlers to a recording runner and a temp run log.
type testEnv struct {
	cfg *config.Config
	rec *shell.Recorder
	out *bytes.Buffer
}

func setupApply(t *testing.T) *testEnv {
	t.Helper()
	saveAndRestoreFactories(t)

	cfg := config.Default()
	cfg.Log.Path = filepath.Join(t.TempDir(), "install.log")

	rec := shell.NewRecorder()
	rec.Respond("id -u", "0\n", 0)
	rec.Respond("hostname -I", "203.0.113.7\n", 0)
	rec.Respond("systemctl is-active", "active\n", 0)
	rec.Respond("test -e", "", 1)

	out := &bytes.Buffer{}
	env := &testEnv{cfg: cfg, rec: rec, out: out}

	loadConfig = func(string) (*config.Config, error) { return env.cfg, nil }
	newLocalRunner = func(*slog.Logger) shell.Runner { return rec }
	isInteractive = func() bool { return false }
	stdout = out
	generateCredentials = func() (*credentials.Credentials, error) {
		return &credentials.Credentials{AdminPassword: "RootSecret123", AppPassword: "AppSecret456"}, nil
	}
	newProvisioningContext = func(ctx context.Context, cfg *config.Config, runner shell.Runner, creds *credentials.Credentials, logger *slog.Logger) *provisioning.Context {
		pctx := provisioning.NewContext(ctx, cfg, runner, creds, logger)
		pctx.Salts = fakeSalts{}
		return pctx
	}
	openRunLog = logging.OpenRunLog

	return env
}
