package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/wpstack/cmd/wpstack/handlers"
	"github.com/imamik/wpstack/internal/config"
)

// Apply returns the command that provisions the web stack.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect wpstack.yaml)
//	--yes, -y: Skip the confirmation prompt
//	--dry-run: Print commands and files without touching the host
//	--monitor: Keep reporting service status for this long after the run
//	--interval: Polling interval for --monitor (default: WPSTACK_STATUS_INTERVAL or 10s)
//
// Environment variables:
//
//	WPSTACK_S3_ACCESS_KEY, WPSTACK_S3_SECRET_KEY: report upload credentials
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Provision or re-converge the web stack",
		Long: `Provision the web stack on this machine or on a remote host.

Steps run in a fixed order and stop at the first failure. Steps whose
result is already present on the host are skipped, so apply can be run
again after a failure or a configuration change.

Generated database passwords are printed in the final summary and
written to wp-config.php. They are not stored anywhere else.

Examples:
  # Provision this machine using wpstack.yaml in the current directory
  sudo wpstack apply

  # Provision a remote host without prompting
  wpstack apply --ssh-host 203.0.113.7 --ssh-key ~/.ssh/id_ed25519 --yes

  # Show what would run
  wpstack apply --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	bindTargetFlags(cmd, &opts.TargetOptions)
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print commands and files without executing them")
	cmd.Flags().DurationVar(&opts.Monitor, "monitor", 0, "Report service status for this long after a successful run")
	cmd.Flags().DurationVar(&opts.Interval, "interval", config.LoadTimeouts().StatusInterval, "Polling interval for --monitor")

	return cmd
}
