package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/wpstack/cmd/wpstack/handlers"
	"github.com/imamik/wpstack/internal/config"
)

// Verify returns the command that checks a provisioned host.
func Verify() *cobra.Command {
	var opts handlers.VerifyOptions

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check services and site reachability",
		Long: `Check that the database, PHP-FPM and the web server are active and
that the site answers with a 2xx or 3xx status.

With --watch the check repeats every --interval until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Verify(cmd.Context(), opts)
		},
	}

	bindTargetFlags(cmd, &opts.TargetOptions)
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Keep checking until interrupted")
	cmd.Flags().DurationVar(&opts.Interval, "interval", config.LoadTimeouts().StatusInterval, "Polling interval for --watch")

	return cmd
}
