// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/imamik/wpstack/internal/logging"
)

// Root returns the root command for the wpstack CLI.
func Root() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "wpstack",
		Short: "Provision a WordPress web stack on a single server",
		// Errors are printed once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			_, err := logging.Initialize(os.Stderr, logFormat, logLevel)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Console log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.Tint, "Console log format (tint, text, json)")

	cmd.AddCommand(Init())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Verify())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
