package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/wpstack/cmd/wpstack/handlers"
	"github.com/imamik/wpstack/internal/config"
)

// Init returns the command for interactively creating a configuration.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a wpstack configuration file.

The wizard asks for the domain, web server, PHP version, database name
and firewall settings. Everything else uses defaults that can be edited
in the generated file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFilename, "Output file path")

	return cmd
}
