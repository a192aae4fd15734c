package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/wpstack/cmd/wpstack/handlers"
)

// bindTargetFlags registers the flags selecting the machine to work on.
func bindTargetFlags(cmd *cobra.Command, t *handlers.TargetOptions) {
	cmd.Flags().StringVarP(&t.ConfigPath, "config", "c", "", "Path to configuration file (default: wpstack.yaml)")
	cmd.Flags().StringVar(&t.SSH.Host, "ssh-host", "", "Provision a remote host over SSH instead of this machine")
	cmd.Flags().StringVar(&t.SSH.User, "ssh-user", "root", "SSH user; non-root users need passwordless sudo")
	cmd.Flags().StringVar(&t.SSH.KeyPath, "ssh-key", "", "SSH private key (default: ~/.ssh/id_ed25519)")
	cmd.Flags().IntVar(&t.SSH.Port, "ssh-port", 22, "SSH port")
	cmd.Flags().BoolVar(&t.Plain, "plain", false, "Plain log output instead of the terminal dashboard")
	cmd.Flags().StringVarP(&t.Output, "output", "o", handlers.OutputText, "Result format (text, yaml)")
}
