package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/wpstack/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = config.FileExists

	// runWizard asks the configuration questions.
	runWizard = config.RunWizard

	// saveConfig writes the config to a file.
	saveConfig = config.Save
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Fprintf(stdout, "Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("wizard produced an invalid configuration: %w", err)
	}

	if err := saveConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "wpstack - WordPress on a single server")
	fmt.Fprintln(stdout, "======================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a configuration with sensible defaults.")
	fmt.Fprintln(stdout)
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Site Summary")
	fmt.Fprintln(stdout, "------------")
	domain := cfg.Site.Domain
	if domain == "" {
		domain = "(server address)"
	}
	fmt.Fprintf(stdout, "  Domain:      %s\n", domain)
	fmt.Fprintf(stdout, "  Web server:  %s\n", cfg.WebServer)
	fmt.Fprintf(stdout, "  PHP:         %s\n", cfg.PHP.Version)
	fmt.Fprintf(stdout, "  Database:    %s\n", cfg.Database.Name)
	fmt.Fprintf(stdout, "  Firewall:    %t\n", cfg.Firewall.Enabled)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next Steps")
	fmt.Fprintln(stdout, "----------")
	fmt.Fprintf(stdout, "  1. Review %s\n", outputPath)
	fmt.Fprintln(stdout, "  2. Preview the run:  wpstack apply --dry-run")
	fmt.Fprintln(stdout, "  3. Provision:        sudo wpstack apply")
	fmt.Fprintln(stdout)
}
