// Package main is the entry point for the wpstack CLI.
//
// wpstack provisions a single server with a WordPress web stack: web
// server, PHP-FPM, MariaDB and a firewall. Steps run in a fixed order,
// skip work that is already done, and finish with a verification pass
// and a summary holding the generated credentials.
//
// Commands: init, apply, verify, version, completion.
//
// For detailed usage information, run:
//
//	wpstack --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/wpstack/cmd/wpstack/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
