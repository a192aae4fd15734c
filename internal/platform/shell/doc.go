// Package shell runs external commands on the host being provisioned.
//
// A [Runner] executes a [Command] and writes files. Three implementations
// exist: [Local] uses os/exec on the machine wpstack runs on, [SSH] drives
// a remote machine over golang.org/x/crypto/ssh, and [Recorder] captures
// commands without executing them (dry runs and tests).
//
// Command stdin is never logged; callers pass secrets (SQL with
// passwords) only through stdin or file contents.
package shell
