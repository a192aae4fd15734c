// Package steps holds the ordered provisioning steps of a web stack run.
//
// [All] returns them in execution order:
//
//	preflight → system-update → packages → firewall → database → php →
//	application → app-config → webserver → services
//
// Steps that can detect finished work implement provisioning.Checker so a
// re-run against a provisioned host skips them.
package steps
