// Package provisioning provides shared types, interfaces, and orchestration
// for provisioning a single-server web stack.
//
// # Subpackages
//
//   - steps/ - the ordered provisioning steps (packages, database, web server, ...)
//   - verify/ - post-run service and HTTP checks, background status reporter
//
// # Core Types
//
// Context carries configuration, the command runner, credentials and state.
// Phase defines a provisioning step with Name() and Provision() methods.
// Checker lets a phase report that its work is already done.
// State accumulates results from each phase (server IP, files, services).
package provisioning
