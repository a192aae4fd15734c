// Package retry retries transient operations with exponential backoff.
//
// [Do] is used for the remote salt endpoint, SSH dialing and report
// uploads. Errors wrapped with [Fatal] stop the loop immediately.
package retry
