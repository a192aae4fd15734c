package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Command        time.Duration // Upper bound for a single external command
	Download       time.Duration // Timeout for remote HTTP fetches (salts)
	Probe          time.Duration // Timeout for the HTTP reachability probe
	SSHDial        time.Duration // Timeout for establishing the SSH connection
	StatusInterval time.Duration // Poll interval of the status reporter
	RetryAttempts  int           // Attempts for transient network operations
	RetryDelay     time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - WPSTACK_TIMEOUT_COMMAND (default: 30m)
//   - WPSTACK_TIMEOUT_DOWNLOAD (default: 30s)
//   - WPSTACK_TIMEOUT_PROBE (default: 10s)
//   - WPSTACK_TIMEOUT_SSH_DIAL (default: 10s)
//   - WPSTACK_STATUS_INTERVAL (default: 10s)
//   - WPSTACK_RETRY_ATTEMPTS (default: 4)
//   - WPSTACK_RETRY_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Command:        parseDuration("WPSTACK_TIMEOUT_COMMAND", 30*time.Minute),
		Download:       parseDuration("WPSTACK_TIMEOUT_DOWNLOAD", 30*time.Second),
		Probe:          parseDuration("WPSTACK_TIMEOUT_PROBE", 10*time.Second),
		SSHDial:        parseDuration("WPSTACK_TIMEOUT_SSH_DIAL", 10*time.Second),
		StatusInterval: parseDuration("WPSTACK_STATUS_INTERVAL", 10*time.Second),
		RetryAttempts:  parseInt("WPSTACK_RETRY_ATTEMPTS", 4),
		RetryDelay:     parseDuration("WPSTACK_RETRY_DELAY", time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
