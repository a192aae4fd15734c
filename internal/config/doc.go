// Package config defines the wpstack configuration model.
//
// A [Config] describes the site to provision: web server flavour, PHP
// version and tuning, database names, firewall rules, remote endpoints
// and optional reporting sinks. It is read from wpstack.yaml (see
// [Load]); missing fields fall back to [Default] values and a few
// secrets can be supplied via WPSTACK_* environment variables or a .env
// file. Operation timeouts live separately in [Timeouts].
package config
