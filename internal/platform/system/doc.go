// Package system wraps the Debian host tools the provisioning steps drive:
// apt and dpkg for packages, systemctl for services and ufw for the
// firewall. Every call goes through a shell.Runner so the same code works
// locally, over SSH and in dry-run mode.
package system
