// Package templates renders the configuration files written to the target
// host. Templates are embedded at build time and executed with
// text/template and the sprig function library.
package templates
