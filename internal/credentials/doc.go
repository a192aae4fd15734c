// Package credentials generates the per-run database passwords and fetches
// the application's authentication salts.
//
// Passwords live only in memory and in the rendered application config.
// [Credentials] implements [slog.LogValuer] so that passing it to a logger
// never leaks the values.
package credentials
