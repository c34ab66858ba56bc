// Package env holds build-time identity information stamped into the
// DFXML report's <creator> block and the CLI's version output.
package env

// Set via -ldflags at build time; these defaults apply to unstamped
// development builds.
var (
	AppName    = "diskcarve"
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
