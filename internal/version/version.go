// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/coinpulse/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/coinpulse/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

// Build-time variables (set via ldflags)
var (
	Version = "dev"
	Commit  = "unknown"
)

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ")"
}

// UserAgent returns the User-Agent sent to upstream services.
func UserAgent() string {
	return "coinpulse/" + Version
}
