package version

// Version is the current version of the stratbench library.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/tickerlab/stratbench/internal/version.Version=1.2.3"
// The value "main" marks a development build and skips schema gating.
var Version = "v1.0.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
