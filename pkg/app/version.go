package app

import (
	"fmt"
	"runtime"
)

// Build information. Populated at build-time via -ldflags.
var (
	Version   = "unknown"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)

// GetVersion returns the version string.
func GetVersion() string {
	return Version
}
