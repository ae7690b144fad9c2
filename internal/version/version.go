package version

import (
	"fmt"
	"io"
	"runtime"
)

// Build metadata, set through -ldflags at release time.
var (
	App       string = "qr-class-manager"
	Version   string
	GitCommit string
	BuildTime string
)

// Write prints the version information to w.
func Write(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", App, String())
	if GitCommit != "" {
		fmt.Fprintf(w, "Git commit: %s\n", shortCommit())
	}
	if BuildTime != "" {
		fmt.Fprintf(w, "Build time: %s\n", BuildTime)
	}
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "Built for: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies this build in outbound requests.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s)", App, String(), runtime.GOOS, runtime.GOARCH)
}

func shortCommit() string {
	if len(GitCommit) > 7 {
		return GitCommit[:7]
	}
	return GitCommit
}

// String returns the release version, or "dev" for local builds.
func String() string {
	if Version != "" {
		return Version
	}
	return "dev"
}
