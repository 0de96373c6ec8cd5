package main

import (
	"runtime"

	"github.com/biraysutcuoglu/KeyValueStore/internal/build"
	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/cmd"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Pass build info to CLI
	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})

	// Run CLI (shows help if no subcommand)
	cmd.Execute()
}
