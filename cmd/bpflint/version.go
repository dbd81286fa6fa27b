package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// Set at link time with -ldflags "-X main.version=1.2.3 -X main.commit=abc".
// Otherwise they are taken from the build info in init.
var (
	version string
	commit  string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version of bpflint",
	RunE:  runVersion,
}

func init() {
	info, _ := debug.ReadBuildInfo()
	version, commit = resolveVersion(info, version, commit)
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bpflint v%s\n", version)
	fmt.Fprintf(out, "Commit: %s\n", commit)
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}

// resolveVersion fills in whatever the linker did not set: the module
// version recorded by `go install pkg@version` and the VCS revision
// stamped by `go build`. info may be nil.
func resolveVersion(info *debug.BuildInfo, v, c string) (string, string) {
	if info != nil {
		if v == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = strings.TrimPrefix(info.Main.Version, "v")
		}
		for _, s := range info.Settings {
			if c == "" && s.Key == "vcs.revision" {
				c = s.Value
			}
		}
	}
	if v == "" {
		v = "dev"
	}
	if c == "" {
		c = "unknown"
	}
	return v, c
}
