// Package main is the entry point for the worldclock CLI.
//
// It delegates all functionality to the internal/cli package and exits
// with the code the command chain resolved to.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during the release process. During development, they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	"context"
	"os"

	"github.com/shinji-kodama/worldclock/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	code := cli.New(cli.Options{}).Run(context.Background(), os.Args[1:])
	os.Exit(int(code))
}
