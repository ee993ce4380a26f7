// Package main provides the entry point for the vibe CLI.
//
// vibe runs the claude coding assistant in a container against a
// dedicated git worktree, one session per worktree.
package main

import (
	"os"

	"github.com/ArtiomTr/claude-vibe/internal/cli"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date}, os.Args[1:]))
}
