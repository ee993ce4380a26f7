// Package cli wires the vibe command tree onto the session manager.
//
// Commands:
//   - new [-- args]: start a session in a fresh worktree
//   - continue <name> [-- args]: resume the session whose worktree matches name
//   - cleanup: remove session worktrees already pushed to the remote
//   - setup: have the assistant write the project's Dockerfile.vibes
//   - status: show uncommitted and unpushed work per session
//   - clone <url> [dir]: clone in the bare layout and run setup
//   - version: print build information
//
// Running vibe with no command prints the same usage text as vibe help.
// Execute maps errors to exit codes: a container's own non-zero status is
// passed through, anything else exits 1.
package cli
