// Package session orchestrates vibe sessions: worktrees, images and the
// assistant container that runs against them.
//
// A session is identified by a short random token. The token names the
// session's branch and worktree (claude/<token>, next to the repository)
// and its image (claude-vibe-<token>), so any of the three leads back to
// the others.
//
// Manager implements the commands:
//   - Create makes a fresh worktree and launches a session in it
//   - Resume relaunches a session for an existing worktree
//   - Cleanup removes worktrees whose branch is synced with the remote
//   - Bootstrap asks the assistant to write the project's container definition
//   - Status reports local changes in every session worktree
//   - Clone sets up a bare-layout checkout and bootstraps it
//
// Docker access goes through the Runtime interface so the orchestration can
// be tested without a daemon.
package session
