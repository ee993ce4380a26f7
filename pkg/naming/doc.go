// Package naming derives the identifiers a vibe session is known by.
//
// A session is keyed by a short random token drawn from [a-z0-9]. The
// same token names both halves of the session:
//   - the git branch and worktree directory ("claude/" + token)
//   - the container image tag ("claude-vibe-" + token)
//
// Because both names come from one token, a worktree can always be
// paired back to its image without any stored state:
//
//	token, err := naming.Token(8)
//	branch := "claude/" + token              // claude/a1b2c3d4
//	image := naming.ImageTag("claude-vibe", token) // claude-vibe-a1b2c3d4
//
// PathHash gives a stable 8-character identifier for a directory, used
// for images that belong to a repository rather than a session.
package naming
