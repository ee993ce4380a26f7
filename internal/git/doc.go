// Package git wraps the git command line for vibe.
//
// Every call goes through an exec.CommandExecutor held by a Service, so the
// session logic can be tested against recorded git output. The package
// covers:
//   - repository root resolution, including the bare ".bare" layout made by clone
//   - worktree creation, listing (porcelain) and removal
//   - sync checks against a remote and per-worktree status counts
//   - common git dir discovery from a worktree's .git file
//   - user identity extraction from ~/.gitconfig and its includes
//
// Example usage:
//
//	svc := git.NewService()
//	root, err := svc.RepoRoot(ctx, cwd)
//	path, err := svc.CreateWorktree(ctx, root, "/src/claude/a1b2c3d4", "claude/a1b2c3d4")
//	sync := svc.CheckSync(ctx, path, "origin")
//	if sync.Synced {
//	    err = svc.RemoveWorktree(ctx, root, path)
//	}
package git
