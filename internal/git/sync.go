package git

import (
	"context"
	"errors"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// SyncStatus reports whether a worktree's branch matches the remote.
type SyncStatus struct {
	Synced bool
	Reason string // why the worktree is not synced
	Branch string
	Local  string
	Remote string
}

// CheckSync decides whether a worktree is safe to discard: its branch
// exists on the remote and the remote tip equals the local HEAD.
// Every failure along the way classifies the worktree as not synced.
func (s *Service) CheckSync(ctx context.Context, worktreePath, remote string) SyncStatus {
	log := logger.WithComponent("git")

	branch, err := s.CurrentBranch(ctx, worktreePath)
	if err != nil {
		if errors.Is(err, ErrDetachedHead) {
			return SyncStatus{Reason: "detached HEAD"}
		}
		log.Debug("sync check: branch lookup failed", "path", worktreePath, "error", err)
		return SyncStatus{Reason: "cannot determine branch"}
	}
	status := SyncStatus{Branch: branch}

	if !s.RemoteBranchExists(ctx, worktreePath, remote, branch) {
		status.Reason = "branch not on " + remote
		return status
	}

	if err := s.Fetch(ctx, worktreePath, remote, branch); err != nil {
		log.Debug("sync check: fetch failed", "branch", branch, "error", err)
		status.Reason = "fetch failed"
		return status
	}

	if status.Local, err = s.RevParse(ctx, worktreePath, "HEAD"); err != nil {
		status.Reason = "cannot resolve HEAD"
		return status
	}
	if status.Remote, err = s.RevParse(ctx, worktreePath, remote+"/"+branch); err != nil {
		status.Reason = "cannot resolve " + remote + "/" + branch
		return status
	}

	if status.Local != status.Remote {
		status.Reason = "local commits differ from " + remote
		return status
	}

	status.Synced = true
	return status
}
