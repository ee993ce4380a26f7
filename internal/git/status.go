package git

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// WorktreeStatus summarizes the local state of one worktree.
type WorktreeStatus struct {
	Modified  int
	Untracked int
	Unpushed  int // commits not on any remote-tracking branch
	Orphaned  bool
}

// HasUncommitted reports modified or untracked files.
func (s WorktreeStatus) HasUncommitted() bool {
	return s.Modified > 0 || s.Untracked > 0
}

// HasUnpushed reports commits missing from the remote.
func (s WorktreeStatus) HasUnpushed() bool {
	return s.Unpushed > 0
}

// Clean reports a worktree with nothing to lose.
func (s WorktreeStatus) Clean() bool {
	return !s.Orphaned && !s.HasUncommitted() && !s.HasUnpushed()
}

// Status inspects a worktree. A worktree whose directory is gone is
// reported as orphaned without running git.
func (s *Service) Status(ctx context.Context, worktreePath, remote string) (WorktreeStatus, error) {
	if _, err := os.Stat(worktreePath); os.IsNotExist(err) {
		return WorktreeStatus{Orphaned: true}, nil
	}

	out, err := s.executor.Output(ctx, worktreePath, "git", "status", "--porcelain")
	if err != nil {
		return WorktreeStatus{}, fmt.Errorf("failed to get status: %w", err)
	}
	status := parsePorcelainStatus(string(out))

	count, err := s.output(ctx, worktreePath, "rev-list", "--count", "HEAD", "--not", "--remotes="+remote)
	if err != nil {
		return status, fmt.Errorf("failed to count unpushed commits: %w", err)
	}
	if status.Unpushed, err = strconv.Atoi(count); err != nil {
		return status, fmt.Errorf("unexpected rev-list output %q", count)
	}

	return status, nil
}

// LastCommitTime returns the committer time of HEAD.
func (s *Service) LastCommitTime(ctx context.Context, worktreePath string) (time.Time, error) {
	out, err := s.output(ctx, worktreePath, "log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last commit: %w", err)
	}
	sec, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unexpected log output %q", out)
	}
	return time.Unix(sec, 0), nil
}

func parsePorcelainStatus(output string) WorktreeStatus {
	var status WorktreeStatus
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "??") {
			status.Untracked++
		} else {
			status.Modified++
		}
	}
	return status
}
