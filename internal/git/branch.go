package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// CurrentBranch returns the branch checked out in dir.
func (s *Service) CurrentBranch(ctx context.Context, dir string) (string, error) {
	branch, err := s.output(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if branch == "HEAD" || branch == "" {
		return "", ErrDetachedHead
	}
	return branch, nil
}

// RevParse resolves a revision to a commit hash.
func (s *Service) RevParse(ctx context.Context, dir, rev string) (string, error) {
	hash, err := s.output(ctx, dir, "rev-parse", rev)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	return hash, nil
}

// RemoteBranchExists asks the remote whether it has the branch.
// Any failure, including an unreachable remote, reads as absent.
func (s *Service) RemoteBranchExists(ctx context.Context, dir, remote, branch string) bool {
	_, _, err := s.executor.Run(ctx, dir, "git", "ls-remote", "--exit-code", "--heads", remote, branch)
	return err == nil
}

// Fetch fetches refspecs from a remote.
func (s *Service) Fetch(ctx context.Context, dir, remote string, refspecs ...string) error {
	args := append([]string{"fetch", remote}, refspecs...)
	if err := s.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}
	return nil
}

// DefaultBranch reads the remote's HEAD branch from `git remote show`,
// falling back to "main".
func (s *Service) DefaultBranch(ctx context.Context, dir, remote string) string {
	out, err := s.output(ctx, dir, "remote", "show", remote)
	if err != nil {
		logger.WithComponent("git").Debug("remote show failed, assuming main", "remote", remote, "error", err)
		return "main"
	}
	if branch := parseHeadBranch(out); branch != "" {
		return branch
	}
	return "main"
}

func parseHeadBranch(remoteShow string) string {
	for _, line := range strings.Split(remoteShow, "\n") {
		if !strings.Contains(line, "HEAD branch") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if branch := fields[len(fields)-1]; branch != "(unknown)" {
			return branch
		}
	}
	return ""
}

// FastForward brings the local branch up to date with its remote
// counterpart without creating merge commits.
//
// When dir is a work tree with the branch checked out it merges
// --ff-only; otherwise it updates the ref directly with a non-forced
// fetch, which git refuses if the update is not a fast-forward.
func (s *Service) FastForward(ctx context.Context, dir, remote, branch string) error {
	if s.isWorkTree(ctx, dir) {
		if current, err := s.CurrentBranch(ctx, dir); err == nil && current == branch {
			if err := s.Fetch(ctx, dir, remote, branch); err != nil {
				return err
			}
			if err := s.run(ctx, dir, "merge", "--ff-only", remote+"/"+branch); err != nil {
				return fmt.Errorf("failed to fast-forward %s: %w", branch, err)
			}
			return nil
		}
	}

	if err := s.Fetch(ctx, dir, remote, branch+":"+branch); err != nil {
		return fmt.Errorf("failed to fast-forward %s: %w", branch, err)
	}
	return nil
}

func (s *Service) isWorkTree(ctx context.Context, dir string) bool {
	out, err := s.output(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}
