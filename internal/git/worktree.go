package git

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// Worktree is one entry of `git worktree list --porcelain`.
type Worktree struct {
	Path     string
	Head     string
	Branch   string // short name, empty when detached or bare
	Bare     bool
	Detached bool
}

// ParseWorktreeList parses porcelain worktree output. Records are separated
// by blank lines; a missing trailing blank line is tolerated.
func ParseWorktreeList(output string) []Worktree {
	var (
		worktrees []Worktree
		current   *Worktree
	)
	flush := func() {
		if current != nil && current.Path != "" {
			worktrees = append(worktrees, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		if key == "worktree" {
			flush()
			current = &Worktree{Path: value}
			continue
		}
		if current == nil {
			continue
		}

		switch key {
		case "HEAD":
			current.Head = value
		case "branch":
			current.Branch = strings.TrimPrefix(value, "refs/heads/")
		case "bare":
			current.Bare = true
		case "detached":
			current.Detached = true
		}
	}
	flush()

	return worktrees
}

// FilterByBranchPrefix keeps worktrees whose branch starts with prefix.
func FilterByBranchPrefix(worktrees []Worktree, prefix string) []Worktree {
	var out []Worktree
	for _, wt := range worktrees {
		if wt.Branch != "" && strings.HasPrefix(wt.Branch, prefix) {
			out = append(out, wt)
		}
	}
	return out
}

// ListWorktrees returns every worktree of the repository at repoPath.
func (s *Service) ListWorktrees(ctx context.Context, repoPath string) ([]Worktree, error) {
	out, err := s.executor.Output(ctx, repoPath, "git", "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %w", err)
	}
	return ParseWorktreeList(string(out)), nil
}

// CreateWorktree adds a worktree at path on a new branch and returns the
// path with symlinks resolved.
func (s *Service) CreateWorktree(ctx context.Context, repoPath, path, branch string) (string, error) {
	if err := s.run(ctx, repoPath, "worktree", "add", path, "-b", branch); err != nil {
		return "", fmt.Errorf("failed to create worktree: %w", err)
	}

	logger.WithComponent("git").Info("created worktree", "path", path, "branch", branch)

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved, nil
	}
	return filepath.Clean(path), nil
}

// RemoveWorktree force-removes a worktree, discarding local modifications.
func (s *Service) RemoveWorktree(ctx context.Context, repoPath, path string) error {
	if err := s.run(ctx, repoPath, "worktree", "remove", "--force", path); err != nil {
		return fmt.Errorf("failed to remove worktree %s: %w", path, err)
	}
	logger.WithComponent("git").Info("removed worktree", "path", path)
	return nil
}

// DeleteBranch force-deletes a local branch.
func (s *Service) DeleteBranch(ctx context.Context, repoPath, branch string) error {
	if err := s.run(ctx, repoPath, "branch", "-D", branch); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branch, err)
	}
	return nil
}
