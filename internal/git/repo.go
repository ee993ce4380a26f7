package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// BareDirName is the directory clone puts the bare repository in.
const BareDirName = ".bare"

// RepoRoot returns the top-level directory of the repository containing dir.
//
// In the layout produced by CloneBare there is no work tree at the top
// level; there the directory holding .bare and the .git pointer file is
// the root.
func (s *Service) RepoRoot(ctx context.Context, dir string) (string, error) {
	if top, err := s.output(ctx, dir, "rev-parse", "--show-toplevel"); err == nil && top != "" {
		return filepath.Clean(top), nil
	}

	gitDir, err := s.output(ctx, dir, "rev-parse", "--absolute-git-dir")
	if err != nil || gitDir == "" {
		return "", fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}

	if root, ok := bareWorkspaceRoot(gitDir); ok {
		logger.WithComponent("git").Debug("bare layout detected", "root", root)
		return root, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotRepository, dir)
}

// bareWorkspaceRoot reports the workspace root for a ".bare" git dir whose
// parent carries a .git pointer file.
func bareWorkspaceRoot(gitDir string) (string, bool) {
	gitDir = filepath.Clean(gitDir)
	if filepath.Base(gitDir) != BareDirName {
		return "", false
	}
	root := filepath.Dir(gitDir)
	info, err := os.Stat(filepath.Join(root, ".git"))
	if err != nil || info.IsDir() {
		return "", false
	}
	return root, true
}

// GitDir returns the git directory for a worktree, reading the .git
// pointer file when the worktree is linked.
func GitDir(worktreePath string) (string, error) {
	dotGit := filepath.Join(worktreePath, ".git")

	info, err := os.Stat(dotGit)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", err
	}

	// Format: "gitdir: /path/to/repo/.git/worktrees/name"
	gitdir, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", fmt.Errorf("malformed %s", dotGit)
	}
	gitdir = strings.TrimSpace(gitdir)
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(worktreePath, gitdir)
	}
	return filepath.Clean(gitdir), nil
}

// CommonGitDir returns the repository's shared git directory for a worktree.
// Linked worktrees must see it at the same path for their .git file to resolve.
func CommonGitDir(worktreePath string) (string, error) {
	gitdir, err := GitDir(worktreePath)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(gitdir, "commondir"))
	if err != nil {
		if os.IsNotExist(err) {
			if filepath.Base(filepath.Dir(gitdir)) == "worktrees" {
				// .git/worktrees/<name> -> .git
				return filepath.Dir(filepath.Dir(gitdir)), nil
			}
			return gitdir, nil
		}
		return "", err
	}

	common := strings.TrimSpace(string(data))
	if !filepath.IsAbs(common) {
		common = filepath.Join(gitdir, common)
	}
	return filepath.Clean(common), nil
}
