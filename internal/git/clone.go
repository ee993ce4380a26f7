package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// CloneBare clones url into dir/.bare and points dir/.git at it, so dir
// becomes a root that worktrees can be added next to. Git's own progress
// is written to progress.
// The directory must not exist; it is removed again if any step before
// the initial fetch fails.
func (s *Service) CloneBare(ctx context.Context, url, dir string, progress io.Writer) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %s already exists", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	bare := filepath.Join(dir, BareDirName)
	if progress == nil {
		progress = io.Discard
	}
	if err := s.executor.Stream(ctx, "", io.Discard, progress, "git", "clone", "--bare", url, bare); err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to clone %s: %w", url, err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: ./"+BareDirName+"\n"), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to write .git file: %w", err)
	}

	// Bare clones map no remote-tracking refs by default.
	if err := s.run(ctx, dir, "config", "remote.origin.fetch", "+refs/heads/*:refs/remotes/origin/*"); err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to configure remote fetch: %w", err)
	}

	if err := s.Fetch(ctx, dir, "origin"); err != nil {
		logger.WithComponent("git").Warn("initial fetch failed", "dir", dir, "error", err)
	}
	return nil
}

// RepoNameFromURL derives a directory name from a clone URL, e.g.
// "git@github.com:user/repo.git" -> "repo".
func RepoNameFromURL(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return strings.TrimSuffix(url, ".git")
}
