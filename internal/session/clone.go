package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ArtiomTr/claude-vibe/internal/git"
	"github.com/ArtiomTr/claude-vibe/internal/ui"
)

// Clone checks url out in the bare layout under target, or under a
// directory named after the repository in cwd, and bootstraps it.
func (m *Manager) Clone(ctx context.Context, cwd, url, target string) error {
	if err := m.requireRuntime(); err != nil {
		return err
	}
	if target == "" {
		target = git.RepoNameFromURL(url)
		if target == "" {
			return fmt.Errorf("cannot derive a directory name from %q", url)
		}
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(cwd, target)
	}

	ui.Info("Cloning %s into %s", url, target)
	if err := m.git.CloneBare(ctx, url, target, ui.Out); err != nil {
		return err
	}
	ui.Success("Cloned into %s", target)

	return m.Bootstrap(ctx, target)
}
