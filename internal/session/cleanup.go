package session

import (
	"context"
	"fmt"

	"github.com/ArtiomTr/claude-vibe/internal/git"
	"github.com/ArtiomTr/claude-vibe/internal/logger"
	"github.com/ArtiomTr/claude-vibe/internal/ui"
)

// Retained is a worktree Cleanup kept, and why.
type Retained struct {
	Worktree git.Worktree
	Reason   string
}

// CleanupResult summarizes one Cleanup pass.
type CleanupResult struct {
	Removed  []git.Worktree
	Retained []Retained
}

// Cleanup removes every session worktree whose branch is synced with the
// remote, along with its branch and image. A failure on one worktree never
// stops the pass.
func (m *Manager) Cleanup(ctx context.Context, dir string) (CleanupResult, error) {
	log := logger.WithComponent("session")
	var result CleanupResult

	root, err := m.repoRoot(ctx, dir)
	if err != nil {
		return result, err
	}
	worktrees, err := m.git.ListWorktrees(ctx, root)
	if err != nil {
		return result, err
	}
	worktrees = git.FilterByBranchPrefix(worktrees, m.cfg.WorktreePrefix)

	if len(worktrees) == 0 {
		ui.DimMsg("No session worktrees to clean up")
		return result, nil
	}

	for _, wt := range worktrees {
		sync := m.git.CheckSync(ctx, wt.Path, m.cfg.Remote)
		if !sync.Synced {
			ui.Warn("Keeping %s %s", wt.Branch, ui.Dim("("+sync.Reason+")"))
			result.Retained = append(result.Retained, Retained{Worktree: wt, Reason: sync.Reason})
			continue
		}

		if m.opts.DryRun {
			ui.Info("Would remove %s", wt.Branch)
			result.Removed = append(result.Removed, wt)
			continue
		}

		if err := m.git.RemoveWorktree(ctx, root, wt.Path); err != nil {
			ui.Fail("Failed to remove %s: %v", wt.Branch, err)
			result.Retained = append(result.Retained, Retained{Worktree: wt, Reason: fmt.Sprintf("remove failed: %v", err)})
			continue
		}
		if err := m.git.DeleteBranch(ctx, root, wt.Branch); err != nil {
			log.Warn("failed to delete branch", "branch", wt.Branch, "error", err)
		}
		if m.runtime != nil {
			image := m.sessionForWorktree(wt).Image
			if err := m.runtime.RemoveImage(ctx, image); err != nil {
				log.Warn("failed to remove image", "image", image, "error", err)
			}
		}

		ui.Success("Removed %s", wt.Branch)
		result.Removed = append(result.Removed, wt)
	}

	ui.BlankLine()
	verb := "Removed"
	if m.opts.DryRun {
		verb = "Would remove"
	}
	ui.Info("%s %d of %d worktrees, kept %d", verb, len(result.Removed), len(worktrees), len(result.Retained))
	return result, nil
}
