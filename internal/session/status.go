package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/ArtiomTr/claude-vibe/internal/git"
	"github.com/ArtiomTr/claude-vibe/internal/ui"
)

const statusConcurrency = 8

// WorktreeReport is the status of one session worktree.
type WorktreeReport struct {
	Worktree     git.Worktree
	Status       git.WorktreeStatus
	LastActivity time.Time // zero when unknown
	Err          error
}

var (
	clean       = color.New(color.FgGreen).SprintFunc()
	uncommitted = color.New(color.FgYellow).SprintFunc()
	unpushed    = color.New(color.FgBlue).SprintFunc()
	danger      = color.New(color.FgRed).SprintFunc()
)

// Status reports every session worktree's local changes. Worktrees are
// inspected concurrently; the report keeps git's listing order.
func (m *Manager) Status(ctx context.Context, dir string) ([]WorktreeReport, error) {
	root, err := m.repoRoot(ctx, dir)
	if err != nil {
		return nil, err
	}
	worktrees, err := m.git.ListWorktrees(ctx, root)
	if err != nil {
		return nil, err
	}
	worktrees = git.FilterByBranchPrefix(worktrees, m.cfg.WorktreePrefix)

	if len(worktrees) == 0 {
		ui.DimMsg("No session worktrees found")
		ui.Info("Use %s to create a new session", ui.Bold("vibe new"))
		return nil, nil
	}

	reports := make([]WorktreeReport, len(worktrees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusConcurrency)
	for i, wt := range worktrees {
		i, wt := i, wt
		g.Go(func() error {
			report := WorktreeReport{Worktree: wt}
			report.Status, report.Err = m.git.Status(gctx, wt.Path, m.cfg.Remote)
			if report.Err == nil && !report.Status.Orphaned {
				if t, err := m.git.LastCommitTime(gctx, wt.Path); err == nil {
					report.LastActivity = t
				}
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	printStatus(reports)
	return reports, nil
}

func printStatus(reports []WorktreeReport) {
	ui.Info("Session worktrees:")
	ui.BlankLine()
	for _, r := range reports {
		fmt.Fprintf(ui.Out, "  %s %s\n", indicator(r.Status), ui.Bold(r.Worktree.Branch))
		switch {
		case r.Status.Orphaned:
			fmt.Fprintf(ui.Out, "    %s\n", danger("Orphaned - directory missing"))
		case r.Err != nil:
			fmt.Fprintf(ui.Out, "    %s\n", danger(r.Err.Error()))
		default:
			fmt.Fprintf(ui.Out, "    %s\n", ui.Dim(describe(r)))
		}
	}
	ui.BlankLine()
	fmt.Fprintf(ui.Out, "  %s %s clean  %s uncommitted  %s unpushed  %s both  %s orphaned\n",
		ui.Dim("Legend:"), clean("●"), uncommitted("●"), unpushed("●"), danger("●"), danger("✗"))
}

func indicator(s git.WorktreeStatus) string {
	switch {
	case s.Clean():
		return clean("●")
	case s.Orphaned:
		return danger("✗")
	case s.HasUncommitted() && s.HasUnpushed():
		return danger("●")
	case s.HasUncommitted():
		return uncommitted("●")
	}
	return unpushed("●")
}

// describe renders the counts behind a worktree's indicator.
func describe(r WorktreeReport) string {
	var details []string
	if r.Status.Modified > 0 {
		details = append(details, fmt.Sprintf("%d modified", r.Status.Modified))
	}
	if r.Status.Untracked > 0 {
		details = append(details, fmt.Sprintf("%d untracked", r.Status.Untracked))
	}
	if r.Status.Unpushed > 0 {
		details = append(details, fmt.Sprintf("%d unpushed commit(s)", r.Status.Unpushed))
	}

	line := strings.Join(details, ", ")
	if r.Status.Clean() {
		line = "Clean - safe to delete"
	}
	if !r.LastActivity.IsZero() {
		line += " · last commit " + humanize.Time(r.LastActivity)
	}
	return line
}
