package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ArtiomTr/claude-vibe/internal/git"
	"github.com/ArtiomTr/claude-vibe/internal/logger"
	"github.com/ArtiomTr/claude-vibe/internal/ui"
	"github.com/ArtiomTr/claude-vibe/pkg/naming"
)

// Create starts a session in a fresh worktree of the repository containing
// dir. args are passed to the assistant.
func (m *Manager) Create(ctx context.Context, dir string, args []string) error {
	if err := m.requireRuntime(); err != nil {
		return err
	}
	root, err := m.repoRoot(ctx, dir)
	if err != nil {
		return err
	}

	token, err := m.opts.Tokens(m.cfg.TokenLength)
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}
	if !naming.IsToken(token) {
		return fmt.Errorf("invalid session token %q", token)
	}
	sess := m.sessionFor(root, token)
	logger.WithComponent("session").Debug("new session", "token", token, "root", root)

	ui.Info("Creating worktree %s", ui.Bold(sess.Branch))
	path, err := m.git.CreateWorktree(ctx, root, sess.Worktree, sess.Branch)
	if err != nil {
		return err
	}
	sess.Worktree = path
	ui.Success("Worktree ready: %s", path)

	return m.start(ctx, sess, args)
}

// Resume relaunches the session whose worktree matches name.
func (m *Manager) Resume(ctx context.Context, dir, name string, args []string) error {
	if err := m.requireRuntime(); err != nil {
		return err
	}
	root, err := m.repoRoot(ctx, dir)
	if err != nil {
		return err
	}

	worktrees, err := m.git.ListWorktrees(ctx, root)
	if err != nil {
		return err
	}
	candidates := git.FilterByBranchPrefix(worktrees, m.cfg.WorktreePrefix)

	wt, ok := m.matchWorktree(candidates, name)
	if !ok {
		m.printAvailable(candidates, name)
		return fmt.Errorf("%w: %s", ErrWorktreeNotFound, name)
	}

	sess := m.sessionForWorktree(wt)
	ui.Info("Continuing session in %s", wt.Path)
	return m.start(ctx, sess, args)
}

// matchWorktree finds the worktree name refers to. Exact matches on the
// branch, token or directory name win over substring matches on the path
// or branch.
func (m *Manager) matchWorktree(worktrees []git.Worktree, name string) (git.Worktree, bool) {
	if name == "" {
		return git.Worktree{}, false
	}
	for _, wt := range worktrees {
		sess := m.sessionForWorktree(wt)
		if wt.Branch == name || sess.Token == name || filepath.Base(wt.Path) == name {
			return wt, true
		}
	}
	for _, wt := range worktrees {
		if strings.Contains(wt.Path, name) || strings.Contains(wt.Branch, name) {
			return wt, true
		}
	}
	return git.Worktree{}, false
}

// printAvailable lists the session worktrees and the closest matches to name.
func (m *Manager) printAvailable(worktrees []git.Worktree, name string) {
	ui.Fail("Worktree '%s' not found", name)
	ui.BlankLine()
	if len(worktrees) == 0 {
		ui.DimMsg("No %s worktrees found", strings.TrimSuffix(m.cfg.WorktreePrefix, "/"))
		ui.Info("Use %s to create a new session", ui.Bold("vibe new"))
		return
	}

	branches := make([]string, len(worktrees))
	for i, wt := range worktrees {
		branches[i] = wt.Branch
	}
	if matches := fuzzy.Find(name, branches); len(matches) > 0 {
		ui.Info("Did you mean %s?", ui.Bold(matches[0].Str))
	}

	ui.Info("Available worktrees:")
	for _, wt := range worktrees {
		ui.Item("%s %s", wt.Branch, ui.Dim("("+wt.Path+")"))
	}
}

// start builds the session image and runs the assistant interactively.
func (m *Manager) start(ctx context.Context, sess Session, args []string) error {
	definition, err := FindDefinition(sess.Worktree, m.cfg.DefaultDefinitionDir, m.cfg.DefinitionName)
	if err != nil {
		return err
	}

	ws, err := m.prepareWorkspace(sess.Worktree)
	if err != nil {
		return err
	}
	if err := m.buildImage(ctx, ws, sess.Worktree, definition, sess.Image); err != nil {
		return err
	}

	ui.Info("Starting session %s", ui.Bold(sess.Token))
	ui.Footer()
	return m.launch(ctx, run{
		Session:     sess,
		Workspace:   ws,
		Command:     m.invoke.Command(args...),
		Interactive: true,
	})
}
