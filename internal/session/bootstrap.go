package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ArtiomTr/claude-vibe/internal/assistant"
	"github.com/ArtiomTr/claude-vibe/internal/logger"
	"github.com/ArtiomTr/claude-vibe/internal/ui"
	"github.com/ArtiomTr/claude-vibe/pkg/naming"
)

// Bootstrap updates the main branch and runs the assistant once, in the
// repository root, with SetupPrompt so it writes the container definition.
func (m *Manager) Bootstrap(ctx context.Context, dir string) error {
	if err := m.requireRuntime(); err != nil {
		return err
	}
	root, err := m.repoRoot(ctx, dir)
	if err != nil {
		return err
	}
	remote := m.cfg.Remote

	main := m.git.DefaultBranch(ctx, root, remote)
	ui.Info("Updating %s from %s", ui.Bold(main), remote)
	if err := m.git.Fetch(ctx, root, remote, main); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", main, err)
	}
	if err := m.git.FastForward(ctx, root, remote, main); err != nil {
		ui.Warn("Could not fast-forward %s: %v", main, err)
	} else {
		ui.Success("%s is up to date", main)
	}

	definition, err := FindDefinition(root, m.cfg.DefaultDefinitionDir, m.cfg.DefinitionName)
	if err != nil {
		return err
	}
	if filepath.Dir(definition) == root && !m.opts.AssumeYes {
		if !ui.AskYesNo(fmt.Sprintf("%s already exists. Generate a new one?", m.cfg.DefinitionName), false) {
			ui.Info("Keeping %s", definition)
			return nil
		}
	}

	ws, err := m.prepareWorkspace(root)
	if err != nil {
		return err
	}
	sess := Session{
		Token:    "setup",
		Worktree: root,
		Image:    naming.ImageTag(m.cfg.ImagePrefix+"-setup", naming.PathHash(root)),
	}
	if err := m.buildImage(ctx, ws, root, definition, sess.Image); err != nil {
		return err
	}

	ui.Info("Starting assistant for project setup")
	ui.BlankLine()

	result, err := m.runStreaming(ctx, run{
		Session:   sess,
		Workspace: ws,
		Command:   m.invoke.SetupCommand(assistant.SetupPrompt),
	})
	if err != nil {
		return err
	}

	ui.BlankLine()
	if result.Text != "" {
		ui.Success("%s", result.Text)
	} else {
		ui.Success("Setup finished")
	}
	if result.HasCost {
		ui.DimMsg("Cost: $%.4f", result.CostUSD)
	}
	ui.Footer()
	return nil
}

type progress struct{}

func (progress) Text(line string) { ui.Quote(line) }
func (progress) Tool(line string) { ui.Tool(line) }

// runStreaming launches r non-interactively and renders its stream-json
// output as it arrives.
func (m *Manager) runStreaming(ctx context.Context, r run) (assistant.Result, error) {
	pr, pw := io.Pipe()
	type rendered struct {
		result assistant.Result
		err    error
	}
	done := make(chan rendered, 1)
	go func() {
		res, err := assistant.RenderStream(pr, progress{})
		// A read error leaves output pending; discard the rest.
		_, _ = io.Copy(io.Discard, pr)
		done <- rendered{res, err}
	}()

	r.Interactive = false
	r.Stdout = pw
	launchErr := m.launch(ctx, r)
	_ = pw.CloseWithError(launchErr)

	out := <-done
	if launchErr != nil {
		return out.result, launchErr
	}
	if out.err != nil {
		logger.WithComponent("session").Warn("incomplete assistant output", "error", out.err)
	}
	return out.result, nil
}
