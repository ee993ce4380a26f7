package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/moby/term"

	"github.com/ArtiomTr/claude-vibe/internal/assistant"
	"github.com/ArtiomTr/claude-vibe/internal/container"
	"github.com/ArtiomTr/claude-vibe/internal/git"
	"github.com/ArtiomTr/claude-vibe/internal/github"
	"github.com/ArtiomTr/claude-vibe/internal/logger"
	"github.com/ArtiomTr/claude-vibe/internal/ui"
)

// workspace is a host directory prepared to be mounted into a container.
type workspace struct {
	Path         string
	UID, GID     int
	CommonGitDir string // empty when it cannot be resolved
}

// prepareWorkspace resolves the account that will work in dir. A
// root-owned workspace, and the git dir it writes to, are handed over to
// the fallback account first.
func (m *Manager) prepareWorkspace(dir string) (workspace, error) {
	log := logger.WithComponent("session")
	ws := workspace{Path: dir}

	uid, gid, err := container.Owner(dir)
	if err != nil {
		return ws, fmt.Errorf("failed to inspect %s: %w", dir, err)
	}
	uid, gid, chown := container.WorkspaceUser(uid, gid)
	ws.UID, ws.GID = uid, gid

	if common, err := git.CommonGitDir(dir); err == nil {
		ws.CommonGitDir = common
	} else {
		log.Debug("no common git dir", "path", dir, "error", err)
	}

	if chown {
		ui.Info("Workspace is owned by root; handing it to %d:%d", uid, gid)
		dirs := []string{dir}
		if ws.CommonGitDir != "" && !within(ws.CommonGitDir, dir) {
			dirs = append(dirs, ws.CommonGitDir)
		}
		for _, d := range dirs {
			if err := container.ChownTree(d, uid, gid); err != nil {
				return ws, fmt.Errorf("failed to chown %s: %w", d, err)
			}
		}
	}
	return ws, nil
}

// buildImage builds the definition against contextDir as tag.
func (m *Manager) buildImage(ctx context.Context, ws workspace, contextDir, definition, tag string) error {
	ui.Info("Building image %s", ui.Bold(tag))
	ui.DimMsg("%s", definition)

	err := m.runtime.BuildImage(ctx, container.BuildSpec{
		ContextDir: contextDir,
		Dockerfile: definition,
		Tag:        tag,
		BuildArgs: map[string]string{
			"USER_ID":  strconv.Itoa(ws.UID),
			"GROUP_ID": strconv.Itoa(ws.GID),
		},
		NoCache: m.opts.NoCache,
		Output:  m.opts.Stderr,
	})
	if err != nil {
		return err
	}
	ui.Success("Image built: %s", tag)
	return nil
}

// run describes one container launch against a prepared workspace.
type run struct {
	Session     Session
	Workspace   workspace
	Command     []string
	Interactive bool
	Stdout      io.Writer // overrides the manager's stdout
}

// launch assembles the container invocation for r and runs it to completion.
func (m *Manager) launch(ctx context.Context, r run) error {
	log := logger.WithComponent("session")

	var collect []container.Collect
	var history string
	if m.cfg.Home != "" {
		dir, err := assistant.HistoryDir(m.cfg.Home, r.Workspace.Path)
		if err != nil {
			log.Warn("conversation history will not be kept", "error", err)
		} else {
			history = dir
			collect = append(collect, container.Collect{
				HomePath: assistant.ContainerHistoryPath(m.cfg.WorkspacePath),
				HostDir:  dir,
			})
		}
	}

	files, err := assistant.StageHome(assistant.HomeOptions{
		HostHome:   m.cfg.Home,
		Workspace:  m.cfg.WorkspacePath,
		Allow:      m.cfg.AllowedTools,
		HistoryDir: history,
	})
	if err != nil {
		return err
	}

	stdout := m.opts.Stdout
	if r.Stdout != nil {
		stdout = r.Stdout
	}
	tty := false
	if r.Interactive {
		_, tty = term.GetFdInfo(m.opts.Stdin)
	}

	cfg := container.RunConfig{
		Name:        r.Session.Image,
		Image:       r.Session.Image,
		WorkDir:     m.cfg.WorkspacePath,
		Env:         m.environment(r.Workspace.Path, tty),
		Mounts:      container.SessionMounts(r.Workspace.Path, r.Workspace.CommonGitDir, m.cfg.WorkspacePath),
		Ports:       append(append([]string(nil), m.cfg.Ports...), m.opts.Ports...),
		Labels:      map[string]string{"vibe.session": r.Session.Token, "vibe.worktree": r.Workspace.Path},
		Interactive: r.Interactive,
		TTY:         tty,
		AutoRemove:  true,
		Stdin:       m.opts.Stdin,
		Stdout:      stdout,
		Stderr:      m.opts.Stderr,
		Collect:     collect,
	}
	entry := container.Entry{
		User: container.User{
			Name: m.cfg.ContainerUser,
			UID:  r.Workspace.UID,
			GID:  r.Workspace.GID,
			Home: m.cfg.ContainerHome,
		},
		Files:   files,
		Command: r.Command,
	}

	log.Debug("launching", "image", cfg.Image, "tty", tty, "mounts", len(cfg.Mounts), "files", len(files))
	return m.runtime.Launch(ctx, cfg, entry)
}

// environment returns the variables forwarded into the container.
func (m *Manager) environment(worktree string, tty bool) []string {
	log := logger.WithComponent("session")
	env := []string{"ANTHROPIC_API_KEY=" + m.cfg.APIKey}

	if m.cfg.Home != "" {
		identity, err := git.ExtractUserConfig(m.cfg.Home)
		if err != nil {
			log.Debug("no git identity", "error", err)
		}
		env = append(env, identity.Env()...)
	}

	if m.cfg.ForwardGitHubToken {
		lookup := github.Lookup{Getenv: m.opts.Getenv, Home: m.cfg.Home}
		if token, err := lookup.FindToken(worktree); err == nil {
			ui.Info("Found GitHub token (%s)", ui.Dim(token.Source))
			env = append(env, token.Env()...)
		} else {
			log.Debug("no GitHub token", "error", err)
		}
	}

	if tty {
		if t := m.opts.Getenv("TERM"); t != "" {
			env = append(env, "TERM="+t)
		}
	}

	keys := make([]string, 0, len(m.cfg.Env))
	for k := range m.cfg.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+m.cfg.Env[k])
	}
	return env
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
