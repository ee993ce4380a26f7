package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ArtiomTr/claude-vibe/internal/assistant"
	"github.com/ArtiomTr/claude-vibe/internal/config"
	"github.com/ArtiomTr/claude-vibe/internal/container"
	"github.com/ArtiomTr/claude-vibe/internal/git"
	"github.com/ArtiomTr/claude-vibe/pkg/naming"
)

var (
	ErrNotAGitRepository = errors.New("not a git repository")
	ErrNoDockerfileFound = errors.New("no container definition found")
	ErrWorktreeNotFound  = errors.New("worktree not found")
)

// Runtime builds images and runs containers.
type Runtime interface {
	BuildImage(ctx context.Context, spec container.BuildSpec) error
	Launch(ctx context.Context, cfg container.RunConfig, entry container.Entry) error
	RemoveImage(ctx context.Context, tag string) error
}

// Options tune a Manager. The zero value is usable.
type Options struct {
	// Git defaults to a service running the git binary.
	Git *git.Service

	// Tokens generates session tokens. Defaults to naming.Token.
	Tokens func(n int) (string, error)

	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	// Ports are published in addition to the configured ones.
	Ports []string

	NoCache bool

	// DryRun makes Cleanup report without removing anything.
	DryRun bool

	// AssumeYes answers confirmation prompts with yes.
	AssumeYes bool

	// Streams for the assistant process; default to the process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Manager runs vibe commands against one configuration.
type Manager struct {
	cfg     config.Config
	git     *git.Service
	runtime Runtime
	opts    Options
	invoke  assistant.Invocation
}

// New returns a Manager. runtime may be nil for commands that never touch
// Docker (status); Cleanup then skips image removal.
func New(cfg config.Config, runtime Runtime, opts Options) *Manager {
	if opts.Git == nil {
		opts.Git = git.NewService()
	}
	if opts.Tokens == nil {
		opts.Tokens = naming.Token
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Manager{
		cfg:     cfg,
		git:     opts.Git,
		runtime: runtime,
		opts:    opts,
		invoke: assistant.Invocation{
			Executable:     cfg.AssistantCommand,
			PermissionMode: cfg.PermissionMode,
		},
	}
}

// Session is the set of names derived from one token.
type Session struct {
	Token    string
	Branch   string
	Worktree string
	Image    string
}

// sessionFor derives a new session's names. The worktree sits beside the
// repository root: <root>/../<prefix><token>.
func (m *Manager) sessionFor(root, token string) Session {
	branch := m.cfg.WorktreePrefix + token
	return Session{
		Token:    token,
		Branch:   branch,
		Worktree: filepath.Join(filepath.Dir(root), filepath.FromSlash(branch)),
		Image:    naming.ImageTag(m.cfg.ImagePrefix, token),
	}
}

// sessionForWorktree recovers the session names of an existing worktree.
func (m *Manager) sessionForWorktree(wt git.Worktree) Session {
	token := filepath.Base(wt.Path)
	if wt.Branch != "" {
		token = naming.TokenFromBranch(m.cfg.WorktreePrefix, wt.Branch)
	}
	return Session{
		Token:    token,
		Branch:   wt.Branch,
		Worktree: wt.Path,
		Image:    naming.ImageTag(m.cfg.ImagePrefix, token),
	}
}

func (m *Manager) repoRoot(ctx context.Context, dir string) (string, error) {
	root, err := m.git.RepoRoot(ctx, dir)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return "", fmt.Errorf("%w: %s", ErrNotAGitRepository, dir)
		}
		return "", err
	}
	return root, nil
}

func (m *Manager) requireRuntime() error {
	if m.runtime == nil {
		return errors.New("docker is not available")
	}
	return nil
}
