package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ArtiomTr/claude-vibe/internal/config"
	"github.com/ArtiomTr/claude-vibe/internal/container"
	"github.com/ArtiomTr/claude-vibe/internal/logger"
	"github.com/ArtiomTr/claude-vibe/internal/session"
	"github.com/ArtiomTr/claude-vibe/internal/ui"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrUnknownCommand  = errors.New("unknown command")
)

// BuildInfo is set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Runtime is a session runtime holding a daemon connection.
type Runtime interface {
	session.Runtime
	Close() error
}

// Deps are the process dependencies a command runs against. Zero fields
// default to the real ones.
type Deps struct {
	Getwd      func() (string, error)
	Getenv     func(string) string
	LookPath   func(string) (string, error)
	NewRuntime func(ctx context.Context) (Runtime, error)

	// Manager overrides manager construction, mainly for tests.
	Manager func(cfg config.Config, rt session.Runtime, opts session.Options) Commands

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Commands is the session manager surface the CLI drives.
type Commands interface {
	Create(ctx context.Context, dir string, args []string) error
	Resume(ctx context.Context, dir, name string, args []string) error
	Cleanup(ctx context.Context, dir string) (session.CleanupResult, error)
	Bootstrap(ctx context.Context, dir string) error
	Status(ctx context.Context, dir string) ([]session.WorktreeReport, error)
	Clone(ctx context.Context, cwd, url, target string) error
}

func (d Deps) withDefaults() Deps {
	if d.Getwd == nil {
		d.Getwd = os.Getwd
	}
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	if d.LookPath == nil {
		d.LookPath = exec.LookPath
	}
	if d.NewRuntime == nil {
		d.NewRuntime = dockerRuntime
	}
	if d.Manager == nil {
		d.Manager = func(cfg config.Config, rt session.Runtime, opts session.Options) Commands {
			return session.New(cfg, rt, opts)
		}
	}
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	return d
}

// app carries the flag values and dependencies of one invocation.
type app struct {
	info BuildInfo
	deps Deps

	debug      bool
	configPath string
	publish    []string
	noCache    bool
	dryRun     bool
	assumeYes  bool
}

// NewRootCommand builds the vibe command tree.
func NewRootCommand(info BuildInfo, deps Deps) *cobra.Command {
	a := &app{info: info, deps: deps.withDefaults()}

	root := &cobra.Command{
		Use:   "vibe",
		Short: "Run the claude assistant in containerized git worktrees",
		Long: `vibe runs the claude coding assistant inside a container, one session per
git worktree. Each session gets its own branch (claude/<token>), worktree
next to the repository, and image built from Dockerfile.vibes.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w %q", ErrUnknownCommand, args[0])
			}
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDebug(a.debug)
			if a.debug {
				logger.Get().Debug("debug logging enabled")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &flagError{err}
	})
	root.SetIn(a.deps.Stdin)
	root.SetOut(a.deps.Stdout)
	root.SetErr(a.deps.Stderr)

	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $VIBE_CONFIG or ~/.config/vibe/config.yaml)")

	root.AddCommand(
		a.newCmd(),
		a.continueCmd(),
		a.cleanupCmd(),
		a.setupCmd(),
		a.statusCmd(),
		a.cloneCmd(),
		a.versionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
// A closed terminal or SIGTERM cancels the running command, which still
// collects and removes its container.
func Execute(info BuildInfo, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCommand(info, Deps{}), args)
}

func run(ctx context.Context, root *cobra.Command, args []string) int {
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	var exitErr *container.ExitError
	if errors.As(err, &exitErr) {
		logger.WithComponent("cli").Debug("assistant exited", "status", exitErr.Code)
		return int(exitErr.Code)
	}

	ui.Fail("%v", err)
	if usageError(err) {
		ui.BlankLine()
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	}
	return 1
}

// usageError reports errors caused by the command line itself rather than
// by running it.
func usageError(err error) bool {
	if errors.Is(err, ErrMissingArgument) || errors.Is(err, ErrUnknownCommand) {
		return true
	}
	// Flag parse errors from cobra carry no sentinel.
	var flagErr *flagError
	return errors.As(err, &flagErr)
}

type flagError struct{ err error }

func (e *flagError) Error() string { return e.err.Error() }
func (e *flagError) Unwrap() error { return e.err }

// dockerRuntime connects to the daemon named by the environment.
func dockerRuntime(ctx context.Context) (Runtime, error) {
	client, err := container.NewClient()
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// checkDependencies fails when a tool vibe shells out to is missing.
func (a *app) checkDependencies(tools ...string) error {
	var missing []string
	for _, tool := range tools {
		if _, err := a.deps.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	hint := "sudo apt-get install"
	if runtime.GOOS == "darwin" {
		hint = "brew install"
	}
	ui.DimMsg("Install with: %s %s", hint, strings.Join(missing, " "))
	return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, " "))
}

// runtimeNeed says whether a command talks to Docker.
type runtimeNeed int

const (
	noRuntime runtimeNeed = iota
	optionalRuntime
	requiredRuntime
)

// manager loads the configuration and returns a manager for it. The
// returned closer releases the runtime, if one was opened.
func (a *app) manager(ctx context.Context, need runtimeNeed) (Commands, func(), error) {
	if err := a.checkDependencies("git"); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(config.LoadOptions{Path: a.configPath, Getenv: a.deps.Getenv})
	if err != nil {
		return nil, nil, err
	}
	if cfg.Source != "" {
		logger.WithComponent("cli").Debug("loaded config", "path", cfg.Source)
	}

	var rt session.Runtime
	closer := func() {}
	if need != noRuntime {
		client, err := a.deps.NewRuntime(ctx)
		switch {
		case err == nil:
			rt = client
			closer = func() { _ = client.Close() }
		case need == requiredRuntime:
			return nil, nil, fmt.Errorf("failed to connect to Docker: %w", err)
		default:
			logger.WithComponent("cli").Warn("docker unavailable, images will be kept", "error", err)
		}
	}

	m := a.deps.Manager(cfg, rt, session.Options{
		Getenv:    a.deps.Getenv,
		Ports:     a.publish,
		NoCache:   a.noCache,
		DryRun:    a.dryRun,
		AssumeYes: a.assumeYes,
		Stdin:     a.deps.Stdin,
		Stdout:    a.deps.Stdout,
		Stderr:    a.deps.Stderr,
	})
	return m, closer, nil
}
