package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ArtiomTr/claude-vibe/internal/ui"
)

func (a *app) newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [-- assistant-args...]",
		Short: "Start a session in a new worktree",
		Long: `Creates a worktree on a new claude/<token> branch next to the repository,
builds its image and starts the assistant inside it. Arguments after --
are passed to the assistant.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.deps.Getwd()
			if err != nil {
				return err
			}
			m, done, err := a.manager(cmd.Context(), requiredRuntime)
			if err != nil {
				return err
			}
			defer done()

			ui.Header()
			return m.Create(cmd.Context(), dir, args)
		},
	}
	a.sessionFlags(cmd)
	return cmd
}

func (a *app) continueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "continue <worktree-name> [-- assistant-args...]",
		Aliases: []string{"resume"},
		Short:   "Resume the session in an existing worktree",
		Long: `Finds the session worktree matching the name (its branch, token or
directory, then any substring of them), rebuilds its image and starts the
assistant again.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: continue requires a worktree name", ErrMissingArgument)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.deps.Getwd()
			if err != nil {
				return err
			}
			m, done, err := a.manager(cmd.Context(), requiredRuntime)
			if err != nil {
				return err
			}
			defer done()

			ui.Header()
			return m.Resume(cmd.Context(), dir, args[0], args[1:])
		},
	}
	a.sessionFlags(cmd)
	return cmd
}

func (a *app) cleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove session worktrees that are synced with the remote",
		Long: `Removes every claude/* worktree whose branch exists on the remote at the
same commit, then deletes its branch and image. Worktrees with unpushed
work are kept and listed with the reason.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.deps.Getwd()
			if err != nil {
				return err
			}
			m, done, err := a.manager(cmd.Context(), optionalRuntime)
			if err != nil {
				return err
			}
			defer done()

			ui.Header()
			_, err = m.Cleanup(cmd.Context(), dir)
			ui.Footer()
			return err
		},
	}
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Report what would be removed without removing it")
	return cmd
}

func (a *app) setupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Generate a Dockerfile.vibes for this project",
		Long: `Updates the main branch, then runs the assistant once in the repository
root and asks it to write a Dockerfile.vibes suited to the project.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.deps.Getwd()
			if err != nil {
				return err
			}
			m, done, err := a.manager(cmd.Context(), requiredRuntime)
			if err != nil {
				return err
			}
			defer done()

			ui.Header()
			return m.Bootstrap(cmd.Context(), dir)
		},
	}
	a.setupFlags(cmd)
	return cmd
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show uncommitted and unpushed work in each session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.deps.Getwd()
			if err != nil {
				return err
			}
			m, done, err := a.manager(cmd.Context(), noRuntime)
			if err != nil {
				return err
			}
			defer done()

			ui.Header()
			_, err = m.Status(cmd.Context(), dir)
			ui.Footer()
			return err
		},
	}
}

func (a *app) cloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone <url> [dir]",
		Short: "Clone a repository for vibe sessions and run setup",
		Long: `Clones the repository bare into <dir>/.bare with a .git pointer beside it,
so session worktrees can live next to it, then runs setup there.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: clone requires a repository url", ErrMissingArgument)
			}
			return cobra.MaximumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := a.deps.Getwd()
			if err != nil {
				return err
			}
			m, done, err := a.manager(cmd.Context(), requiredRuntime)
			if err != nil {
				return err
			}
			defer done()

			target := ""
			if len(args) == 2 {
				target = args[1]
			}
			ui.Header()
			return m.Clone(cmd.Context(), cwd, args[0], target)
		},
	}
	a.setupFlags(cmd)
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vibe %s\n", a.info.Version)
			if a.info.Commit != "" && a.info.Commit != "none" {
				fmt.Fprintf(out, "  commit: %s\n  built:  %s\n", a.info.Commit, a.info.Date)
			}
		},
	}
}

// sessionFlags are shared by the commands that launch an interactive session.
func (a *app) sessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&a.publish, "publish", "p", nil, "Publish a container port (host:container), repeatable")
	cmd.Flags().BoolVar(&a.noCache, "no-cache", false, "Build the image without the layer cache")
}

func (a *app) setupFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.noCache, "no-cache", false, "Build the image without the layer cache")
	cmd.Flags().BoolVarP(&a.assumeYes, "yes", "y", false, "Replace an existing Dockerfile.vibes without asking")
}
