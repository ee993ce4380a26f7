package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vexec "github.com/ArtiomTr/claude-vibe/internal/exec"
)

var (
	// ErrNotRepository is returned when a directory is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrDetachedHead is returned when a worktree is not on a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)

// Service runs git commands through an injected executor.
type Service struct {
	executor vexec.CommandExecutor
}

// NewService returns a Service backed by the real git binary.
func NewService() *Service {
	return &Service{executor: vexec.NewRealExecutor()}
}

// NewServiceWithExecutor returns a Service using the given executor.
func NewServiceWithExecutor(executor vexec.CommandExecutor) *Service {
	return &Service{executor: executor}
}

// output runs git in dir and returns trimmed stdout.
func (s *Service) output(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := s.executor.Output(ctx, dir, "git", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// run runs git in dir, folding combined output into any error.
func (s *Service) run(ctx context.Context, dir string, args ...string) error {
	out, err := s.executor.CombinedOutput(ctx, dir, "git", args...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("git %s: %s: %w", args[0], msg, err)
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	return nil
}
