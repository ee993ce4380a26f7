// Package exec abstracts external command execution so git calls can be
// replayed from recorded responses in tests.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// CommandExecutor runs external commands in a working directory.
type CommandExecutor interface {
	// Run executes a command and returns stdout, stderr, and any error.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)

	// Output returns stdout. A failing command's stderr is folded into the error.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// CombinedOutput returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// Stream runs a command with its output copied to the given writers.
	Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error
}

// RealExecutor runs commands with os/exec.
type RealExecutor struct{}

// NewRealExecutor returns a RealExecutor.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

func (e *RealExecutor) command(ctx context.Context, dir, name string, args []string) *exec.Cmd {
	logger.WithComponent("exec").Debug("run", "dir", dir, "cmd", name+" "+strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd
}

func (e *RealExecutor) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := e.command(ctx, dir, name, args)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func (e *RealExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	stdout, stderr, err := e.Run(ctx, dir, name, args...)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return stdout, fmt.Errorf("%w: %s", err, msg)
		}
		return stdout, err
	}
	return stdout, nil
}

func (e *RealExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return e.command(ctx, dir, name, args).CombinedOutput()
}

func (e *RealExecutor) Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := e.command(ctx, dir, name, args)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// MockResponse is the canned result of a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// CommandMatcher decides whether a rule applies to a command.
type CommandMatcher func(dir, name string, args []string) bool

// MockCall records one command invocation.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as a command line, e.g. "git worktree list --porcelain".
func (c MockCall) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

type mockRule struct {
	match    CommandMatcher
	response MockResponse
}

// MockExecutor answers commands from registered rules, first match wins.
// Unmatched commands succeed with empty output.
type MockExecutor struct {
	mu    sync.Mutex
	rules []mockRule
	calls []MockCall
}

// NewMockExecutor returns an empty MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// AddRule registers a response for commands accepted by match.
func (m *MockExecutor) AddRule(match CommandMatcher, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{match: match, response: resp})
}

// AddExactMatch registers a response for exactly name + args.
func (m *MockExecutor) AddExactMatch(name string, args []string, resp MockResponse) {
	m.AddRule(func(_, n string, a []string) bool {
		return n == name && equalArgs(a, args)
	}, resp)
}

// AddPrefixMatch registers a response for commands whose args start with prefix.
func (m *MockExecutor) AddPrefixMatch(name string, prefix []string, resp MockResponse) {
	m.AddRule(func(_, n string, a []string) bool {
		return n == name && len(a) >= len(prefix) && equalArgs(a[:len(prefix)], prefix)
	}, resp)
}

// AddDirMatch registers a response for exactly name + args run inside dir.
func (m *MockExecutor) AddDirMatch(dir, name string, args []string, resp MockResponse) {
	m.AddRule(func(d, n string, a []string) bool {
		return d == dir && n == name && equalArgs(a, args)
	}, resp)
}

// GetCalls returns a copy of the recorded invocations.
func (m *MockExecutor) GetCalls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Called reports whether a command line starting with prefix was run.
func (m *MockExecutor) Called(prefix string) bool {
	for _, c := range m.GetCalls() {
		if strings.HasPrefix(c.String(), prefix) {
			return true
		}
	}
	return false
}

func (m *MockExecutor) respond(dir, name string, args []string) MockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Dir: dir, Name: name, Args: append([]string(nil), args...)})
	for _, r := range m.rules {
		if r.match(dir, name, args) {
			return r.response
		}
	}
	return MockResponse{}
}

func (m *MockExecutor) Run(_ context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	r := m.respond(dir, name, args)
	return r.Stdout, r.Stderr, r.Err
}

func (m *MockExecutor) Output(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	r := m.respond(dir, name, args)
	return r.Stdout, r.Err
}

func (m *MockExecutor) CombinedOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	r := m.respond(dir, name, args)
	out := append(append([]byte(nil), r.Stdout...), r.Stderr...)
	return out, r.Err
}

func (m *MockExecutor) Stream(_ context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	r := m.respond(dir, name, args)
	if stdout != nil {
		_, _ = stdout.Write(r.Stdout)
	}
	if stderr != nil {
		_, _ = stderr.Write(r.Stderr)
	}
	return r.Err
}

func equalArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	_ CommandExecutor = (*RealExecutor)(nil)
	_ CommandExecutor = (*MockExecutor)(nil)
)
