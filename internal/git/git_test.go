package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	vexec "github.com/ArtiomTr/claude-vibe/internal/exec"
)

var ctx = context.Background()

func ok(stdout string) vexec.MockResponse {
	return vexec.MockResponse{Stdout: []byte(stdout)}
}

func fail(stderr string) vexec.MockResponse {
	return vexec.MockResponse{Stderr: []byte(stderr), Err: errors.New("exit status 1")}
}

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /src/repo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /src/claude/a1b2c3d4
HEAD 2222222222222222222222222222222222222222
branch refs/heads/claude/a1b2c3d4

worktree /src/claude/detached
HEAD 3333333333333333333333333333333333333333
detached

worktree /src/bare/.bare
bare

worktree /src/claude/zzzz
HEAD 4444444444444444444444444444444444444444
branch refs/heads/claude/zzzz`

	got := ParseWorktreeList(output)
	want := []Worktree{
		{Path: "/src/repo", Head: "1111111111111111111111111111111111111111", Branch: "main"},
		{Path: "/src/claude/a1b2c3d4", Head: "2222222222222222222222222222222222222222", Branch: "claude/a1b2c3d4"},
		{Path: "/src/claude/detached", Head: "3333333333333333333333333333333333333333", Detached: true},
		{Path: "/src/bare/.bare", Bare: true},
		{Path: "/src/claude/zzzz", Head: "4444444444444444444444444444444444444444", Branch: "claude/zzzz"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseWorktreeList() =\n%+v\nwant\n%+v", got, want)
	}

	claude := FilterByBranchPrefix(got, "claude/")
	if len(claude) != 2 || claude[0].Branch != "claude/a1b2c3d4" || claude[1].Branch != "claude/zzzz" {
		t.Errorf("FilterByBranchPrefix() = %+v", claude)
	}
}

func TestParseWorktreeList_Empty(t *testing.T) {
	if got := ParseWorktreeList(""); len(got) != 0 {
		t.Errorf("ParseWorktreeList(\"\") = %+v", got)
	}
}

func TestCurrentBranch(t *testing.T) {
	tests := []struct {
		name    string
		resp    vexec.MockResponse
		want    string
		wantErr error
	}{
		{"on branch", ok("claude/abc\n"), "claude/abc", nil},
		{"detached", ok("HEAD\n"), "", ErrDetachedHead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := vexec.NewMockExecutor()
			mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, tt.resp)
			got, err := NewServiceWithExecutor(mock).CurrentBranch(ctx, "/wt")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CurrentBranch() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CurrentBranch() = %q, want %q", got, tt.want)
			}
		})
	}

	mock := vexec.NewMockExecutor()
	mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, fail("fatal: not a git repository"))
	if _, err := NewServiceWithExecutor(mock).CurrentBranch(ctx, "/nowhere"); err == nil || errors.Is(err, ErrDetachedHead) {
		t.Errorf("CurrentBranch() error = %v, want command failure", err)
	}
}

func TestRepoRoot(t *testing.T) {
	t.Run("work tree", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "--show-toplevel"}, ok("/src/repo\n"))
		root, err := NewServiceWithExecutor(mock).RepoRoot(ctx, "/src/repo/sub")
		if err != nil || root != "/src/repo" {
			t.Errorf("RepoRoot() = (%q, %v)", root, err)
		}
	})

	t.Run("bare layout", func(t *testing.T) {
		dir := t.TempDir()
		bare := filepath.Join(dir, ".bare")
		if err := os.Mkdir(bare, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: ./.bare\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "--show-toplevel"}, fail("fatal: this operation must be run in a work tree"))
		mock.AddExactMatch("git", []string{"rev-parse", "--absolute-git-dir"}, ok(bare+"\n"))
		root, err := NewServiceWithExecutor(mock).RepoRoot(ctx, dir)
		if err != nil || root != dir {
			t.Errorf("RepoRoot() = (%q, %v), want %q", root, err, dir)
		}
	})

	t.Run("plain bare repo", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "--show-toplevel"}, fail("fatal"))
		mock.AddExactMatch("git", []string{"rev-parse", "--absolute-git-dir"}, ok("/srv/repo.git\n"))
		if _, err := NewServiceWithExecutor(mock).RepoRoot(ctx, "/srv/repo.git"); !errors.Is(err, ErrNotRepository) {
			t.Errorf("RepoRoot() error = %v, want ErrNotRepository", err)
		}
	})

	t.Run("not a repository", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddPrefixMatch("git", []string{"rev-parse"}, fail("fatal: not a git repository"))
		if _, err := NewServiceWithExecutor(mock).RepoRoot(ctx, "/tmp"); !errors.Is(err, ErrNotRepository) {
			t.Errorf("RepoRoot() error = %v, want ErrNotRepository", err)
		}
	})
}

func TestCreateWorktree(t *testing.T) {
	mock := vexec.NewMockExecutor()
	svc := NewServiceWithExecutor(mock)

	path := filepath.Join(t.TempDir(), "claude", "a1b2c3d4")
	got, err := svc.CreateWorktree(ctx, "/src/repo", path, "claude/a1b2c3d4")
	if err != nil {
		t.Fatalf("CreateWorktree() error = %v", err)
	}
	if got != path {
		t.Errorf("CreateWorktree() = %q, want %q", got, path)
	}

	calls := mock.GetCalls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	want := "git worktree add " + path + " -b claude/a1b2c3d4"
	if calls[0].String() != want || calls[0].Dir != "/src/repo" {
		t.Errorf("call = %q in %q, want %q in /src/repo", calls[0].String(), calls[0].Dir, want)
	}
}

func TestCreateWorktree_Failure(t *testing.T) {
	mock := vexec.NewMockExecutor()
	mock.AddPrefixMatch("git", []string{"worktree", "add"}, fail("fatal: a branch named 'claude/x' already exists"))

	_, err := NewServiceWithExecutor(mock).CreateWorktree(ctx, "/src/repo", "/src/claude/x", "claude/x")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("CreateWorktree() error = %v, want git output included", err)
	}
}

func TestRemoveWorktreeAndBranch(t *testing.T) {
	mock := vexec.NewMockExecutor()
	svc := NewServiceWithExecutor(mock)

	if err := svc.RemoveWorktree(ctx, "/src/repo", "/src/claude/abc"); err != nil {
		t.Fatalf("RemoveWorktree() error = %v", err)
	}
	if err := svc.DeleteBranch(ctx, "/src/repo", "claude/abc"); err != nil {
		t.Fatalf("DeleteBranch() error = %v", err)
	}

	if !mock.Called("git worktree remove --force /src/claude/abc") {
		t.Error("worktree not force-removed")
	}
	if !mock.Called("git branch -D claude/abc") {
		t.Error("branch not force-deleted")
	}
}

func syncMock(local, remote string) *vexec.MockExecutor {
	mock := vexec.NewMockExecutor()
	mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, ok("claude/abc\n"))
	mock.AddExactMatch("git", []string{"ls-remote", "--exit-code", "--heads", "origin", "claude/abc"}, ok("deadbeef\trefs/heads/claude/abc\n"))
	mock.AddExactMatch("git", []string{"rev-parse", "HEAD"}, ok(local+"\n"))
	mock.AddExactMatch("git", []string{"rev-parse", "origin/claude/abc"}, ok(remote+"\n"))
	return mock
}

func TestCheckSync(t *testing.T) {
	t.Run("equal hashes", func(t *testing.T) {
		mock := syncMock("aaa", "aaa")
		got := NewServiceWithExecutor(mock).CheckSync(ctx, "/src/claude/abc", "origin")
		if !got.Synced {
			t.Errorf("CheckSync() = %+v, want synced", got)
		}
		if !mock.Called("git fetch origin claude/abc") {
			t.Error("branch was not fetched before comparing")
		}
	})

	t.Run("differing hashes", func(t *testing.T) {
		got := NewServiceWithExecutor(syncMock("aaa", "bbb")).CheckSync(ctx, "/src/claude/abc", "origin")
		if got.Synced || !strings.Contains(got.Reason, "differ") {
			t.Errorf("CheckSync() = %+v, want not synced (differ)", got)
		}
		if got.Local != "aaa" || got.Remote != "bbb" {
			t.Errorf("hashes = %q/%q", got.Local, got.Remote)
		}
	})

	t.Run("no remote branch", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, ok("claude/abc\n"))
		mock.AddPrefixMatch("git", []string{"ls-remote"}, vexec.MockResponse{Err: errors.New("exit status 2")})
		got := NewServiceWithExecutor(mock).CheckSync(ctx, "/src/claude/abc", "origin")
		if got.Synced || got.Reason != "branch not on origin" {
			t.Errorf("CheckSync() = %+v", got)
		}
		if mock.Called("git fetch") {
			t.Error("fetch should not run when the remote branch is absent")
		}
	})

	t.Run("detached", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, ok("HEAD\n"))
		got := NewServiceWithExecutor(mock).CheckSync(ctx, "/src/claude/abc", "origin")
		if got.Synced || got.Reason != "detached HEAD" {
			t.Errorf("CheckSync() = %+v", got)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddPrefixMatch("git", []string{"fetch"}, fail("fatal: unable to access"))
		mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, ok("claude/abc\n"))
		got := NewServiceWithExecutor(mock).CheckSync(ctx, "/src/claude/abc", "origin")
		if got.Synced || got.Reason != "fetch failed" {
			t.Errorf("CheckSync() = %+v", got)
		}
	})

	t.Run("remote ref unresolvable", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "origin/claude/abc"}, fail("unknown revision"))
		mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, ok("claude/abc\n"))
		mock.AddExactMatch("git", []string{"rev-parse", "HEAD"}, ok("aaa\n"))
		got := NewServiceWithExecutor(mock).CheckSync(ctx, "/src/claude/abc", "origin")
		if got.Synced || !strings.HasPrefix(got.Reason, "cannot resolve origin/") {
			t.Errorf("CheckSync() = %+v", got)
		}
	})
}

func TestDefaultBranch(t *testing.T) {
	tests := []struct {
		name string
		resp vexec.MockResponse
		want string
	}{
		{"develop", ok("* remote origin\n  Fetch URL: x\n  HEAD branch: develop\n"), "develop"},
		{"missing line", ok("* remote origin\n"), "main"},
		{"unknown", ok("  HEAD branch: (unknown)\n"), "main"},
		{"command fails", fail("fatal: no such remote"), "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := vexec.NewMockExecutor()
			mock.AddExactMatch("git", []string{"remote", "show", "origin"}, tt.resp)
			if got := NewServiceWithExecutor(mock).DefaultBranch(ctx, "/src/repo", "origin"); got != tt.want {
				t.Errorf("DefaultBranch() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFastForward(t *testing.T) {
	t.Run("branch checked out", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "--is-inside-work-tree"}, ok("true\n"))
		mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, ok("main\n"))
		if err := NewServiceWithExecutor(mock).FastForward(ctx, "/src/repo", "origin", "main"); err != nil {
			t.Fatalf("FastForward() error = %v", err)
		}
		if !mock.Called("git fetch origin main") || !mock.Called("git merge --ff-only origin/main") {
			t.Errorf("calls = %v", mock.GetCalls())
		}
	})

	t.Run("bare layout", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "--is-inside-work-tree"}, ok("false\n"))
		if err := NewServiceWithExecutor(mock).FastForward(ctx, "/src/repo", "origin", "main"); err != nil {
			t.Fatalf("FastForward() error = %v", err)
		}
		if !mock.Called("git fetch origin main:main") {
			t.Errorf("calls = %v", mock.GetCalls())
		}
		if mock.Called("git merge") {
			t.Error("merge must not run outside a work tree")
		}
	})

	t.Run("non fast-forward refused", func(t *testing.T) {
		mock := vexec.NewMockExecutor()
		mock.AddExactMatch("git", []string{"rev-parse", "--is-inside-work-tree"}, ok("true\n"))
		mock.AddExactMatch("git", []string{"rev-parse", "--abbrev-ref", "HEAD"}, ok("feature\n"))
		mock.AddExactMatch("git", []string{"fetch", "origin", "main:main"}, fail("! [rejected] main -> main (non-fast-forward)"))
		err := NewServiceWithExecutor(mock).FastForward(ctx, "/src/repo", "origin", "main")
		if err == nil || !strings.Contains(err.Error(), "non-fast-forward") {
			t.Errorf("FastForward() error = %v", err)
		}
	})
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	mock := vexec.NewMockExecutor()
	mock.AddExactMatch("git", []string{"status", "--porcelain"}, ok(" M a.go\nM  b.go\nMM c.go\n?? new.txt\n?? other/\n"))
	mock.AddExactMatch("git", []string{"rev-list", "--count", "HEAD", "--not", "--remotes=origin"}, ok("3\n"))

	got, err := NewServiceWithExecutor(mock).Status(ctx, dir, "origin")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	want := WorktreeStatus{Modified: 3, Untracked: 2, Unpushed: 3}
	if got != want {
		t.Errorf("Status() = %+v, want %+v", got, want)
	}
	if !got.HasUncommitted() || !got.HasUnpushed() || got.Clean() {
		t.Errorf("predicates wrong for %+v", got)
	}
}

func TestStatus_Orphaned(t *testing.T) {
	mock := vexec.NewMockExecutor()
	got, err := NewServiceWithExecutor(mock).Status(ctx, filepath.Join(t.TempDir(), "gone"), "origin")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !got.Orphaned || got.Clean() {
		t.Errorf("Status() = %+v, want orphaned", got)
	}
	if len(mock.GetCalls()) != 0 {
		t.Error("git should not run for a missing directory")
	}
}

func TestLastCommitTime(t *testing.T) {
	mock := vexec.NewMockExecutor()
	mock.AddExactMatch("git", []string{"log", "-1", "--format=%ct"}, ok("1700000000\n"))

	got, err := NewServiceWithExecutor(mock).LastCommitTime(ctx, "/wt")
	if err != nil {
		t.Fatalf("LastCommitTime() error = %v", err)
	}
	if got.Unix() != 1700000000 {
		t.Errorf("LastCommitTime() = %v", got)
	}

	mock = vexec.NewMockExecutor()
	mock.AddExactMatch("git", []string{"log", "-1", "--format=%ct"}, ok("not a number"))
	if _, err := NewServiceWithExecutor(mock).LastCommitTime(ctx, "/wt"); err == nil {
		t.Error("LastCommitTime() expected error for bad output")
	}
}

func TestRepoNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/user/repo.git", "repo"},
		{"https://github.com/user/repo", "repo"},
		{"https://github.com/user/repo/", "repo"},
		{"git@github.com:user/repo.git", "repo"},
		{"git@host:repo.git", "repo"},
		{"/path/to/repo.git", "repo"},
		{"repo", "repo"},
	}

	for _, tt := range tests {
		if got := RepoNameFromURL(tt.url); got != tt.want {
			t.Errorf("RepoNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCloneBare(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	mock := vexec.NewMockExecutor()
	mock.AddPrefixMatch("git", []string{"clone"}, vexec.MockResponse{Stderr: []byte("Cloning into bare repository...\n")})

	var progress bytes.Buffer
	if err := NewServiceWithExecutor(mock).CloneBare(ctx, "https://example.com/proj.git", dir, &progress); err != nil {
		t.Fatalf("CloneBare() error = %v", err)
	}
	if !strings.Contains(progress.String(), "Cloning into bare repository") {
		t.Errorf("clone progress not forwarded: %q", progress.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, ".git"))
	if err != nil || string(data) != "gitdir: ./.bare\n" {
		t.Errorf(".git = (%q, %v)", data, err)
	}
	for _, want := range []string{
		"git clone --bare https://example.com/proj.git " + filepath.Join(dir, ".bare"),
		"git config remote.origin.fetch +refs/heads/*:refs/remotes/origin/*",
		"git fetch origin",
	} {
		if !mock.Called(want) {
			t.Errorf("missing call %q in %v", want, mock.GetCalls())
		}
	}
}

func TestCloneBare_Failures(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		dir := t.TempDir()
		err := NewServiceWithExecutor(vexec.NewMockExecutor()).CloneBare(ctx, "https://example.com/x.git", dir, nil)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("CloneBare() error = %v", err)
		}
	})

	tests := []struct {
		name string
		args []string
	}{
		{"clone fails", []string{"clone"}},
		{"fetch refspec fails", []string{"config", "remote.origin.fetch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "proj")
			mock := vexec.NewMockExecutor()
			mock.AddPrefixMatch("git", tt.args, fail("fatal: "+tt.name))
			var progress bytes.Buffer
			if err := NewServiceWithExecutor(mock).CloneBare(ctx, "https://example.com/x.git", dir, &progress); err == nil {
				t.Fatal("CloneBare() expected error")
			}
			if _, err := os.Stat(dir); !os.IsNotExist(err) {
				t.Error("partial clone directory was not removed")
			}
		})
	}

	t.Run(".git write fails", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "proj")
		mock := vexec.NewMockExecutor()
		// A directory in place of the .git file makes the write fail.
		svc := NewServiceWithExecutor(&mkdirOnClone{MockExecutor: mock, path: filepath.Join(dir, ".git")})
		if err := svc.CloneBare(ctx, "https://example.com/x.git", dir, nil); err == nil {
			t.Fatal("CloneBare() expected error")
		}
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Error("partial clone directory was not removed")
		}
	})
}

// mkdirOnClone creates path when the clone runs, standing in for a clone
// that leaves a directory where the .git file belongs.
type mkdirOnClone struct {
	*vexec.MockExecutor
	path string
}

func (m *mkdirOnClone) Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	if err := os.MkdirAll(m.path, 0o755); err != nil {
		return err
	}
	return m.MockExecutor.Stream(ctx, dir, stdout, stderr, name, args...)
}

func TestGitDirAndCommonGitDir(t *testing.T) {
	root := t.TempDir()

	// Main repository.
	repo := filepath.Join(root, "repo")
	mustMkdir(t, filepath.Join(repo, ".git", "worktrees", "abc"))
	if got, err := GitDir(repo); err != nil || got != filepath.Join(repo, ".git") {
		t.Errorf("GitDir(repo) = (%q, %v)", got, err)
	}
	if got, err := CommonGitDir(repo); err != nil || got != filepath.Join(repo, ".git") {
		t.Errorf("CommonGitDir(repo) = (%q, %v)", got, err)
	}

	// Linked worktree with commondir.
	wt := filepath.Join(root, "claude", "abc")
	mustMkdir(t, wt)
	linked := filepath.Join(repo, ".git", "worktrees", "abc")
	mustWrite(t, filepath.Join(wt, ".git"), "gitdir: "+linked+"\n")
	mustWrite(t, filepath.Join(linked, "commondir"), "../..\n")
	if got, err := GitDir(wt); err != nil || got != linked {
		t.Errorf("GitDir(wt) = (%q, %v), want %q", got, err, linked)
	}
	if got, err := CommonGitDir(wt); err != nil || got != filepath.Join(repo, ".git") {
		t.Errorf("CommonGitDir(wt) = (%q, %v)", got, err)
	}

	// Relative gitdir without commondir falls back to the worktrees parent.
	wt2 := filepath.Join(root, "claude", "def")
	mustMkdir(t, wt2)
	mustMkdir(t, filepath.Join(repo, ".git", "worktrees", "def"))
	mustWrite(t, filepath.Join(wt2, ".git"), "gitdir: ../../repo/.git/worktrees/def\n")
	if got, err := CommonGitDir(wt2); err != nil || got != filepath.Join(repo, ".git") {
		t.Errorf("CommonGitDir(wt2) = (%q, %v)", got, err)
	}

	// Malformed pointer file.
	bad := filepath.Join(root, "bad")
	mustMkdir(t, bad)
	mustWrite(t, filepath.Join(bad, ".git"), "nonsense\n")
	if _, err := GitDir(bad); err == nil {
		t.Error("GitDir() expected error for malformed .git file")
	}
}

func TestExtractUserConfig(t *testing.T) {
	home := t.TempDir()
	mustWrite(t, filepath.Join(home, ".gitconfig"), `[core]
	name = not-a-user
[user]
	name = Jane Doe
[include]
	path = ~/.gitconfig.local
[includeIf "gitdir:~/work/"]
	path = work.inc
`)
	mustWrite(t, filepath.Join(home, ".gitconfig.local"), "[user]\n\temail = \"jane@example.com\"\n\tname = Ignored\n")
	mustWrite(t, filepath.Join(home, "work.inc"), "[user]\n\temail = jane@work.example\n")

	got, err := ExtractUserConfig(home)
	if err != nil {
		t.Fatalf("ExtractUserConfig() error = %v", err)
	}
	want := UserConfig{Name: "Jane Doe", Email: "jane@example.com"}
	if got != want {
		t.Errorf("ExtractUserConfig() = %+v, want %+v", got, want)
	}

	env := got.Env()
	wantEnv := []string{
		"GIT_AUTHOR_NAME=Jane Doe", "GIT_COMMITTER_NAME=Jane Doe",
		"GIT_AUTHOR_EMAIL=jane@example.com", "GIT_COMMITTER_EMAIL=jane@example.com",
	}
	if !reflect.DeepEqual(env, wantEnv) {
		t.Errorf("Env() = %v", env)
	}
}

func TestExtractUserConfig_Missing(t *testing.T) {
	got, err := ExtractUserConfig(t.TempDir())
	if err != nil || got != (UserConfig{}) {
		t.Errorf("ExtractUserConfig() = (%+v, %v)", got, err)
	}
	if len(got.Env()) != 0 {
		t.Error("empty identity should produce no env")
	}
}

func TestExtractUserConfig_IncludeCycle(t *testing.T) {
	home := t.TempDir()
	mustWrite(t, filepath.Join(home, ".gitconfig"), "[include]\n\tpath = a.inc\n")
	mustWrite(t, filepath.Join(home, "a.inc"), "[include]\n\tpath = .gitconfig\n[user]\n\tname = Loop\n")

	got, err := ExtractUserConfig(home)
	if err != nil || got.Name != "Loop" {
		t.Errorf("ExtractUserConfig() = (%+v, %v)", got, err)
	}
}

// Integration tests against a real git binary.

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func createTestRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)

	parent, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(parent, "repo")
	mustMkdir(t, dir)
	runGit(t, dir, "init", "-b", "main")
	mustWrite(t, filepath.Join(dir, "README.md"), "hello\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial")
	return dir
}

func TestIntegration_WorktreeLifecycle(t *testing.T) {
	repo := createTestRepo(t)
	svc := NewService()

	root, err := svc.RepoRoot(ctx, repo)
	if err != nil || root != repo {
		t.Fatalf("RepoRoot() = (%q, %v), want %q", root, err, repo)
	}

	path := filepath.Join(filepath.Dir(root), "claude", "abcd1234")
	got, err := svc.CreateWorktree(ctx, root, path, "claude/abcd1234")
	if err != nil {
		t.Fatalf("CreateWorktree() error = %v", err)
	}
	if got != path {
		t.Errorf("CreateWorktree() = %q, want %q", got, path)
	}

	wts, err := svc.ListWorktrees(ctx, root)
	if err != nil {
		t.Fatalf("ListWorktrees() error = %v", err)
	}
	claude := FilterByBranchPrefix(wts, "claude/")
	if len(claude) != 1 || claude[0].Path != path {
		t.Fatalf("claude worktrees = %+v", claude)
	}

	if branch, err := svc.CurrentBranch(ctx, path); err != nil || branch != "claude/abcd1234" {
		t.Errorf("CurrentBranch() = (%q, %v)", branch, err)
	}

	common, err := CommonGitDir(path)
	if err != nil || common != filepath.Join(repo, ".git") {
		t.Errorf("CommonGitDir() = (%q, %v)", common, err)
	}

	// No remote: never synced.
	if sync := svc.CheckSync(ctx, path, "origin"); sync.Synced {
		t.Errorf("CheckSync() = %+v, want not synced without a remote", sync)
	}

	mustWrite(t, filepath.Join(path, "new.txt"), "x\n")
	status, err := svc.Status(ctx, path, "origin")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Untracked != 1 || status.Unpushed != 1 {
		t.Errorf("Status() = %+v, want 1 untracked and 1 unpushed", status)
	}

	if err := svc.RemoveWorktree(ctx, root, path); err != nil {
		t.Fatalf("RemoveWorktree() error = %v", err)
	}
	if err := svc.DeleteBranch(ctx, root, "claude/abcd1234"); err != nil {
		t.Fatalf("DeleteBranch() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("worktree directory still exists")
	}
}

func TestIntegration_SyncedWithRemote(t *testing.T) {
	repo := createTestRepo(t)
	remote := filepath.Join(filepath.Dir(repo), "remote.git")
	runGit(t, filepath.Dir(repo), "init", "--bare", remote)
	runGit(t, repo, "remote", "add", "origin", remote)
	runGit(t, repo, "push", "origin", "main")

	svc := NewService()
	path := filepath.Join(filepath.Dir(repo), "claude", "sync")
	if _, err := svc.CreateWorktree(ctx, repo, path, "claude/sync"); err != nil {
		t.Fatalf("CreateWorktree() error = %v", err)
	}

	if sync := svc.CheckSync(ctx, path, "origin"); sync.Synced {
		t.Fatalf("unpushed branch reported synced: %+v", sync)
	}

	runGit(t, path, "push", "origin", "claude/sync")
	if sync := svc.CheckSync(ctx, path, "origin"); !sync.Synced {
		t.Fatalf("pushed branch not synced: %+v", sync)
	}

	mustWrite(t, filepath.Join(path, "more.txt"), "y\n")
	runGit(t, path, "add", ".")
	runGit(t, path, "commit", "-m", "more")
	if sync := svc.CheckSync(ctx, path, "origin"); sync.Synced {
		t.Fatalf("branch ahead of remote reported synced: %+v", sync)
	}

	if got := svc.DefaultBranch(ctx, repo, "origin"); got != "main" {
		t.Errorf("DefaultBranch() = %q, want main", got)
	}
}

func TestIntegration_NotARepository(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	if _, err := NewService().RepoRoot(ctx, dir); !errors.Is(err, ErrNotRepository) {
		t.Errorf("RepoRoot() error = %v, want ErrNotRepository", err)
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
