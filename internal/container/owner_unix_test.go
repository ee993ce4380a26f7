//go:build !windows

package container

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOwner(t *testing.T) {
	dir := t.TempDir()
	uid, gid, err := Owner(dir)
	if err != nil {
		t.Fatalf("Owner() error = %v", err)
	}
	if uid != os.Getuid() || gid != os.Getgid() {
		t.Errorf("Owner() = %d:%d, want %d:%d", uid, gid, os.Getuid(), os.Getgid())
	}

	if _, _, err := Owner(filepath.Join(dir, "missing")); err == nil {
		t.Error("Owner() expected error for missing path")
	}
}

func TestChownTreeToSelf(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "b.txt"), "x")

	if err := ChownTree(dir, os.Getuid(), os.Getgid()); err != nil {
		t.Fatalf("ChownTree() error = %v", err)
	}
	uid, _, err := Owner(filepath.Join(dir, "a", "b.txt"))
	if err != nil || uid != os.Getuid() {
		t.Errorf("Owner() = (%d, %v)", uid, err)
	}
}
