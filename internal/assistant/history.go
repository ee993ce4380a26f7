package assistant

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ProjectKey encodes an absolute path the way the assistant names its
// per-project directories under ~/.claude/projects.
func ProjectKey(p string) string {
	return nonAlphanumeric.ReplaceAllString(p, "-")
}

// HistoryDir returns the host directory holding a worktree's conversation
// history, creating it if needed. Sessions are stored in
// ~/.claude/projects/<encoded-path>/ to match the native project layout,
// so a worktree's history is shared with the assistant run outside vibe.
func HistoryDir(home, worktreePath string) (string, error) {
	dir := filepath.Join(home, configDir, "projects", ProjectKey(worktreePath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}
	return dir, nil
}

// ContainerHistoryPath returns where, relative to the container user's
// home, the assistant keeps history for workspace.
func ContainerHistoryPath(workspace string) string {
	return path.Join(configDir, "projects", ProjectKey(workspace))
}
