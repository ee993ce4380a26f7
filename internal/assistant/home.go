package assistant

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ArtiomTr/claude-vibe/internal/container"
	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

const (
	configDir    = ".claude"
	configFile   = ".claude.json"
	settingsFile = ".claude/settings.json"
	projectsDir  = ".claude/projects"
)

// HomeOptions controls what StageHome produces.
type HomeOptions struct {
	// HostHome is the host user's home directory.
	HostHome string

	// Workspace is the container path the worktree is mounted at.
	Workspace string

	// Allow is the permission allow list written into settings.json.
	Allow []string

	// HistoryDir, when set, holds the worktree's conversation history and
	// replaces the host's own project history in the container.
	HistoryDir string
}

// StageHome returns the files to place in the container user's home.
// Missing host credentials are not an error; the assistant then starts
// unauthenticated.
func StageHome(opts HomeOptions) ([]container.File, error) {
	log := logger.WithComponent("assistant")
	var files []container.File

	if opts.HostHome != "" {
		staged, err := stageTree(filepath.Join(opts.HostHome, configDir), configDir)
		if err != nil {
			return nil, err
		}
		files = append(files, staged...)
	}
	if opts.HistoryDir != "" {
		staged, err := stageTree(opts.HistoryDir, ContainerHistoryPath(opts.Workspace))
		if err != nil {
			return nil, err
		}
		files = append(files, staged...)
	}

	claudeJSON, mode, err := readHostFile(opts.HostHome, configFile)
	if err != nil {
		return nil, err
	}
	if claudeJSON == nil {
		log.Debug("no host .claude.json")
	}
	trusted, err := TrustProject(NativeInstall(claudeJSON), opts.Workspace)
	if err != nil {
		// Keep the host file as is rather than dropping the credentials.
		log.Warn("could not mark workspace trusted", "file", configFile, "error", err)
		trusted = claudeJSON
	}
	files = append(files, container.File{Path: configFile, Mode: mode, Content: trusted})

	settings, err := Settings(opts.Workspace, opts.Allow)
	if err != nil {
		return nil, err
	}
	files = append(files, container.File{Path: settingsFile, Mode: 0o644, Content: settings})

	log.Debug("staged home files", "count", len(files))
	return files, nil
}

// stageTree walks dir and returns its directories and regular files under
// dest, a path relative to the home. Symlinks, sockets and unreadable
// entries are skipped, and so is the host's project history.
func stageTree(dir, dest string) ([]container.File, error) {
	log := logger.WithComponent("assistant")
	var files []container.File

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			log.Debug("skipping unreadable entry", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = path.Join(dest, filepath.ToSlash(rel))

		switch {
		case d.IsDir():
			if rel == projectsDir {
				return fs.SkipDir
			}
			files = append(files, container.File{Path: rel, Dir: true, Mode: 0o755})
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return nil
			}
			content, err := os.ReadFile(p)
			if err != nil {
				log.Debug("skipping unreadable file", "path", p, "error", err)
				return nil
			}
			if isTopLevelJSON(rel) {
				content = NativeInstall(content)
			}
			files = append(files, container.File{Path: rel, Mode: info.Mode().Perm(), Content: content})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	return files, nil
}

// isTopLevelJSON reports whether rel is a .json file directly in .claude.
func isTopLevelJSON(rel string) bool {
	return path.Dir(rel) == configDir && strings.HasSuffix(rel, ".json")
}

// readHostFile returns the content and mode of home/name, or nil content
// when it does not exist.
func readHostFile(home, name string) ([]byte, os.FileMode, error) {
	if home == "" {
		return nil, 0o600, nil
	}
	p := filepath.Join(home, name)
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0o600, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to stat %s: %w", p, err)
	}
	content, err := os.ReadFile(p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return content, info.Mode().Perm(), nil
}
