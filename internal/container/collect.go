package container

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/docker/docker/client"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// Collect copies a directory from the user's home back to the host once
// the container process has exited.
type Collect struct {
	HomePath string // relative to the home directory, slash separated
	HostDir  string
}

// collect runs every item of items against the stopped container. Failures
// are logged; the launch result does not depend on them.
func (c *Client) collect(id string, user User, items []Collect) {
	log := logger.WithComponent("docker")
	for _, item := range items {
		src := path.Join(user.Home, item.HomePath)
		rc, _, err := c.cli.CopyFromContainer(context.Background(), id, src)
		if err != nil {
			if client.IsErrNotFound(err) {
				log.Debug("nothing to collect", "path", src)
			} else {
				log.Warn("failed to collect", "path", src, "error", err)
			}
			continue
		}
		n, err := extractDir(rc, item.HostDir)
		_ = rc.Close()
		if err != nil {
			log.Warn("failed to collect", "path", src, "dest", item.HostDir, "error", err)
			continue
		}
		log.Debug("collected", "path", src, "dest", item.HostDir, "files", n)
	}
}

// extractDir writes the directories and regular files of a directory
// archive into dest, dropping the archive's top-level name. It returns
// the number of files written.
func extractDir(r io.Reader, dest string) (int, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, err
	}

	written := 0
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}

		_, rel, _ := strings.Cut(strings.TrimPrefix(hdr.Name, "./"), "/")
		rel = path.Clean(rel)
		if rel == "." || rel == "" {
			continue
		}
		if path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
			return written, fmt.Errorf("archive entry %q escapes destination", hdr.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return written, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return written, err
			}
			if err := writeRegular(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return written, err
			}
			written++
		}
	}
}

func writeRegular(target string, r io.Reader, mode os.FileMode) error {
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
