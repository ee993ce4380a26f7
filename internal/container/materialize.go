package container

import (
	"archive/tar"
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// materialize prepares a created, not yet started, container for entry:
// the user account exists and its home holds entry.Files. It returns the
// account actually used, which may be a pre-existing one.
func (c *Client) materialize(ctx context.Context, id string, entry Entry) (User, error) {
	log := logger.WithComponent("docker")

	passwd, err := c.readFile(ctx, id, "/etc/passwd")
	if err != nil {
		return User{}, fmt.Errorf("failed to read /etc/passwd: %w", err)
	}
	user, updated, changed := ensurePasswdEntry(passwd, entry.User)
	if changed {
		log.Debug("adding user to image", "name", user.Name, "uid", user.UID, "home", user.Home)
		if err := c.writeFile(ctx, id, "/etc/passwd", updated, 0o644); err != nil {
			return User{}, fmt.Errorf("failed to write /etc/passwd: %w", err)
		}
	}

	group, err := c.readFile(ctx, id, "/etc/group")
	if err != nil {
		return User{}, fmt.Errorf("failed to read /etc/group: %w", err)
	}
	if updated, changed := ensureGroupEntry(group, user.Name, user.GID); changed {
		if err := c.writeFile(ctx, id, "/etc/group", updated, 0o644); err != nil {
			return User{}, fmt.Errorf("failed to write /etc/group: %w", err)
		}
	}

	archive, err := homeArchive(user, entry.Files)
	if err != nil {
		return User{}, err
	}
	if err := c.cli.CopyToContainer(ctx, id, "/", archive, types.CopyToContainerOptions{}); err != nil {
		return User{}, fmt.Errorf("failed to populate %s: %w", user.Home, err)
	}
	log.Debug("populated home", "home", user.Home, "files", len(entry.Files))

	return user, nil
}

// readFile returns the content of a regular file in the container.
func (c *Client) readFile(ctx context.Context, id, path string) ([]byte, error) {
	rc, _, err := c.cli.CopyFromContainer(ctx, id, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return firstRegularFile(rc)
}

func firstRegularFile(r io.Reader) ([]byte, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("archive holds no regular file")
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg {
			return io.ReadAll(tr)
		}
	}
}

func (c *Client) writeFile(ctx context.Context, id, path string, content []byte, mode int64) error {
	archive, err := singleFileArchive(path, content, mode)
	if err != nil {
		return err
	}
	return c.cli.CopyToContainer(ctx, id, "/", archive, types.CopyToContainerOptions{})
}
