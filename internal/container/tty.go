package container

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/moby/term"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// resizeTTY matches the container TTY to the terminal behind out.
func (c *Client) resizeTTY(ctx context.Context, id string, out any) {
	fd, isTerm := term.GetFdInfo(out)
	if !isTerm {
		return
	}
	size, err := term.GetWinsize(fd)
	if err != nil || size.Height == 0 || size.Width == 0 {
		return
	}
	err = c.cli.ContainerResize(ctx, id, container.ResizeOptions{
		Height: uint(size.Height),
		Width:  uint(size.Width),
	})
	if err != nil {
		logger.WithComponent("docker").Debug("resize failed", "error", err)
	}
}
