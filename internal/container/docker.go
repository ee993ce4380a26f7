package container

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// Client wraps the Docker client with our operations.
type Client struct {
	cli client.APIClient
}

// NewClient creates a Docker client from the environment (DOCKER_HOST etc.).
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &Client{cli: cli}, nil
}

// Ping checks that the daemon is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ping, err := c.cli.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker daemon is not reachable: %w", err)
	}
	logger.WithComponent("docker").Debug("daemon reachable", "api", ping.APIVersion, "os", ping.OSType)
	return nil
}

// Close closes the underlying Docker client.
func (c *Client) Close() error {
	return c.cli.Close()
}

// RemoveImage removes an image. A missing image is not an error.
func (c *Client) RemoveImage(ctx context.Context, tag string) error {
	logger.WithComponent("docker").Debug("removing image", "tag", tag)
	_, err := c.cli.ImageRemove(ctx, tag, image.RemoveOptions{Force: true, PruneChildren: true})
	if err != nil && !client.IsErrNotFound(err) {
		return err
	}
	return nil
}
