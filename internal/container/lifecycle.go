package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/moby/term"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// RunConfig holds the configuration for running a container.
type RunConfig struct {
	Name        string
	Image       string
	WorkDir     string
	Env         []string
	Mounts      []VolumeMount
	Ports       []string
	Labels      map[string]string
	Interactive bool // attach stdin
	TTY         bool
	AutoRemove  bool

	// Collect is copied back to the host after exit, before removal.
	Collect []Collect

	// Streams default to the process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ErrContainerRunning is returned when a launch's container name is held
// by a container that is still running.
var ErrContainerRunning = errors.New("container is already running")

// ExitError reports a container process that exited non-zero.
type ExitError struct {
	Code int64
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("container exited with status %d", e.Code)
}

// Launch creates a container for cfg, materializes entry into it, runs it
// attached to the configured streams, and blocks until it exits.
func (c *Client) Launch(ctx context.Context, cfg RunConfig, entry Entry) error {
	log := logger.WithComponent("docker")
	stdin, stdout, stderr := streams(cfg)

	containerConfig, err := buildContainerConfig(cfg, entry)
	if err != nil {
		return err
	}
	hostConfig, err := buildHostConfig(cfg)
	if err != nil {
		return err
	}

	if err := c.reclaimName(ctx, cfg, entry); err != nil {
		return err
	}

	resp, err := c.cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	id := resp.ID
	log.Debug("created container", "id", shortID(id), "image", cfg.Image, "user", entry.User.Spec(), "mounts", mountSpecs(cfg.Mounts))

	started := false
	defer func() {
		if !started {
			c.remove(id)
		}
	}()

	user, err := c.materialize(ctx, id, entry)
	if err != nil {
		return err
	}
	log.Debug("running as", "name", user.Name, "home", user.Home)

	attach, err := c.cli.ContainerAttach(ctx, id, container.AttachOptions{
		Stream: true,
		Stdin:  cfg.Interactive,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return fmt.Errorf("failed to attach to container: %w", err)
	}
	defer attach.Close()

	// Register before start so a fast exit is not missed.
	condition := container.WaitConditionNextExit
	if hostConfig.AutoRemove {
		condition = container.WaitConditionRemoved
	}
	statusCh, errCh := c.cli.ContainerWait(ctx, id, condition)

	if cfg.TTY {
		if fd, isTerm := term.GetFdInfo(stdin); isTerm {
			state, err := term.SetRawTerminal(fd)
			if err != nil {
				return fmt.Errorf("failed to set raw terminal: %w", err)
			}
			defer func() { _ = term.RestoreTerminal(fd, state) }()
		}
	}

	outputDone := make(chan error, 1)
	go func() {
		var err error
		if cfg.TTY {
			_, err = io.Copy(stdout, attach.Reader)
		} else {
			_, err = stdcopy.StdCopy(stdout, stderr, attach.Reader)
		}
		outputDone <- err
	}()

	if cfg.Interactive {
		go func() {
			_, _ = io.Copy(attach.Conn, stdin)
			_ = attach.CloseWrite()
		}()
	}

	if err := c.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	started = true

	if cfg.TTY {
		stop := c.monitorTTYSize(ctx, id, stdout)
		defer stop()
	}

	select {
	case err := <-outputDone:
		if err != nil {
			log.Debug("output stream ended", "error", err)
		}
	case <-ctx.Done():
		c.finish(id, user, cfg)
		return ctx.Err()
	}

	err = waitExit(ctx, statusCh, errCh)
	if len(cfg.Collect) > 0 || ctx.Err() != nil {
		c.finish(id, user, cfg)
	}
	return err
}

// finish collects from a launched container and removes it when the
// launch asked for removal.
func (c *Client) finish(id string, user User, cfg RunConfig) {
	if len(cfg.Collect) > 0 {
		c.collect(id, user, cfg.Collect)
	}
	if cfg.AutoRemove {
		c.remove(id)
	}
}

// reclaimName frees cfg.Name from a container an earlier launch left
// behind, collecting from it first. A running holder is not touched.
func (c *Client) reclaimName(ctx context.Context, cfg RunConfig, entry Entry) error {
	if cfg.Name == "" {
		return nil
	}
	log := logger.WithComponent("docker")

	info, err := c.cli.ContainerInspect(ctx, cfg.Name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to inspect container %s: %w", cfg.Name, err)
	}
	if info.ContainerJSONBase == nil {
		return nil
	}
	if info.State != nil && info.State.Running {
		return fmt.Errorf("%w: %s", ErrContainerRunning, cfg.Name)
	}

	log.Warn("removing container left by an earlier launch", "name", cfg.Name, "id", shortID(info.ID))
	if len(cfg.Collect) > 0 {
		user := entry.User
		if passwd, err := c.readFile(ctx, info.ID, "/etc/passwd"); err == nil {
			user, _, _ = ensurePasswdEntry(passwd, entry.User)
		}
		c.collect(info.ID, user, cfg.Collect)
	}
	c.remove(info.ID)
	return nil
}

func waitExit(ctx context.Context, statusCh <-chan container.WaitResponse, errCh <-chan error) error {
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return fmt.Errorf("container wait failed: %s", status.Error.Message)
		}
		if status.StatusCode != 0 {
			return &ExitError{Code: status.StatusCode}
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("container wait failed: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// remove force-removes a container.
func (c *Client) remove(id string) {
	err := c.cli.ContainerRemove(context.Background(), id, container.RemoveOptions{Force: true})
	if err != nil && !client.IsErrNotFound(err) {
		logger.WithComponent("docker").Warn("failed to remove container", "id", shortID(id), "error", err)
	}
}

func streams(cfg RunConfig) (io.Reader, io.Writer, io.Writer) {
	stdin, stdout, stderr := cfg.Stdin, cfg.Stdout, cfg.Stderr
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdin, stdout, stderr
}

func mountSpecs(mounts []VolumeMount) []string {
	specs := make([]string, len(mounts))
	for i, m := range mounts {
		specs[i] = m.ToDockerFormat()
	}
	return specs
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
