package container

import (
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
)

// buildContainerConfig creates a container.Config from RunConfig.
func buildContainerConfig(cfg RunConfig, entry Entry) (*container.Config, error) {
	exposed, _, err := ParsePorts(cfg.Ports)
	if err != nil {
		return nil, err
	}

	return &container.Config{
		Image:        cfg.Image,
		WorkingDir:   cfg.WorkDir,
		Env:          cfg.Env,
		User:         entry.User.Spec(),
		Cmd:          entry.Command,
		Tty:          cfg.TTY,
		OpenStdin:    cfg.Interactive,
		StdinOnce:    cfg.Interactive,
		AttachStdin:  cfg.Interactive,
		AttachStdout: true,
		AttachStderr: true,
		ExposedPorts: exposed,
		Labels:       cfg.Labels,
	}, nil
}

// buildHostConfig creates a container.HostConfig from RunConfig.
func buildHostConfig(cfg RunConfig) (*container.HostConfig, error) {
	_, bindings, err := ParsePorts(cfg.Ports)
	if err != nil {
		return nil, err
	}

	hostConfig := &container.HostConfig{
		AutoRemove:   cfg.AutoRemove && len(cfg.Collect) == 0,
		PortBindings: bindings,
	}

	if len(cfg.Mounts) > 0 {
		mounts := make([]mount.Mount, 0, len(cfg.Mounts))
		for _, m := range cfg.Mounts {
			mounts = append(mounts, m.ToMount())
		}
		hostConfig.Mounts = mounts
	}

	return hostConfig, nil
}
