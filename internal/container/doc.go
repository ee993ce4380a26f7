// Package container drives the Docker Engine API for vibe sessions.
//
// The package provides five main components:
//
// 1. Docker Client Wrapper (docker.go, build.go)
//    - Image build from a definition file with .dockerignore support
//    - Build progress rendered from the daemon's JSON stream
//    - Image removal and daemon ping
//
// 2. Container Lifecycle (lifecycle.go, tty*.go)
//    - Create, attach, start and wait for one container per launch
//    - Raw terminal mode and TTY resize for interactive sessions
//    - Non-zero exit codes surface as *ExitError
//
// 3. Entry Materialization (entry.go, materialize.go)
//    - Ensures the workspace owner exists in the image's /etc/passwd and /etc/group
//    - Writes credentials and settings into the user's home through the archive API
//
// 4. Mounts and Ports (volumes.go, ports.go, owner*.go)
//    - Workspace and shared git dir bind mounts
//    - Published port parsing
//    - Workspace ownership lookup
//
// 5. Collect-back (collect.go)
//    - Copies directories out of the user's home after exit, before removal
//
// Basic usage:
//
//	client, err := container.NewClient()
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.BuildImage(ctx, container.BuildSpec{
//	    ContextDir: worktree,
//	    Dockerfile: filepath.Join(worktree, "Dockerfile.vibes"),
//	    Tag:        "claude-vibe-a1b2c3d4",
//	})
//
//	err = client.Launch(ctx, container.RunConfig{
//	    Image:  "claude-vibe-a1b2c3d4",
//	    Mounts: container.SessionMounts(worktree, commonDir, "/workspace"),
//	}, entry)
//
// Nothing is executed through a shell inside the container: users, files
// and the command line are passed as data.
package container
