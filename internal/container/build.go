package container

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/moby/patternmatcher/ignorefile"
	"github.com/moby/term"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

// injectedDockerfile is the context path a definition living outside the
// build context is added under.
const injectedDockerfile = ".vibe.Dockerfile"

// BuildSpec describes one image build.
type BuildSpec struct {
	ContextDir string
	Dockerfile string // absolute path; may lie outside ContextDir
	Tag        string
	BuildArgs  map[string]string
	NoCache    bool

	// Output receives rendered build progress. Nil discards it.
	Output io.Writer
}

// BuildImage builds spec.Dockerfile against spec.ContextDir and tags the result.
func (c *Client) BuildImage(ctx context.Context, spec BuildSpec) error {
	logger.WithComponent("docker").Debug("building image", "tag", spec.Tag, "dockerfile", spec.Dockerfile, "context", spec.ContextDir)

	buildContext, dockerfile, err := buildContext(spec.ContextDir, spec.Dockerfile)
	if err != nil {
		return err
	}
	defer buildContext.Close()

	resp, err := c.cli.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		Tags:        []string{spec.Tag},
		Dockerfile:  dockerfile,
		BuildArgs:   buildArgs(spec.BuildArgs),
		NoCache:     spec.NoCache,
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image %s: %w", spec.Tag, err)
	}
	defer resp.Body.Close()

	out := spec.Output
	if out == nil {
		out = io.Discard
	}
	fd, isTerm := term.GetFdInfo(out)
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, out, fd, isTerm, nil); err != nil {
		return fmt.Errorf("failed to build image %s: %w", spec.Tag, err)
	}
	return nil
}

// buildContext tars contextDir honouring its .dockerignore and returns the
// archive plus the Dockerfile path to use inside it.
func buildContext(contextDir, dockerfile string) (io.ReadCloser, string, error) {
	excludes, err := readDockerignore(contextDir)
	if err != nil {
		return nil, "", err
	}

	rel, inside := relativeTo(contextDir, dockerfile)
	if inside {
		// The definition must reach the daemon even if .dockerignore lists it.
		excludes = append(excludes, "!"+filepath.ToSlash(rel))
	}

	tarball, err := archive.TarWithOptions(contextDir, &archive.TarOptions{ExcludePatterns: excludes})
	if err != nil {
		return nil, "", fmt.Errorf("failed to archive build context %s: %w", contextDir, err)
	}
	if inside {
		return tarball, filepath.ToSlash(rel), nil
	}

	content, err := os.ReadFile(dockerfile)
	if err != nil {
		tarball.Close()
		return nil, "", fmt.Errorf("failed to read %s: %w", dockerfile, err)
	}
	return appendFile(tarball, injectedDockerfile, content), injectedDockerfile, nil
}

func readDockerignore(contextDir string) ([]string, error) {
	f, err := os.Open(filepath.Join(contextDir, ".dockerignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	excludes, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read .dockerignore: %w", err)
	}
	return excludes, nil
}

// relativeTo reports path relative to dir and whether it lies inside dir.
func relativeTo(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// appendFile streams an existing tar archive followed by one extra file.
func appendFile(src io.ReadCloser, name string, content []byte) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		defer src.Close()
		tw := tar.NewWriter(pw)
		tr := tar.NewReader(src)
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if hdr.Name == name {
				continue
			}
			if err := tw.WriteHeader(hdr); err != nil {
				pw.CloseWithError(err)
				return
			}
			if _, err := io.Copy(tw, tr); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		hdr := &tar.Header{
			Name:    name,
			Mode:    0o644,
			Size:    int64(len(content)),
			ModTime: time.Now(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := tw.Write(content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(tw.Close())
	}()
	return pr
}

func buildArgs(args map[string]string) map[string]*string {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]*string, len(args))
	for k, v := range args {
		v := v
		out[k] = &v
	}
	return out
}
