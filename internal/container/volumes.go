package container

import (
	"github.com/docker/docker/api/types/mount"
)

// VolumeMount represents a bind mount from the host into the container.
type VolumeMount struct {
	Source   string // host path
	Target   string // container path
	ReadOnly bool
}

// ToMount converts to the Engine API representation.
func (v VolumeMount) ToMount() mount.Mount {
	return mount.Mount{
		Type:     mount.TypeBind,
		Source:   v.Source,
		Target:   v.Target,
		ReadOnly: v.ReadOnly,
	}
}

// ToDockerFormat renders the mount as "source:target[:ro]".
func (v VolumeMount) ToDockerFormat() string {
	s := v.Source + ":" + v.Target
	if v.ReadOnly {
		s += ":ro"
	}
	return s
}

// SessionMounts mounts the worktree at workspace and, when it is set, the
// repository's shared git dir at its own host path so the worktree's
// absolute .git pointer resolves inside the container.
func SessionMounts(worktreePath, commonGitDir, workspace string) []VolumeMount {
	mounts := []VolumeMount{
		{Source: worktreePath, Target: workspace},
	}
	if commonGitDir != "" && !isWithin(commonGitDir, worktreePath) {
		mounts = append(mounts, VolumeMount{Source: commonGitDir, Target: commonGitDir})
	}
	return mounts
}

func isWithin(path, dir string) bool {
	_, inside := relativeTo(dir, path)
	return inside
}
