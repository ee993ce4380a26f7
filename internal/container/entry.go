package container

import (
	"archive/tar"
	"bytes"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// User is the account the container process runs as.
type User struct {
	Name string
	UID  int
	GID  int
	Home string
}

// Spec returns the "uid:gid" form Docker accepts for Config.User.
func (u User) Spec() string {
	return strconv.Itoa(u.UID) + ":" + strconv.Itoa(u.GID)
}

// File is content placed in the user's home before the process starts.
type File struct {
	Path    string // relative to the home directory, slash separated
	Mode    os.FileMode
	Content []byte
	Dir     bool
}

// Entry is everything that defines how the container process starts:
// who runs it, what it finds in its home, and what it executes.
type Entry struct {
	User    User
	Files   []File
	Command []string
}

// ensurePasswdEntry resolves the account for uid in passwd content.
// An existing entry for uid is used as is; otherwise an entry for want is
// appended, renamed if its name is already taken by another uid.
func ensurePasswdEntry(passwd []byte, want User) (User, []byte, bool) {
	names := make(map[string]bool)
	for _, line := range strings.Split(string(passwd), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 7 {
			continue
		}
		names[fields[0]] = true
		if uid, err := strconv.Atoi(fields[2]); err == nil && uid == want.UID {
			return User{Name: fields[0], UID: uid, GID: want.GID, Home: fields[5]}, passwd, false
		}
	}

	if names[want.Name] {
		want.Name = fmt.Sprintf("%s%d", want.Name, want.UID)
		want.Home = path.Join(path.Dir(want.Home), want.Name)
	}

	line := fmt.Sprintf("%s:x:%d:%d::%s:/bin/sh\n", want.Name, want.UID, want.GID, want.Home)
	return want, appendLine(passwd, line), true
}

// ensureGroupEntry appends a group for gid unless one exists.
func ensureGroupEntry(group []byte, name string, gid int) ([]byte, bool) {
	names := make(map[string]bool)
	for _, line := range strings.Split(string(group), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			continue
		}
		names[fields[0]] = true
		if id, err := strconv.Atoi(fields[2]); err == nil && id == gid {
			return group, false
		}
	}
	if names[name] {
		name = fmt.Sprintf("%s%d", name, gid)
	}
	return appendLine(group, fmt.Sprintf("%s:x:%d:\n", name, gid)), true
}

func appendLine(content []byte, line string) []byte {
	out := append([]byte(nil), content...)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return append(out, line...)
}

// homeArchive builds a tar, rooted at "/", holding the home directory and
// every file, all owned by the user. Later files replace earlier ones
// with the same path.
func homeArchive(user User, files []File) (*bytes.Buffer, error) {
	home := strings.TrimPrefix(path.Clean(user.Home), "/")
	now := time.Now()

	byPath := make(map[string]File)
	dirs := map[string]bool{home: true}
	for _, f := range files {
		rel := path.Clean(f.Path)
		if rel == "." || path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
			return nil, fmt.Errorf("invalid home file path %q", f.Path)
		}
		full := path.Join(home, rel)
		if f.Dir {
			dirs[full] = true
		} else {
			byPath[full] = f
		}
		for d := path.Dir(full); d != home && d != "." && d != "/"; d = path.Dir(d) {
			dirs[d] = true
		}
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	dirNames := make([]string, 0, len(dirs))
	for d := range dirs {
		dirNames = append(dirNames, d)
	}
	sort.Strings(dirNames)
	for _, d := range dirNames {
		hdr := &tar.Header{
			Typeflag: tar.TypeDir,
			Name:     d + "/",
			Mode:     0o755,
			Uid:      user.UID,
			Gid:      user.GID,
			ModTime:  now,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
	}

	fileNames := make([]string, 0, len(byPath))
	for p := range byPath {
		fileNames = append(fileNames, p)
	}
	sort.Strings(fileNames)
	for _, p := range fileNames {
		f := byPath[p]
		mode := f.Mode.Perm()
		if mode == 0 {
			mode = 0o644
		}
		hdr := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     p,
			Mode:     int64(mode),
			Size:     int64(len(f.Content)),
			Uid:      user.UID,
			Gid:      user.GID,
			ModTime:  now,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, err
		}
		if _, err := tw.Write(f.Content); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}

// singleFileArchive builds a tar holding one root-owned file at name.
func singleFileArchive(name string, content []byte, mode int64) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     strings.TrimPrefix(name, "/"),
		Mode:     mode,
		Size:     int64(len(content)),
		ModTime:  time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, err
	}
	if _, err := tw.Write(content); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}
