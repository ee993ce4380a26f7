package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindDefinition returns the container definition to build: name in
// overrideDir when it exists there, otherwise name in defaultDir.
func FindDefinition(overrideDir, defaultDir, name string) (string, error) {
	var tried []string
	for _, dir := range []string{overrideDir, defaultDir} {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
		tried = append(tried, candidate)
	}
	return "", fmt.Errorf("%w: looked for %v", ErrNoDockerfileFound, tried)
}
