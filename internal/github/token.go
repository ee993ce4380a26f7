package github

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrTokenNotFound is returned when no source yields a token.
var ErrTokenNotFound = errors.New("GitHub token not found")

const defaultHost = "github.com"

// TokenResult holds a discovered token and where it came from.
type TokenResult struct {
	Token  string
	Source string
}

// Env returns the variables gh and git credential helpers read.
func (r TokenResult) Env() []string {
	return []string{"GH_TOKEN=" + r.Token, "GITHUB_TOKEN=" + r.Token}
}

// Lookup carries the environment a token search reads.
type Lookup struct {
	Getenv func(string) string
	Home   string
}

// FindToken returns the first token found, searching the sources in
// package order. worktreePath may be empty to skip the project .env.
func (l Lookup) FindToken(worktreePath string) (TokenResult, error) {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	for _, key := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if token := getenv(key); token != "" {
			return TokenResult{Token: token, Source: key + " env var"}, nil
		}
	}

	var envFiles []string
	if worktreePath != "" {
		envFiles = append(envFiles, filepath.Join(worktreePath, ".env"))
	}
	if l.Home != "" {
		envFiles = append(envFiles, filepath.Join(l.Home, ".env"))
	}
	for _, path := range envFiles {
		if token, err := parseEnvFile(path); err == nil && token != "" {
			return TokenResult{Token: token, Source: path}, nil
		}
	}

	if hosts := ghHostsPath(getenv, l.Home); hosts != "" {
		if token, err := parseGHHosts(hosts); err == nil && token != "" {
			return TokenResult{Token: token, Source: hosts}, nil
		}
	}

	return TokenResult{}, ErrTokenNotFound
}

// ghHostsPath returns the gh CLI hosts file location.
func ghHostsPath(getenv func(string) string, home string) string {
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gh", "hosts.yml")
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "gh", "hosts.yml")
}

type ghHost struct {
	OAuthToken string `yaml:"oauth_token"`
	User       string `yaml:"user"`
	Users      map[string]struct {
		OAuthToken string `yaml:"oauth_token"`
	} `yaml:"users"`
}

func (h ghHost) token() string {
	if h.OAuthToken != "" {
		return h.OAuthToken
	}
	if u, ok := h.Users[h.User]; ok && u.OAuthToken != "" {
		return u.OAuthToken
	}
	for _, u := range h.Users {
		if u.OAuthToken != "" {
			return u.OAuthToken
		}
	}
	return ""
}

// parseGHHosts extracts a token from gh's hosts.yml, preferring github.com.
// Tokens kept in the system keyring are not visible here.
func parseGHHosts(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var hosts map[string]ghHost
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return "", err
	}

	if h, ok := hosts[defaultHost]; ok {
		if token := h.token(); token != "" {
			return token, nil
		}
	}
	for _, h := range hosts {
		if token := h.token(); token != "" {
			return token, nil
		}
	}
	return "", nil
}
