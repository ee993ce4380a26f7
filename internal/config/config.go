// Package config builds the explicit configuration a vibe command runs with.
//
// Settings come from three layers, later layers winning:
//   - built-in defaults (Default)
//   - an optional YAML file
//   - the environment (HOME, ANTHROPIC_API_KEY)
//
// The file is looked up at --config, then $VIBE_CONFIG, then
// $XDG_CONFIG_HOME/vibe/config.yaml, then ~/.config/vibe/config.yaml.
// A missing file is not an error unless it was named explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ArtiomTr/claude-vibe/pkg/naming"
)

// Config is the resolved configuration for one command.
type Config struct {
	// WorktreePrefix is prepended to a session token to form its branch
	// and its directory relative to the repository's parent.
	WorktreePrefix string `yaml:"worktree_prefix"`

	// ImagePrefix is prepended to a session token to form its image tag.
	ImagePrefix string `yaml:"image_prefix"`

	TokenLength int `yaml:"token_length"`

	// DefinitionName is the container definition file looked up in a
	// worktree or repository root.
	DefinitionName string `yaml:"definition_name"`

	// DefaultDefinitionDir holds the fallback definition. Defaults to the
	// directory containing the vibe executable.
	DefaultDefinitionDir string `yaml:"default_definition_dir"`

	WorkspacePath string `yaml:"workspace_path"`

	// ContainerUser and ContainerHome name the user created in the image
	// when the workspace owner has no passwd entry there.
	ContainerUser string `yaml:"container_user"`
	ContainerHome string `yaml:"container_home"`

	AssistantCommand string   `yaml:"assistant_command"`
	PermissionMode   string   `yaml:"permission_mode"`
	AllowedTools     []string `yaml:"allowed_tools"`

	// Ports are published on every launch, in docker "host:container" form.
	Ports []string `yaml:"ports"`

	// Env is passed into the container in addition to the forwarded variables.
	Env map[string]string `yaml:"env"`

	ForwardGitHubToken bool `yaml:"forward_github_token"`

	// Remote is the remote consulted for sync status and default branch.
	Remote string `yaml:"remote"`

	// Populated from the environment, never from the file.
	Home   string `yaml:"-"`
	APIKey string `yaml:"-"`

	// Source is the file the configuration was read from, if any.
	Source string `yaml:"-"`
}

// DefaultAllowedTools is the permission allow list written into the
// container's assistant settings.
var DefaultAllowedTools = []string{
	"Bash",
	"Read",
	"Write",
	"Edit",
	"Glob",
	"Grep",
	"WebFetch(domain:*)",
	"WebSearch",
	"Task",
	"TodoWrite",
	"mcp__*",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WorktreePrefix:     "claude/",
		ImagePrefix:        "claude-vibe",
		TokenLength:        naming.DefaultTokenLength,
		DefinitionName:     "Dockerfile.vibes",
		WorkspacePath:      "/workspace",
		ContainerUser:      "claude",
		ContainerHome:      "/home/claude",
		AssistantCommand:   "claude",
		PermissionMode:     "acceptEdits",
		AllowedTools:       append([]string(nil), DefaultAllowedTools...),
		ForwardGitHubToken: true,
		Remote:             "origin",
	}
}

// LoadOptions controls where Load looks for its inputs.
type LoadOptions struct {
	// Path is an explicit config file, typically from --config.
	Path string

	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	// Executable defaults to os.Executable and seeds DefaultDefinitionDir.
	Executable func() (string, error)
}

// Load resolves the configuration from defaults, file and environment.
func Load(opts LoadOptions) (Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	executable := opts.Executable
	if executable == nil {
		executable = os.Executable
	}

	cfg := Default()
	cfg.Home = getenv("HOME")
	cfg.APIKey = getenv("ANTHROPIC_API_KEY")

	if exe, err := executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		cfg.DefaultDefinitionDir = filepath.Dir(exe)
	}

	path, explicit := locate(opts.Path, getenv, cfg.Home)
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			cfg.Source = path
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.DefaultDefinitionDir = expandHome(cfg.DefaultDefinitionDir, cfg.Home)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// locate returns the config file to read and whether it was named explicitly.
func locate(flagPath string, getenv func(string) string, home string) (string, bool) {
	if flagPath != "" {
		return expandHome(flagPath, home), true
	}
	if p := getenv("VIBE_CONFIG"); p != "" {
		return expandHome(p, home), true
	}
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vibe", "config.yaml"), false
	}
	if home != "" {
		return filepath.Join(home, ".config", "vibe", "config.yaml"), false
	}
	return "", false
}

// Validate rejects configurations that would produce unusable names.
func (c Config) Validate() error {
	if c.TokenLength <= 0 {
		return fmt.Errorf("token_length must be positive, got %d", c.TokenLength)
	}
	if c.WorktreePrefix == "" {
		return errors.New("worktree_prefix must not be empty")
	}
	if c.ImagePrefix == "" {
		return errors.New("image_prefix must not be empty")
	}
	if c.ImagePrefix != strings.ToLower(c.ImagePrefix) {
		return fmt.Errorf("image_prefix %q must be lowercase", c.ImagePrefix)
	}
	if c.DefinitionName == "" {
		return errors.New("definition_name must not be empty")
	}
	if !strings.HasPrefix(c.WorkspacePath, "/") {
		return fmt.Errorf("workspace_path %q must be absolute", c.WorkspacePath)
	}
	if !strings.HasPrefix(c.ContainerHome, "/") {
		return fmt.Errorf("container_home %q must be absolute", c.ContainerHome)
	}
	if c.AssistantCommand == "" {
		return errors.New("assistant_command must not be empty")
	}
	return nil
}

func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
