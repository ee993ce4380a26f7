package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func fixedExe(path string) func() (string, error) {
	return func() (string, error) { return path, nil }
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := Load(LoadOptions{
		Getenv:     env(map[string]string{"HOME": home, "ANTHROPIC_API_KEY": "sk-test"}),
		Executable: fixedExe("/opt/vibe/bin/vibe"),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WorktreePrefix != "claude/" || cfg.ImagePrefix != "claude-vibe" || cfg.TokenLength != 8 {
		t.Errorf("unexpected naming defaults: %+v", cfg)
	}
	if cfg.DefinitionName != "Dockerfile.vibes" {
		t.Errorf("DefinitionName = %q", cfg.DefinitionName)
	}
	if cfg.DefaultDefinitionDir != "/opt/vibe/bin" {
		t.Errorf("DefaultDefinitionDir = %q, want /opt/vibe/bin", cfg.DefaultDefinitionDir)
	}
	if cfg.Home != home || cfg.APIKey != "sk-test" {
		t.Errorf("environment not captured: home=%q key=%q", cfg.Home, cfg.APIKey)
	}
	if !reflect.DeepEqual(cfg.AllowedTools, DefaultAllowedTools) {
		t.Errorf("AllowedTools = %v", cfg.AllowedTools)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty without a file", cfg.Source)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".config", "vibe")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `
worktree_prefix: agent/
token_length: 12
default_definition_dir: ~/definitions
ports:
  - "3000:3000"
env:
  NODE_ENV: development
forward_github_token: false
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(LoadOptions{
		Getenv:     env(map[string]string{"HOME": home}),
		Executable: fixedExe("/usr/local/bin/vibe"),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WorktreePrefix != "agent/" || cfg.TokenLength != 12 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ImagePrefix != "claude-vibe" {
		t.Errorf("unset field lost its default: ImagePrefix = %q", cfg.ImagePrefix)
	}
	if cfg.DefaultDefinitionDir != filepath.Join(home, "definitions") {
		t.Errorf("DefaultDefinitionDir = %q", cfg.DefaultDefinitionDir)
	}
	if len(cfg.Ports) != 1 || cfg.Ports[0] != "3000:3000" {
		t.Errorf("Ports = %v", cfg.Ports)
	}
	if cfg.Env["NODE_ENV"] != "development" {
		t.Errorf("Env = %v", cfg.Env)
	}
	if cfg.ForwardGitHubToken {
		t.Error("ForwardGitHubToken should be false")
	}
	if !strings.HasSuffix(cfg.Source, "config.yaml") {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestLoad_Precedence(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()
	write := func(path, prefix string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("image_prefix: "+prefix+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	flagFile := filepath.Join(t.TempDir(), "flag.yaml")
	envFile := filepath.Join(t.TempDir(), "env.yaml")
	write(flagFile, "from-flag")
	write(envFile, "from-env")
	write(filepath.Join(xdg, "vibe", "config.yaml"), "from-xdg")

	tests := []struct {
		name string
		path string
		vars map[string]string
		want string
	}{
		{"flag wins", flagFile, map[string]string{"HOME": home, "VIBE_CONFIG": envFile, "XDG_CONFIG_HOME": xdg}, "from-flag"},
		{"env var next", "", map[string]string{"HOME": home, "VIBE_CONFIG": envFile, "XDG_CONFIG_HOME": xdg}, "from-env"},
		{"xdg last", "", map[string]string{"HOME": home, "XDG_CONFIG_HOME": xdg}, "from-xdg"},
		{"none", "", map[string]string{"HOME": home}, "claude-vibe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(LoadOptions{Path: tt.path, Getenv: env(tt.vars), Executable: fixedExe("/bin/vibe")})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.ImagePrefix != tt.want {
				t.Errorf("ImagePrefix = %q, want %q", cfg.ImagePrefix, tt.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("token_length: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("token_length: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing explicit file", filepath.Join(dir, "nope.yaml"), "failed to read config"},
		{"malformed yaml", bad, "failed to parse config"},
		{"invalid value", invalid, "token_length must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(LoadOptions{Path: tt.path, Getenv: env(map[string]string{"HOME": dir}), Executable: fixedExe("/bin/vibe")})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"uppercase image prefix", func(c *Config) { c.ImagePrefix = "Claude" }, false},
		{"relative workspace", func(c *Config) { c.WorkspacePath = "workspace" }, false},
		{"relative home", func(c *Config) { c.ContainerHome = "home" }, false},
		{"empty prefix", func(c *Config) { c.WorktreePrefix = "" }, false},
		{"empty definition", func(c *Config) { c.DefinitionName = "" }, false},
		{"empty command", func(c *Config) { c.AssistantCommand = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() error = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	tests := []struct {
		path, home, want string
	}{
		{"~", "/home/u", "/home/u"},
		{"~/x", "/home/u", "/home/u/x"},
		{"/abs", "/home/u", "/abs"},
		{"~/x", "", "~/x"},
	}
	for _, tt := range tests {
		if got := expandHome(tt.path, tt.home); got != tt.want {
			t.Errorf("expandHome(%q, %q) = %q, want %q", tt.path, tt.home, got, tt.want)
		}
	}
}
