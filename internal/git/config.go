package git

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// UserConfig is the commit identity found in the user's git config.
type UserConfig struct {
	Name  string
	Email string
}

// Env returns the author and committer variables for this identity,
// skipping fields that are not set.
func (c UserConfig) Env() []string {
	var env []string
	if c.Name != "" {
		env = append(env, "GIT_AUTHOR_NAME="+c.Name, "GIT_COMMITTER_NAME="+c.Name)
	}
	if c.Email != "" {
		env = append(env, "GIT_AUTHOR_EMAIL="+c.Email, "GIT_COMMITTER_EMAIL="+c.Email)
	}
	return env
}

const maxIncludes = 10

// ExtractUserConfig reads user.name and user.email from home/.gitconfig,
// following [include] path entries. The first value found wins.
// A missing .gitconfig yields an empty identity.
func ExtractUserConfig(home string) (UserConfig, error) {
	var config UserConfig

	gitconfig := filepath.Join(home, ".gitconfig")
	if _, err := os.Stat(gitconfig); os.IsNotExist(err) {
		return config, nil
	}

	visited := make(map[string]bool)
	queue := []string{gitconfig}

	for len(queue) > 0 && len(visited) < maxIncludes {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		includes, err := scanConfigFile(current, home, &config)
		if err != nil {
			continue
		}
		queue = append(queue, includes...)
	}

	return config, nil
}

// scanConfigFile fills unset identity fields from one file and returns
// the include paths it names.
func scanConfigFile(path, home string, config *UserConfig) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var (
		section  string
		includes []string
	)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if strings.HasPrefix(line, "[") {
			header := strings.Trim(line, "[]")
			name, _, _ := strings.Cut(header, " ")
			section = strings.ToLower(name)
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch {
		case section == "user" && key == "name" && config.Name == "":
			config.Name = value
		case section == "user" && key == "email" && config.Email == "":
			config.Email = value
		case (section == "include" || section == "includeif") && key == "path":
			if include := resolveInclude(value, path, home); include != "" {
				includes = append(includes, include)
			}
		}
	}
	return includes, scanner.Err()
}

func resolveInclude(value, from, home string) string {
	switch {
	case value == "":
		return ""
	case strings.HasPrefix(value, "~/"):
		value = filepath.Join(home, value[2:])
	case !filepath.IsAbs(value):
		value = filepath.Join(filepath.Dir(from), value)
	}
	if _, err := os.Stat(value); err != nil {
		return ""
	}
	return value
}
