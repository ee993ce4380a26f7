package github

import (
	"bufio"
	"os"
	"strings"
)

// parseEnvFile reads a .env file and returns the first GH_TOKEN or
// GITHUB_TOKEN assignment. Accepts an optional "export " prefix, spaces
// around "=", and single or double quotes.
func parseEnvFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseAssignment(scanner.Text())
		if ok && (key == "GH_TOKEN" || key == "GITHUB_TOKEN") && value != "" {
			return value, nil
		}
	}
	return "", scanner.Err()
}

// parseAssignment splits a KEY=value line, ignoring blanks and comments.
func parseAssignment(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	} else if i := strings.Index(value, " #"); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}
	return key, value, true
}
