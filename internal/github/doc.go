// Package github discovers a GitHub token to forward into vibe containers.
//
// Token Search Order:
//
//  1. GH_TOKEN environment variable
//  2. GITHUB_TOKEN environment variable
//  3. .env file in the worktree
//  4. ~/.env file
//  5. $XDG_CONFIG_HOME/gh/hosts.yml or ~/.config/gh/hosts.yml
//
// Example usage:
//
//	lookup := github.Lookup{Getenv: os.Getenv, Home: cfg.Home}
//	result, err := lookup.FindToken(worktree)
//	if errors.Is(err, github.ErrTokenNotFound) {
//	    // launch without GitHub access
//	}
//	env = append(env, result.Env()...)
package github
