// Package assistant prepares what the coding assistant needs inside a
// session container.
//
// # Home Staging
//
// StageHome reads the host's ~/.claude directory and ~/.claude.json and
// turns them into container.File entries for the container user's home.
// Along the way it:
//   - rewrites every "installMethod" key to "native"
//   - marks the workspace as trusted in .claude.json
//   - replaces .claude/settings.json with the session permission settings
//
// Nothing is bind-mounted; the files are copied into the container before
// it starts.
//
// # Commands
//
// Command and SetupCommand build the assistant's argv for interactive and
// bootstrap runs. SetupPrompt is the fixed instruction for the latter.
//
// # Stream Rendering
//
// RenderStream consumes the assistant's stream-json output and writes one
// progress line per text block or tool call, returning the final result
// and its cost.
package assistant
