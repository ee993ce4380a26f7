// Package ui provides terminal output formatting for vibe.
//
// This package handles all user-facing output with consistent styling:
//   - Colored status lines (info, success, failure, warning)
//   - Headers and footers with box-drawing characters
//   - Dimmed text for secondary information
//   - A yes/no prompt
//
// All output goes to ui.Out (stderr by default) so the assistant's own
// output on stdout stays clean.
//
// Example usage:
//
//	ui.Header()
//	ui.Info("Building image %s", tag)
//	ui.Success("Worktree created at %s", path)
//	ui.Footer()
//
// Output styling:
//   - Info:    → Cyan arrow
//   - Success: ✔ Green checkmark
//   - Fail:    ✘ Red X
//   - Warn:    ○ Yellow circle
package ui
