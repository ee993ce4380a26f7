package assistant

// SetupPrompt asks the assistant to author the project's container definition.
const SetupPrompt = "Analyze this project and create a Dockerfile.vibes file that includes all necessary " +
	"dependencies and tools for development. The Dockerfile should be based on sirsedev/claude-vibe " +
	"as the base image (which already includes Claude Code). Add any project-specific dependencies " +
	"needed to build and run this project. Please examine the project structure, dependencies, " +
	"and build system to determine the requirements."

// Invocation names the assistant executable and its permission mode.
type Invocation struct {
	Executable     string
	PermissionMode string
}

// Command returns the argv for an interactive session, passing extra
// arguments through unchanged.
func (i Invocation) Command(extra ...string) []string {
	argv := []string{i.Executable}
	if i.PermissionMode != "" {
		argv = append(argv, "--permission-mode", i.PermissionMode)
	}
	return append(argv, extra...)
}

// SetupCommand returns the argv for a one-shot run of prompt that emits
// stream-json events.
func (i Invocation) SetupCommand(prompt string) []string {
	return i.Command("--verbose", "--output-format", "stream-json", "-p", prompt)
}
