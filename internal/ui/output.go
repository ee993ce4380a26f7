package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const (
	BoxWidth = 46
	brand    = "claude·vibe"
)

var (
	// Color/style functions
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()

	// Out receives all user-facing messages; stdout is left to the assistant.
	Out io.Writer = os.Stderr

	// In is read by the prompts.
	In io.Reader = os.Stdin
)

// Header prints the top border with the brand name.
func Header() {
	border := strings.Repeat("─", BoxWidth-len([]rune(brand))-3)
	fmt.Fprintf(Out, "  %s %s %s\n", Dim("┌"), Bold(brand), Dim(border))
}

// Footer prints the bottom border.
func Footer() {
	fmt.Fprintf(Out, "  %s\n", Dim("└"+strings.Repeat("─", BoxWidth-1)))
}

// Info prints an informational message with a cyan arrow.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", Cyan("→"), fmt.Sprintf(format, args...))
}

// Success prints a success message with a green checkmark.
func Success(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", Green("✔"), fmt.Sprintf(format, args...))
}

// Fail prints an error message with a red X.
func Fail(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", Red("✘"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message with a yellow circle.
func Warn(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s %s\n", Yellow("○"), fmt.Sprintf(format, args...))
}

// DimMsg prints a dimmed message.
func DimMsg(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  %s\n", Dim(fmt.Sprintf(format, args...)))
}

// Item prints an indented list entry.
func Item(format string, args ...interface{}) {
	fmt.Fprintf(Out, "    %s %s\n", Dim("•"), fmt.Sprintf(format, args...))
}

// Quote prints streamed assistant text, one bar-prefixed line per line.
func Quote(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(Out, "  %s %s\n", Cyan("│"), line)
	}
}

// Tool prints a streamed tool call.
func Tool(line string) {
	fmt.Fprintf(Out, "  %s %s\n", Yellow("│"), Dim(line))
}

// BlankLine prints a blank line.
func BlankLine() {
	fmt.Fprintln(Out, "")
}
