package ui

import (
	"bufio"
	"fmt"
	"strings"
)

// AskYesNo prompts the user with a yes/no question.
// An empty answer (or no input at all) selects the default.
func AskYesNo(prompt string, defaultYes bool) bool {
	if defaultYes {
		_, _ = fmt.Fprintf(Out, "  %s [Y/n] ", prompt)
	} else {
		_, _ = fmt.Fprintf(Out, "  %s [y/N] ", prompt)
	}

	response, _ := bufio.NewReader(In).ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))

	if response == "" {
		return defaultYes
	}

	return response == "y" || response == "yes"
}
