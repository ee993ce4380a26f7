package assistant

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/ArtiomTr/claude-vibe/internal/logger"
)

const commandSummaryWidth = 60

// Result is the outcome reported at the end of a stream-json run.
type Result struct {
	Text    string
	CostUSD float64
	HasCost bool
}

// Progress receives the lines RenderStream extracts.
type Progress interface {
	Text(line string)
	Tool(line string)
}

// RenderStream reads newline-delimited stream-json events from r until EOF,
// reporting assistant text and tool calls to p. Lines that are not JSON
// are passed through as text.
func RenderStream(r io.Reader, p Progress) (Result, error) {
	log := logger.WithComponent("assistant")
	var result Result

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			p.Text(line)
			continue
		}

		event := gjson.Parse(line)
		switch event.Get("type").String() {
		case "assistant":
			event.Get("message.content").ForEach(func(_, block gjson.Result) bool {
				switch block.Get("type").String() {
				case "text":
					if text := strings.TrimSpace(block.Get("text").String()); text != "" {
						p.Text(text)
					}
				case "tool_use":
					name := block.Get("name").String()
					p.Tool(strings.TrimSpace("> " + name + " " + summarizeToolInput(name, block.Get("input"))))
				}
				return true
			})
		case "result":
			result.Text = strings.TrimSpace(event.Get("result").String())
			if cost := event.Get("cost_usd"); cost.Exists() {
				result.CostUSD, result.HasCost = cost.Float(), true
			} else if cost := event.Get("total_cost_usd"); cost.Exists() {
				result.CostUSD, result.HasCost = cost.Float(), true
			}
		default:
			log.Debug("ignoring event", "type", event.Get("type").String())
		}
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read assistant output: %w", err)
	}
	return result, nil
}

// summarizeToolInput picks the one argument worth showing for a tool call.
func summarizeToolInput(name string, input gjson.Result) string {
	switch name {
	case "Read", "Write", "Edit":
		return input.Get("file_path").String()
	case "Glob", "Grep":
		return input.Get("pattern").String()
	case "Bash":
		command := input.Get("command").String()
		return truncate(command, commandSummaryWidth)
	}
	return ""
}

// truncate cuts s to at most width bytes on a rune boundary.
func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	cut := width
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
