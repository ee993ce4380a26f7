// Package logger provides the diagnostic logger shared by every package.
//
// User-facing progress goes through package ui; this logger is for debug
// traces of git and docker calls and for warnings that should not interrupt
// a command.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu   sync.RWMutex
	base = log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.WarnLevel,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
)

// Get returns the process-wide logger.
func Get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger tagged with the given component name.
// Call it at the point of use so later level changes are honoured.
func WithComponent(name string) *log.Logger {
	return Get().With("component", name)
}

// SetDebug switches between debug and the default warn level.
func SetDebug(enabled bool) {
	if enabled {
		Get().SetLevel(log.DebugLevel)
		return
	}
	Get().SetLevel(log.WarnLevel)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	Get().SetOutput(w)
}
