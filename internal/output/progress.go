// Package output handles report serialization, text rendering, and
// progress reporting.
package output

import (
	"fmt"
	"os"
	"time"
)

// Progress reports analysis status and record-drop diagnostics to stderr.
type Progress struct {
	enabled bool
	verbose bool
	start   time.Time
}

// NewProgress creates a Progress reporter. Set enabled=false for --quiet mode.
func NewProgress(enabled bool) *Progress {
	return &Progress{
		enabled: enabled,
		start:   time.Now(),
	}
}

// NewVerboseProgress creates a Progress reporter with debug output.
// Verbose implies enabled.
func NewVerboseProgress(enabled, verbose bool) *Progress {
	return &Progress{
		enabled: enabled || verbose,
		verbose: verbose,
		start:   time.Now(),
	}
}

// Log prints a progress message to stderr if enabled.
func (p *Progress) Log(format string, args ...interface{}) {
	if !p.enabled {
		return
	}
	elapsed := time.Since(p.start).Round(time.Millisecond)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "[%s] %s\n", elapsed, msg)
}

// Warn prints a diagnostic about a dropped record or suspect input.
func (p *Progress) Warn(format string, args ...interface{}) {
	p.Log("WARN: "+format, args...)
}

// Debug prints a message only in verbose mode.
func (p *Progress) Debug(format string, args ...interface{}) {
	if !p.verbose {
		return
	}
	p.Log("DEBUG: "+format, args...)
}
