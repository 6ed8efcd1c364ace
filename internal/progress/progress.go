// Package progress renders research stages on the terminal.
package progress

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// IsTerminalFunc is the function used to check if a file descriptor is a terminal.
// It can be overridden for testing.
var IsTerminalFunc = term.IsTerminal

// ShouldShowProgress returns true if animated progress should be displayed.
// Progress is written to stderr, so it is animated only when stderr is a
// terminal.
func ShouldShowProgress() bool {
	return IsTerminalFunc(int(os.Stderr.Fd()))
}

// formatElapsed formats a duration as M:SS or H:MM:SS.
func formatElapsed(d time.Duration) string {
	s := int(d / time.Second)
	if s < 0 {
		s = 0
	}
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
