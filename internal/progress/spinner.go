package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames defines the animation characters for the spinner.
var spinnerFrames = []string{"|", "/", "-", "\\"}

// spinnerInterval is the time between spinner frame updates.
const spinnerInterval = 100 * time.Millisecond

// lineWidth is the width padded to when redrawing the spinner line.
const lineWidth = 80

// Spinner displays an animated spinner with the current stage of a long
// operation. In non-TTY environments, each stage is printed once on its own
// line without animation.
type Spinner struct {
	mu       sync.Mutex
	output   io.Writer
	message  string
	started  time.Time
	done     chan struct{}
	finished chan struct{}
	running  bool
	stopped  bool
	isTTY    bool
}

// NewSpinner creates a new spinner that writes to the given output.
// If output is nil, os.Stderr is used.
func NewSpinner(output io.Writer) *Spinner {
	if output == nil {
		output = os.Stderr
	}
	return &Spinner{
		output:   output,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		isTTY:    ShouldShowProgress(),
	}
}

// Start begins the spinner animation with the given message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return
	}
	s.message = message
	s.started = time.Now()
	s.running = true
	s.mu.Unlock()

	if !s.isTTY {
		fmt.Fprintf(s.output, "%s\n", message)
		close(s.finished)
		return
	}

	go s.animate()
}

// Update shows a new stage. It starts the spinner if needed, which makes it
// usable directly as a progress callback.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	running, stopped := s.running, s.stopped
	if running && !stopped {
		s.message = message
	}
	s.mu.Unlock()

	switch {
	case stopped:
		return
	case !running:
		s.Start(message)
	case !s.isTTY:
		fmt.Fprintf(s.output, "%s\n", message)
	}
}

// Stop halts the spinner animation and clears the line.
func (s *Spinner) Stop() {
	if !s.halt() {
		return
	}
	if s.isTTY {
		fmt.Fprintf(s.output, "\r%s\r", strings.Repeat(" ", lineWidth))
	}
}

// StopWithMessage halts the spinner and prints a final message.
func (s *Spinner) StopWithMessage(message string) {
	if !s.halt() {
		return
	}
	if s.isTTY {
		fmt.Fprintf(s.output, "\r%s\r%s\n", strings.Repeat(" ", lineWidth), message)
	} else {
		fmt.Fprintf(s.output, "%s\n", message)
	}
}

// halt stops the animation goroutine and waits for it to exit. It reports
// whether the caller should write the final output.
func (s *Spinner) halt() bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	s.stopped = true
	running := s.running
	s.mu.Unlock()

	close(s.done)
	if running {
		<-s.finished
	}
	return true
}

// animate runs the spinner animation loop.
func (s *Spinner) animate() {
	defer close(s.finished)

	frame := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			elapsed := time.Since(s.started)
			s.mu.Unlock()

			char := spinnerFrames[frame%len(spinnerFrames)]
			line := fmt.Sprintf("\r%s %s (%s)", char, msg, formatElapsed(elapsed))
			if len(line) < lineWidth {
				line += strings.Repeat(" ", lineWidth-len(line))
			}
			fmt.Fprint(s.output, line)

			frame++
		}
	}
}
