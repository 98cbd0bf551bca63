package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinner is a stderr progress indicator shown while a render is in
// flight. It stops when Stop is called or its context is cancelled.
type spinner struct {
	message string
	cancel  context.CancelFunc
	stopped chan struct{}
	mu      sync.Mutex
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startSpinner creates and starts a spinner bound to ctx.
func startSpinner(ctx context.Context, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		message: message,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
				i++
			}
		}
	}()
	return s
}

// Stop halts the animation and clears the spinner line.
func (s *spinner) Stop() {
	s.cancel()
	<-s.stopped
}

// clearLine blanks the spinner's terminal line.
func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+3))
}
