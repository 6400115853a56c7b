package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on a terminal while a step runs. It stops
// when Stop is called or its context is cancelled, whichever comes first.
type spinner struct {
	w       io.Writer
	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

// startSpinner draws message on stderr until the spinner is stopped.
func startSpinner(ctx context.Context, message string) *spinner {
	return startSpinnerOn(ctx, os.Stderr, message)
}

func startSpinnerOn(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		message: message,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.draw(spinnerFrames[i%len(spinnerFrames)])
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := frame + " " + s.message
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+1))
}

// Set replaces the status message shown on the next frame.
func (s *spinner) Set(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. Safe to call repeatedly.
func (s *spinner) Stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}

// Fail stops the spinner and prints message as an error.
func (s *spinner) Fail(message string) {
	s.Stop()
	printError("%s", message)
}

// Interrupted reports whether the parent context ended the spinner.
func (s *spinner) Interrupted() bool {
	return s.parent.Err() != nil
}
