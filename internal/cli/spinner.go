package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/codescape/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner is a single-line progress indicator for terminals without the
// full progress view.
type spinner struct {
	w      io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far
}

func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{w: w, ctx: ctx, cancel: cancel, done: make(chan struct{}), message: message}
}

// Start begins the animation. It ends with Stop or the context.
func (s *spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the text next to the spinner.
func (s *spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + styleDim.Render(s.message)
	s.width = max(s.width, len(s.message)+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line.
func (s *spinner) Stop() {
	s.cancel()
	<-s.done
}

// followStates drives a spinner from a run's states and returns the
// terminal state.
func followStates(ctx context.Context, w io.Writer, states <-chan pipeline.State) pipeline.State {
	s := newSpinner(ctx, w, "Starting")
	s.Start()
	defer s.Stop()

	var last pipeline.State
	for st := range states {
		last = st
		msg := st.Step.Description()
		if st.Total > 0 {
			msg = fmt.Sprintf("%s (%d/%d files)", msg, st.Done, st.Total)
		}
		s.SetMessage(msg)
	}
	return last
}
