package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line progress indicator while a slow
// operation runs. Start and Stop are safe to call more than once.
type Spinner struct {
	mu       sync.Mutex
	out      io.Writer
	message  string
	interval time.Duration
	quit     chan struct{}
	idle     chan struct{}
}

// SpinnerOption configures a Spinner.
type SpinnerOption func(*Spinner)

// WithSpinnerWriter redirects the animation away from stdout.
func WithSpinnerWriter(w io.Writer) SpinnerOption {
	return func(s *Spinner) { s.out = w }
}

// WithSpinnerInterval sets the frame interval.
func WithSpinnerInterval(d time.Duration) SpinnerOption {
	return func(s *Spinner) { s.interval = d }
}

// NewSpinner creates a spinner labelled with message.
func NewSpinner(message string, opts ...SpinnerOption) *Spinner {
	s := &Spinner{
		out:      os.Stdout,
		message:  message,
		interval: 80 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quit != nil {
		return
	}
	s.quit = make(chan struct{})
	s.idle = make(chan struct{})
	go s.spin(s.quit, s.idle)
}

// Stop halts the animation and clears the line. It blocks until the
// background goroutine has stopped writing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.quit == nil {
		s.mu.Unlock()
		return
	}
	close(s.quit)
	idle := s.idle
	s.quit, s.idle = nil, nil
	s.mu.Unlock()

	<-idle
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
}

func (s *Spinner) spin(quit <-chan struct{}, idle chan<- struct{}) {
	defer close(idle)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			fmt.Fprintf(s.out, "\r%s %s", spinnerFrames[frame], s.message)
			frame = (frame + 1) % len(spinnerFrames)
		}
	}
}
