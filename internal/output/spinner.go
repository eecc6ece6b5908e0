package output

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner animates a message on stderr while a batch runs. It only draws
// when stderr is a terminal and JSON mode is off.
type Spinner struct {
	message string
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	active  bool
}

func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation. Only the first call has an effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true

	if JSONMode || !isatty.IsTerminal(os.Stderr.Fd()) {
		close(s.stopped)
		return
	}
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	if NoColor() {
		frames = []string{"|", "/", "-", "\\"}
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.done:
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		case <-ticker.C:
			fmt.Fprintf(os.Stderr, "\r%s %s", frames[i%len(frames)], s.message)
		}
	}
}

// Stop halts the animation and clears the line. Safe to call repeatedly,
// and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		started := s.active
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
	})
}

// WithSpinner runs fn while a spinner shows message.
func WithSpinner(message string, fn func() error) error {
	sp := NewSpinner(message)
	sp.Start()
	err := fn()
	sp.Stop()
	if err != nil {
		Fail(message + " failed")
	}
	return err
}
