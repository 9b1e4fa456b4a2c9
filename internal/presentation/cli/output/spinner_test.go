package output

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer lets the test read while the spinner goroutine writes.
type lockedBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_WritesFrames(t *testing.T) {
	var buf lockedBuffer
	s := NewSpinner("Syncing...", WithSpinnerWriter(&buf), WithSpinnerInterval(time.Millisecond))

	s.Start()
	deadline := time.Now().Add(time.Second)
	for buf.String() == "" && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Syncing...") {
		t.Errorf("spinner output %q missing message", out)
	}
	if !strings.Contains(out, spinnerFrames[0]) {
		t.Errorf("spinner output %q missing first frame", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("Stop() should clear the line")
	}
}

func TestSpinner_StopIdempotent(t *testing.T) {
	var buf lockedBuffer
	s := NewSpinner("working", WithSpinnerWriter(&buf), WithSpinnerInterval(time.Millisecond))

	s.Stop() // never started

	s.Start()
	s.Start() // second Start is a no-op
	s.Stop()
	s.Stop()
}
