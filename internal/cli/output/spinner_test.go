package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards the buffer against the animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewSpinner(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Loading")

	if s.w != &buf || s.message != "Loading" {
		t.Errorf("spinner fields not set: %+v", s)
	}
	if s.done == nil {
		t.Error("done channel not initialized")
	}
}

func TestSpinnerStartStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Fetching records")

	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "\r") {
		t.Errorf("animation output missing carriage return: %q", out)
	}
	if !strings.Contains(out, "Fetching records") {
		t.Errorf("animation output missing message: %q", out)
	}
}

func TestSpinnerSuccess(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Loading")

	s.Start()
	s.Success("done")

	out := buf.String()
	if !strings.Contains(out, "✓") || !strings.Contains(out, "done") {
		t.Errorf("success line missing: %q", out)
	}
}

func TestSpinnerFail(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Loading")

	s.Start()
	s.Fail("request timed out")

	out := buf.String()
	if !strings.Contains(out, "✗") || !strings.Contains(out, "request timed out") {
		t.Errorf("failure line missing: %q", out)
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf syncBuffer
	NewSpinner(&buf, "idle").Stop()
}
