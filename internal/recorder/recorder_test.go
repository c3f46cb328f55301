package recorder

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tinyrange/termsvg/internal/cast"
)

// fakePty implements pty over in-memory buffers for testing the pump
// goroutines without a real pseudo-terminal.
type fakePty struct {
	toRead  *bytes.Reader
	written bytes.Buffer
	resized []struct{ cols, rows int }
	mu      sync.Mutex
}

func (p *fakePty) Read(b []byte) (int, error) { return p.toRead.Read(b) }
func (p *fakePty) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.Write(b)
}
func (p *fakePty) Resize(cols, rows int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resized = append(p.resized, struct{ cols, rows int }{cols, rows})
	return nil
}
func (p *fakePty) Close() error { return nil }
func (p *fakePty) Wait() error  { return nil }

func TestPumpOutputWritesEventsAndMirrorsToStdout(t *testing.T) {
	master := &fakePty{toRead: bytes.NewReader([]byte("hello"))}
	var stdout bytes.Buffer
	var castBuf bytes.Buffer
	cw, err := cast.NewWriter(&castBuf, cast.Header{Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	var lock sync.Mutex

	if err := pumpOutput(master, &stdout, cw, time.Now(), &lock); err != nil {
		t.Fatalf("pumpOutput: %v", err)
	}
	if stdout.String() != "hello" {
		t.Fatalf("expected stdout mirror %q, got %q", "hello", stdout.String())
	}
	if !strings.Contains(castBuf.String(), `"o","hello"`) {
		t.Fatalf("expected output event in cast stream, got: %s", castBuf.String())
	}
}

func TestPumpInputForwardsToMasterAndRecordsEvent(t *testing.T) {
	master := &fakePty{toRead: bytes.NewReader(nil)}
	var castBuf bytes.Buffer
	cw, err := cast.NewWriter(&castBuf, cast.Header{Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	var lock sync.Mutex

	stdin := strings.NewReader("ls\n")
	if err := pumpInput(context.Background(), stdin, master, cw, time.Now(), &lock); err != nil {
		t.Fatalf("pumpInput: %v", err)
	}
	if master.written.String() != "ls\n" {
		t.Fatalf("expected master to receive %q, got %q", "ls\n", master.written.String())
	}
	if !strings.Contains(castBuf.String(), `"i","ls`) {
		t.Fatalf("expected input event in cast stream, got: %s", castBuf.String())
	}
}

func TestPumpInputStopsOnContextCancel(t *testing.T) {
	master := &fakePty{toRead: bytes.NewReader(nil)}
	var castBuf bytes.Buffer
	cw, err := cast.NewWriter(&castBuf, cast.Header{Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	var lock sync.Mutex

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = pumpInput(ctx, io.MultiReader(strings.NewReader("x")), master, cw, time.Now(), &lock)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestTerminalSizeFallsBackToDefaults(t *testing.T) {
	cols, rows := terminalSize(0, 0)
	if cols <= 0 || rows <= 0 {
		t.Fatalf("expected positive fallback geometry, got %dx%d", cols, rows)
	}
}
