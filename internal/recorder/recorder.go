package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/tinyrange/termsvg/internal/cast"
)

// Options configures a recording session.
type Options struct {
	Shell   string
	Args    []string
	Env     []string
	Cols    int
	Rows    int
	Command string
	Title   string
	Theme   string

	Stdin  io.Reader
	Stdout io.Writer
}

// Record runs opts.Shell attached to a fresh pseudo-terminal, mirrors its
// I/O to the caller's stdin/stdout, and writes an asciicast v2 transcript
// of everything that crossed the wire to w. It returns when the shell
// exits or ctx is cancelled (e.g. on SIGINT).
func Record(ctx context.Context, w io.Writer, opts Options) error {
	if opts.Shell == "" {
		opts.Shell = defaultShell()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 || rows <= 0 {
		cols, rows = terminalSize(cols, rows)
	}

	master, err := startShell(opts.Shell, opts.Args, opts.Env, cols, rows)
	if err != nil {
		return err
	}
	defer master.Close()

	restore := enterRawMode()
	defer restore()

	cw, err := cast.NewWriter(w, cast.Header{
		Version: 2,
		Cols:    cols,
		Rows:    rows,
		Title:   opts.Title,
		Command: opts.Command,
		Theme:   opts.Theme,
	})
	if err != nil {
		return fmt.Errorf("recorder: write cast header: %w", err)
	}

	start := time.Now()
	var writeMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return pumpOutput(master, opts.Stdout, cw, start, &writeMu)
	})
	g.Go(func() error {
		return pumpInput(gctx, opts.Stdin, master, cw, start, &writeMu)
	})
	g.Go(func() error {
		return watchResize(gctx, master, cw, start, &writeMu)
	})
	g.Go(func() error {
		<-gctx.Done()
		master.Close()
		return nil
	})

	err = g.Wait()
	waitErr := master.Wait()
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		return err
	}
	if waitErr != nil {
		var exitErr interface{ ExitCode() int }
		if !errors.As(waitErr, &exitErr) {
			slog.Warn("recorder: shell wait failed", "err", waitErr)
		}
	}
	return nil
}

// cast.Writer and its underlying bufio.Writer are not safe for concurrent
// use; every goroutine below shares one *sync.Mutex around WriteEvent.

func pumpOutput(master pty, stdout io.Writer, cw *cast.Writer, start time.Time, lock *sync.Mutex) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := master.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			if _, werr := stdout.Write(chunk); werr != nil {
				return werr
			}
			lock.Lock()
			evErr := cw.WriteEvent(cast.Event{TimeMS: elapsedMS(start), Kind: cast.Output, Data: chunk})
			lock.Unlock()
			if evErr != nil {
				return evErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func pumpInput(ctx context.Context, stdin io.Reader, master pty, cw *cast.Writer, start time.Time, lock *sync.Mutex) error {
	buf := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := stdin.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			if _, werr := master.Write(chunk); werr != nil {
				return werr
			}
			lock.Lock()
			evErr := cw.WriteEvent(cast.Event{TimeMS: elapsedMS(start), Kind: cast.Input, Data: chunk})
			lock.Unlock()
			if evErr != nil {
				return evErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func elapsedMS(start time.Time) int64 { return time.Since(start).Milliseconds() }

func enterRawMode() func() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}
	}
	return func() { _ = term.Restore(fd, state) }
}

func terminalSize(cols, rows int) (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if cols <= 0 {
			cols = w
		}
		if rows <= 0 {
			rows = h
		}
	}
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	return cols, rows
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}
