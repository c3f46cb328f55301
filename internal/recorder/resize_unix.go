//go:build !windows

package recorder

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/tinyrange/termsvg/internal/cast"
)

// watchResize records a RESIZE event whenever the controlling terminal's
// size changes, rate-limited so a burst of SIGWINCH delivery cannot flood
// the transcript with redundant events.
func watchResize(ctx context.Context, master pty, cw *cast.Writer, start time.Time, lock *sync.Mutex) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)
	defer signal.Stop(sig)

	limiter := rate.NewLimiter(rate.Every(50*time.Millisecond), 1)

	lastCols, lastRows := 0, 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sig:
			if !limiter.Allow() {
				continue
			}
			cols, rows := terminalSize(0, 0)
			if cols == lastCols && rows == lastRows {
				continue
			}
			lastCols, lastRows = cols, rows
			if err := master.Resize(cols, rows); err != nil {
				slog.Debug("recorder: resize pty failed", "err", err)
				continue
			}
			lock.Lock()
			err := cw.WriteEvent(cast.Event{TimeMS: elapsedMS(start), Kind: cast.Resize, Cols: cols, Rows: rows})
			lock.Unlock()
			if err != nil {
				return err
			}
		}
	}
}
