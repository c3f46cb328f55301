//go:build windows

package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/tinyrange/termsvg/internal/cast"
)

// watchResize is a no-op on windows: there is no SIGWINCH equivalent wired
// up here, so a recorded session keeps the geometry it started with.
func watchResize(ctx context.Context, master pty, cw *cast.Writer, start time.Time, lock *sync.Mutex) error {
	<-ctx.Done()
	return nil
}
