package term

import (
	"log/slog"

	"github.com/tinyrange/termsvg/internal/cast"
	"github.com/tinyrange/termsvg/internal/screen"
)

// Drive feeds every OUTPUT event of c into a fresh Adapter, in order, and
// returns one snapshot per event — the "dirty snapshot" stream §4.B
// describes. INPUT and RESIZE events are preserved in the cast but are
// not semantically used here (§3).
func Drive(c *cast.Cast, pal screen.Palette) ([]screen.Snapshot, error) {
	a := New(c.Header.Cols, c.Header.Rows, pal)
	defer a.Close()

	var snapshots []screen.Snapshot
	for _, e := range c.Events {
		if e.Kind != cast.Output {
			continue
		}

		dirty, err := a.Feed(e.TimeMS, e.Data)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, a.Snapshot())
		slog.Debug("term: fed output event",
			"t_ms", e.TimeMS, "bytes", len(e.Data), "dirty_rows", len(dirty))
	}

	return snapshots, nil
}
