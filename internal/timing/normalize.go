// Package timing implements component D: the Frame Timing Normaliser. It
// turns a raw snapshot stream into a sequence of frames whose durations
// respect min/max bounds and whose adjacent screens are never equal.
package timing

import (
	"github.com/tinyrange/termsvg/internal/apperr"
	"github.com/tinyrange/termsvg/internal/screen"
)

// Frame is an immutable screen plus the duration (ms) it is displayed,
// per §3.
type Frame struct {
	Screen     *screen.Screen
	DurationMS int64
}

type entry struct {
	screen *screen.Screen
	durMS  int64
}

// Normalize applies §4.D's algorithm to a snapshot stream and returns the
// resulting frames plus the total loop duration (sum of frame durations).
// minFrameMS, maxFrameMS and loopDelayMS are all non-negative milliseconds
// with minFrameMS <= maxFrameMS.
func Normalize(snapshots []screen.Snapshot, minFrameMS, maxFrameMS, loopDelayMS int64) ([]Frame, int64, error) {
	if len(snapshots) == 0 {
		return nil, 0, &apperr.EmptyCast{}
	}

	lastDur := loopDelayMS
	if lastDur < 1 {
		lastDur = 1
	}

	if len(snapshots) == 1 {
		dur := minFrameMS
		if lastDur > dur {
			dur = lastDur
		}
		return []Frame{{Screen: snapshots[0].Screen, DurationMS: dur}}, dur, nil
	}

	// Step 1: raw durations.
	entries := make([]entry, len(snapshots))
	for i, s := range snapshots {
		entries[i].screen = s.Screen
		if i < len(snapshots)-1 {
			entries[i].durMS = snapshots[i+1].TimeMS - s.TimeMS
		} else {
			entries[i].durMS = lastDur
		}
	}

	// Step 2: merge undersized frames forward.
	i := 0
	for i < len(entries)-1 {
		if entries[i].durMS < minFrameMS {
			entries[i+1].durMS += entries[i].durMS
			entries = append(entries[:i], entries[i+1:]...)
			continue
		}
		i++
	}
	if last := len(entries) - 1; entries[last].durMS < minFrameMS {
		entries[last].durMS = minFrameMS
	}

	// Step 3: clamp to the maximum.
	for i := range entries {
		if entries[i].durMS > maxFrameMS {
			entries[i].durMS = maxFrameMS
		}
	}

	// Step 4: collapse adjacent screen-equal frames.
	collapsed := make([]entry, 0, len(entries))
	for _, e := range entries {
		if n := len(collapsed); n > 0 && collapsed[n-1].screen.Equal(e.screen) {
			collapsed[n-1].durMS += e.durMS
			continue
		}
		collapsed = append(collapsed, e)
	}

	frames := make([]Frame, len(collapsed))
	var loopDuration int64
	for i, e := range collapsed {
		frames[i] = Frame{Screen: e.screen, DurationMS: e.durMS}
		loopDuration += e.durMS
	}

	return frames, loopDuration, nil
}
