package timing

import (
	"testing"

	"github.com/tinyrange/termsvg/internal/apperr"
	"github.com/tinyrange/termsvg/internal/screen"
)

func mkScreen(tag string) *screen.Screen {
	s := screen.New(1, 1, screen.Palette{})
	s.Set(0, 0, screen.Cell{Ch: tag})
	return s
}

func snap(tag string, t int64) screen.Snapshot {
	return screen.Snapshot{Screen: mkScreen(tag), TimeMS: t}
}

func TestNormalizeEmptyIsError(t *testing.T) {
	_, _, err := Normalize(nil, 1, 1000, 1000)
	var empty *apperr.EmptyCast
	if err == nil {
		t.Fatalf("expected error for empty snapshot stream")
	}
	if !asEmptyCast(err, &empty) {
		t.Fatalf("expected EmptyCast, got %v", err)
	}
}

func asEmptyCast(err error, target **apperr.EmptyCast) bool {
	e, ok := err.(*apperr.EmptyCast)
	if ok {
		*target = e
	}
	return ok
}

func TestNormalizeSingleFrameUsesLoopDelay(t *testing.T) {
	frames, loop, err := Normalize([]screen.Snapshot{snap("a", 0)}, 50, 10000, 2000)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if frames[0].DurationMS != 2000 || loop != 2000 {
		t.Fatalf("expected duration/loop 2000, got %d/%d", frames[0].DurationMS, loop)
	}
}

func TestNormalizeConservesTotalDurationBeforeClamping(t *testing.T) {
	snaps := []screen.Snapshot{snap("a", 0), snap("b", 100), snap("c", 300)}
	// min=0 and max large enough that nothing merges or clamps.
	frames, loop, err := Normalize(snaps, 0, 100000, 500)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	var sum int64
	for _, f := range frames {
		sum += f.DurationMS
	}
	want := (300 - 0) + 500 // span of timestamps plus the final loop delay
	if sum != int64(want) {
		t.Fatalf("expected total duration %d, got %d", want, sum)
	}
	if loop != sum {
		t.Fatalf("loop duration %d should equal summed frame durations %d", loop, sum)
	}
}

func TestNormalizeMergesUndersizedFramesForward(t *testing.T) {
	// a:0 -> b:5 (5ms, undersized) -> c:200 (195ms)
	snaps := []screen.Snapshot{snap("a", 0), snap("b", 5), snap("c", 200)}
	frames, _, err := Normalize(snaps, 50, 100000, 1000)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	// "a" should have been merged into "b", leaving 2 frames: merged(a+b), c.
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames after merge, got %d: %+v", len(frames), frames)
	}
	if frames[0].DurationMS != 5+195 {
		t.Fatalf("expected merged duration 200, got %d", frames[0].DurationMS)
	}
}

func TestNormalizeClampsToMax(t *testing.T) {
	snaps := []screen.Snapshot{snap("a", 0), snap("b", 10000)}
	frames, loop, err := Normalize(snaps, 0, 500, 100)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if frames[0].DurationMS != 500 {
		t.Fatalf("expected first frame clamped to 500, got %d", frames[0].DurationMS)
	}
	if loop != 500+100 {
		t.Fatalf("expected loop duration 600, got %d", loop)
	}
}

func TestNormalizeCollapsesEqualAdjacentScreens(t *testing.T) {
	snaps := []screen.Snapshot{snap("a", 0), snap("a", 100), snap("b", 250)}
	frames, _, err := Normalize(snaps, 0, 100000, 50)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected identical adjacent screens to collapse into 2 frames, got %d", len(frames))
	}
	if frames[0].DurationMS != 100+150 {
		t.Fatalf("expected collapsed duration 250, got %d", frames[0].DurationMS)
	}
}

func TestNormalizeLastFrameRoundedUpWhenUndersized(t *testing.T) {
	snaps := []screen.Snapshot{snap("a", 0), snap("b", 1000)}
	frames, _, err := Normalize(snaps, 500, 100000, 10)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	last := frames[len(frames)-1]
	if last.DurationMS != 500 {
		t.Fatalf("expected undersized last frame rounded up to min 500, got %d", last.DurationMS)
	}
}
