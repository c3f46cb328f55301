package svgrender

import (
	"strings"
	"testing"

	"github.com/tinyrange/termsvg/internal/screen"
	"github.com/tinyrange/termsvg/internal/timing"
	"github.com/tinyrange/termsvg/internal/tmpl"
)

func mkScreen(tag string, cols, rows int) *screen.Screen {
	s := screen.New(cols, rows, screen.Palette{})
	for i, ch := range tag {
		s.Set(i, 0, screen.Cell{Ch: string(ch)})
	}
	return s
}

func testTemplate(t *testing.T) *tmpl.Template {
	t.Helper()
	doc := `<svg id="terminal"><style id="generated-style"></style><svg id="screen"></svg></svg>`
	tpl, err := tmpl.Parse("t", []byte(doc))
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	tpl.Settings.CellWidth = 8
	tpl.Settings.CellHeight = 16
	return tpl
}

func TestBuildLibraryDeduplicatesRepeatedScreens(t *testing.T) {
	frames := []timing.Frame{
		{Screen: mkScreen("a", 3, 1), DurationMS: 100},
		{Screen: mkScreen("b", 3, 1), DurationMS: 100},
		{Screen: mkScreen("a", 3, 1), DurationMS: 100},
	}
	lib := buildLibrary(frames)
	if len(lib.screens) != 2 {
		t.Fatalf("expected 2 distinct library entries, got %d", len(lib.screens))
	}
	if lib.sequence[0] != lib.sequence[2] {
		t.Fatalf("expected frame 0 and frame 2 to reference the same library entry, got %v", lib.sequence)
	}
	if lib.sequence[0] == lib.sequence[1] {
		t.Fatalf("expected distinct screens to get distinct library entries")
	}
}

func TestCompositeProducesOneFrameGroupPerLibraryEntry(t *testing.T) {
	tpl := testTemplate(t)
	frames := []timing.Frame{
		{Screen: mkScreen("a", 3, 1), DurationMS: 100},
		{Screen: mkScreen("b", 3, 1), DurationMS: 100},
	}
	out, err := Composite(tpl, frames)
	if err != nil {
		t.Fatalf("composite: %v", err)
	}
	doc := string(out)
	if strings.Count(doc, `<g id="frame_`) != 2 {
		t.Fatalf("expected 2 frame groups, got document: %s", doc)
	}
	if !strings.Contains(doc, "@keyframes roll") {
		t.Fatalf("expected css keyframes in generated style, got: %s", doc)
	}
}

func TestBuildStopsReachesExactlyOneHundredPercent(t *testing.T) {
	lib := buildLibrary([]timing.Frame{
		{Screen: mkScreen("a", 3, 1), DurationMS: 250},
		{Screen: mkScreen("b", 3, 1), DurationMS: 750},
	})
	stops, total := buildStops(lib, 16)
	if total != 1000 {
		t.Fatalf("expected total duration 1000, got %d", total)
	}
	if stops[len(stops)-1].percent != 100 {
		t.Fatalf("expected final stop at 100%%, got %+v", stops[len(stops)-1])
	}
	if stops[0].percent != 0 {
		t.Fatalf("expected first stop at 0%%, got %+v", stops[0])
	}
}

func TestWaapiAnimationEmitsScriptInsteadOfKeyframes(t *testing.T) {
	doc := `<svg id="terminal"><template_settings><animation type="waapi"/></template_settings>` +
		`<style id="generated-style"></style><svg id="screen"></svg>` +
		`<script id="generated-js"></script></svg>`
	tpl, err := tmpl.Parse("t", []byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tpl.Settings.CellWidth, tpl.Settings.CellHeight = 8, 16

	out, err := Composite(tpl, []timing.Frame{{Screen: mkScreen("a", 3, 1), DurationMS: 100}})
	if err != nil {
		t.Fatalf("composite: %v", err)
	}
	doc2 := string(out)
	if strings.Contains(doc2, "@keyframes") {
		t.Fatalf("waapi template should not get css keyframes: %s", doc2)
	}
	if !strings.Contains(doc2, "termsvg_vars") {
		t.Fatalf("expected waapi script payload: %s", doc2)
	}
}

func TestStillFramesEmitsOneDocumentPerDistinctScreen(t *testing.T) {
	tpl := testTemplate(t)
	frames := []timing.Frame{
		{Screen: mkScreen("a", 3, 1), DurationMS: 100},
		{Screen: mkScreen("a", 3, 1), DurationMS: 100},
		{Screen: mkScreen("b", 3, 1), DurationMS: 100},
	}
	docs, err := StillFrames(tpl, frames)
	if err != nil {
		t.Fatalf("still frames: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 still frame documents, got %d", len(docs))
	}
	for _, d := range docs {
		if strings.Contains(string(d), "@keyframes") {
			t.Fatalf("still frame document should not be animated: %s", d)
		}
	}
}

func TestStillFramesEmptyIsError(t *testing.T) {
	tpl := testTemplate(t)
	if _, err := StillFrames(tpl, nil); err == nil {
		t.Fatalf("expected error for empty frame list")
	}
}

func TestStillFrameNameFormat(t *testing.T) {
	if got := StillFrameName("out", 3); got != "out_3.svg" {
		t.Fatalf("unexpected still frame name: %q", got)
	}
}
