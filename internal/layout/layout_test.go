package layout

import (
	"testing"

	"github.com/tinyrange/termsvg/internal/screen"
)

func testPalette() screen.Palette {
	return screen.Palette{
		Foreground: screen.RGB{R: 0xcc, G: 0xcc, B: 0xcc},
		Background: screen.RGB{R: 0, G: 0, B: 0},
		Cursor:     screen.RGB{R: 0xff, G: 0xff, B: 0xff},
		ANSI: [16]screen.RGB{
			1: {R: 0xff, G: 0, B: 0},
			2: {R: 0, G: 0xff, B: 0},
		},
	}
}

func newTestScreen(cols, rows int) *screen.Screen {
	return screen.New(cols, rows, testPalette())
}

func setText(s *screen.Screen, row, col int, text string, fg screen.Color, attrs screen.Attrs) {
	for i, ch := range text {
		s.Set(col+i, row, screen.Cell{Ch: string(ch), Fg: fg, Attrs: attrs})
	}
}

func TestLayoutGroupsContiguousSameStyleCellsIntoOneRun(t *testing.T) {
	s := newTestScreen(10, 1)
	setText(s, 0, 0, "hello", screen.DefaultColor, 0)

	geo := Layout(s)
	if len(geo.Text) != 1 {
		t.Fatalf("expected 1 text run, got %d: %+v", len(geo.Text), geo.Text)
	}
	if geo.Text[0].Text != "hello" || geo.Text[0].Col != 0 {
		t.Fatalf("unexpected run: %+v", geo.Text[0])
	}
}

func TestLayoutSplitsRunOnStyleChange(t *testing.T) {
	s := newTestScreen(10, 1)
	setText(s, 0, 0, "ab", screen.NamedColor(1), 0)
	setText(s, 0, 2, "cd", screen.NamedColor(2), 0)

	geo := Layout(s)
	if len(geo.Text) != 2 {
		t.Fatalf("expected 2 text runs, got %d: %+v", len(geo.Text), geo.Text)
	}
	if geo.Text[0].Text != "ab" || geo.Text[1].Text != "cd" {
		t.Fatalf("unexpected runs: %+v", geo.Text)
	}
}

func TestLayoutSkipsBlankCells(t *testing.T) {
	s := newTestScreen(10, 1)
	setText(s, 0, 0, "ab", screen.DefaultColor, 0)
	setText(s, 0, 4, "cd", screen.DefaultColor, 0)

	geo := Layout(s)
	if len(geo.Text) != 2 {
		t.Fatalf("expected 2 text runs separated by blanks, got %d: %+v", len(geo.Text), geo.Text)
	}
	if geo.Text[0].Col != 0 || geo.Text[1].Col != 4 {
		t.Fatalf("unexpected run positions: %+v", geo.Text)
	}
}

func TestLayoutElidesDefaultBackground(t *testing.T) {
	s := newTestScreen(5, 1)
	geo := Layout(s)
	if len(geo.Backgrounds) != 0 {
		t.Fatalf("expected no background runs for default-bg screen, got %+v", geo.Backgrounds)
	}
}

func TestLayoutEmitsNonDefaultBackgroundRun(t *testing.T) {
	s := newTestScreen(5, 1)
	for col := 1; col < 3; col++ {
		s.Set(col, 0, screen.Cell{Ch: " ", Bg: screen.NamedColor(1)})
	}

	geo := Layout(s)
	if len(geo.Backgrounds) != 1 {
		t.Fatalf("expected 1 background run, got %d: %+v", len(geo.Backgrounds), geo.Backgrounds)
	}
	r := geo.Backgrounds[0]
	if r.Col != 1 || r.Width != 2 {
		t.Fatalf("unexpected background run: %+v", r)
	}
}

func TestLayoutSkipsWideGlyphContinuationCells(t *testing.T) {
	s := newTestScreen(5, 1)
	s.Set(0, 0, screen.Cell{Ch: "中"})
	s.Set(1, 0, screen.Cell{Ch: ""}) // continuation cell of the wide glyph
	s.Set(2, 0, screen.Cell{Ch: "B"})

	geo := Layout(s)
	if len(geo.Text) != 1 {
		t.Fatalf("expected continuation cell folded into one run, got %d: %+v", len(geo.Text), geo.Text)
	}
	if geo.Text[0].Text != "中B" {
		t.Fatalf("unexpected run text %q", geo.Text[0].Text)
	}
}

func TestLayoutCursorVisible(t *testing.T) {
	s := newTestScreen(5, 1)
	s.Cursor = screen.Cursor{Row: 0, Col: 2, Visible: true}

	geo := Layout(s)
	if geo.Cursor == nil {
		t.Fatalf("expected cursor overlay")
	}
	if geo.Cursor.Row != 0 || geo.Cursor.Col != 2 {
		t.Fatalf("unexpected cursor position: %+v", geo.Cursor)
	}
}

func TestLayoutCursorHiddenWhenNotVisible(t *testing.T) {
	s := newTestScreen(5, 1)
	s.Cursor = screen.Cursor{Row: 0, Col: 2, Visible: false}

	geo := Layout(s)
	if geo.Cursor != nil {
		t.Fatalf("expected no cursor overlay, got %+v", geo.Cursor)
	}
}
