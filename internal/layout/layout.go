// Package layout implements component E: Cell → Geometry Layout. It
// turns a screen.Screen into maximal horizontal runs of same-style
// background and text, plus the cursor overlay, ready for the SVG
// Compositor to place on a pixel grid (§4.E).
package layout

import "github.com/tinyrange/termsvg/internal/screen"

// BackgroundRun is a maximal horizontal span of cells on one row sharing
// a resolved background color distinct from the screen's default.
type BackgroundRun struct {
	Row, Col, Width int
	Color           screen.RGB
}

// TextRun is a maximal horizontal span of non-blank cells on one row
// sharing a resolved foreground color and attribute set.
type TextRun struct {
	Row, Col int
	Text     string
	Fg       screen.RGB
	Attrs    screen.Attrs
}

// Cursor is the on-screen cursor overlay, present only when the cursor
// is visible.
type Cursor struct {
	Row, Col int
	Color    screen.RGB
}

// Geometry is the full per-screen layout: every run plus the cursor.
type Geometry struct {
	Cols, Rows  int
	Backgrounds []BackgroundRun
	Text        []TextRun
	Cursor      *Cursor
}

// Layout groups s's cells into maximal runs, per §4.E / §8 property 4: no
// two adjacent runs in the same row share (fg, bg, attrs), and no run has
// empty text unless it is a styled background rect.
func Layout(s *screen.Screen) Geometry {
	geo := Geometry{Cols: s.Cols, Rows: s.Rows}
	for row := 0; row < s.Rows; row++ {
		geo.Backgrounds = append(geo.Backgrounds, backgroundRuns(s, row)...)
		geo.Text = append(geo.Text, textRuns(s, row)...)
	}
	if s.Cursor.Visible {
		color := s.Palette.Cursor
		if color == (screen.RGB{}) {
			color = s.Palette.Foreground
		}
		geo.Cursor = &Cursor{Row: s.Cursor.Row, Col: s.Cursor.Col, Color: color}
	}
	return geo
}

// backgroundRuns groups row's cells into maximal spans of equal resolved
// background color, eliding spans that match the screen's default
// background (nothing to paint there).
func backgroundRuns(s *screen.Screen, row int) []BackgroundRun {
	var runs []BackgroundRun
	col := 0
	for col < s.Cols {
		bg := screen.Resolve(s.At(col, row).Bg, s.Palette, false)
		start := col
		for col < s.Cols && screen.Resolve(s.At(col, row).Bg, s.Palette, false) == bg {
			col++
		}
		if bg != s.Palette.Background {
			runs = append(runs, BackgroundRun{Row: row, Col: start, Width: col - start, Color: bg})
		}
	}
	return runs
}

// textRuns groups row's cells into maximal spans of non-blank cells
// sharing a resolved foreground color and attribute set. Blank cells
// (an unstyled space) break the current run; wide-glyph continuation
// cells (empty Ch) are skipped without breaking it and never start one.
func textRuns(s *screen.Screen, row int) []TextRun {
	var runs []TextRun
	col := 0
	for col < s.Cols {
		c := s.At(col, row)
		if isBlank(c) || c.Ch == "" {
			col++
			continue
		}
		fg := screen.Resolve(c.Fg, s.Palette, true)
		attrs := c.Attrs
		start := col
		var text string
		for col < s.Cols {
			cur := s.At(col, row)
			if cur.Ch == "" {
				// Wide-glyph continuation cell: skip without breaking
				// the run, since the glyph to its left already covers
				// this column visually.
				col++
				continue
			}
			if isBlank(cur) || screen.Resolve(cur.Fg, s.Palette, true) != fg || cur.Attrs != attrs {
				break
			}
			text += cur.Ch
			col++
		}
		runs = append(runs, TextRun{Row: row, Col: start, Text: text, Fg: fg, Attrs: attrs})
	}
	return runs
}

func isBlank(c screen.Cell) bool {
	return c.Ch == " " && c.Attrs == 0
}
