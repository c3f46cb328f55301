// Package svgrender implements components G and H: the SVG Compositor and
// the Still-Frame Emitter. It turns a sequence of timing.Frame values into
// either one animated SVG document or a set of standalone still frames.
package svgrender

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/tinyrange/termsvg/internal/layout"
	"github.com/tinyrange/termsvg/internal/screen"
	"github.com/tinyrange/termsvg/internal/timing"
	"github.com/tinyrange/termsvg/internal/tmpl"
)

// library deduplicates timing.Frame screens into a snapshot library plus a
// playback sequence of indices into it, per §8 property 5: screen-distinct
// frames are never rendered twice.
type library struct {
	screens  []*screen.Screen
	sequence []int   // len == len(frames); sequence[i] is the library index for frames[i]
	stepDurs []int64 // len == len(frames); the playback duration of step i
}

func buildLibrary(frames []timing.Frame) library {
	lib := library{}
	index := map[string]int{}

	for _, f := range frames {
		key := fingerprint(f.Screen)
		idx, ok := index[key]
		if !ok {
			idx = len(lib.screens)
			index[key] = idx
			lib.screens = append(lib.screens, f.Screen)
		}
		lib.sequence = append(lib.sequence, idx)
		lib.stepDurs = append(lib.stepDurs, f.DurationMS)
	}

	return lib
}

// fingerprint renders a screen into a string unique up to screen.Equal, so
// identical screens produced at different points in the transcript collapse
// onto one library entry.
func fingerprint(s *screen.Screen) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d|%d,%d,%v|", s.Cols, s.Rows, s.Cursor.Row, s.Cursor.Col, s.Cursor.Visible)
	fmt.Fprintf(&b, "%v|", s.Palette)
	for _, c := range s.Cells {
		fmt.Fprintf(&b, "%s|%d,%d,%d,%d,%d|%d,%d,%d,%d,%d|%d|",
			c.Ch,
			c.Fg.Kind, c.Fg.Index, c.Fg.R, c.Fg.G, c.Fg.B,
			c.Bg.Kind, c.Bg.Index, c.Bg.R, c.Bg.G, c.Bg.B,
			c.Attrs)
	}
	return b.String()
}

// frameGroup renders one library entry as a self-contained <g id="frame_k">
// element: background rects, text runs and the cursor overlay, per §4.E/§4.G.
func frameGroup(idx int, s *screen.Screen, cellW, cellH float64) string {
	geo := layout.Layout(s)

	var b strings.Builder
	fmt.Fprintf(&b, `<g id="frame_%d">`, idx)

	for _, r := range geo.Backgrounds {
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
			fnum(float64(r.Col)*cellW), fnum(float64(r.Row)*cellH),
			fnum(float64(r.Width)*cellW), fnum(cellH), r.Color.Hex())
	}

	for _, r := range geo.Text {
		style := textStyle(r.Attrs)
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s"`, fnum(float64(r.Col)*cellW), fnum(float64(r.Row)*cellH+cellH*0.8), r.Fg.Hex())
		if style != "" {
			fmt.Fprintf(&b, ` style="%s"`, style)
		}
		b.WriteString(">")
		xml.EscapeText(&b2w{&b}, []byte(r.Text))
		b.WriteString("</text>")
	}

	if geo.Cursor != nil {
		fmt.Fprintf(&b, `<rect class="cursor" x="%s" y="%s" width="%s" height="%s" fill="%s" opacity="0.6"/>`,
			fnum(float64(geo.Cursor.Col)*cellW), fnum(float64(geo.Cursor.Row)*cellH),
			fnum(cellW), fnum(cellH), geo.Cursor.Color.Hex())
	}

	b.WriteString("</g>")
	return b.String()
}

// b2w adapts a strings.Builder to io.Writer for xml.EscapeText.
type b2w struct{ b *strings.Builder }

func (w *b2w) Write(p []byte) (int, error) { return w.b.Write(p) }

func textStyle(a screen.Attrs) string {
	var parts []string
	if a.Has(screen.Bold) {
		parts = append(parts, "font-weight:bold")
	}
	if a.Has(screen.Italic) {
		parts = append(parts, "font-style:italic")
	}
	var decorations []string
	if a.Has(screen.Underline) {
		decorations = append(decorations, "underline")
	}
	if a.Has(screen.Strikethrough) {
		decorations = append(decorations, "line-through")
	}
	if len(decorations) > 0 {
		parts = append(parts, "text-decoration-line:"+strings.Join(decorations, " "))
	}
	return strings.Join(parts, ";")
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Composite renders frames into a complete animated SVG document using t.
func Composite(t *tmpl.Template, frames []timing.Frame) ([]byte, error) {
	lib := buildLibrary(frames)

	var body bytes.Buffer
	body.WriteString(`<g id="screen_view">`)
	for idx, s := range lib.screens {
		body.WriteString(frameGroup(idx, s, t.Settings.CellWidth, t.Settings.CellHeight))
	}
	body.WriteString(`</g>`)

	var css, js string
	switch t.Animation {
	case tmpl.AnimationWAAPI:
		js = waapiScript(lib, t.Settings.CellHeight)
		css = basePaletteCSS()
	default:
		css = basePaletteCSS() + cssKeyframes(lib, t.Settings.CellHeight)
	}

	return t.Render(body.String(), css, js), nil
}

func basePaletteCSS() string {
	return `text{white-space:pre}#screen_view{animation-fill-mode:forwards}`
}
