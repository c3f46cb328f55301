// Package term implements component B: the Terminal Emulator Adapter. It
// wraps github.com/charmbracelet/x/vt — the same VT emulator the teacher
// drives from a live PTY for its on-screen terminal view — and feeds it
// bytes from a recorded cast instead, yielding a deterministic sequence
// of timestamped screen snapshots.
package term

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/x/vt"

	"github.com/tinyrange/termsvg/internal/apperr"
	"github.com/tinyrange/termsvg/internal/screen"
)

// Adapter owns a single VT emulator instance exclusively and exposes
// only Feed and Snapshot, per §9's "Emulator state ownership" note —
// nothing outside this package ever touches the *vt.SafeEmulator.
type Adapter struct {
	emu     *vt.SafeEmulator
	cols    int
	rows    int
	pal     screen.Palette
	clockMs int64
	last    *screen.Screen
}

// New creates an adapter for a cols×rows screen using pal as the active
// palette. Initial state is blank, default colors, cursor visible at
// (0,0), per §4.B.
func New(cols, rows int, pal screen.Palette) *Adapter {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	emu := vt.NewSafeEmulator(cols, rows)
	suppressGuestQueries(emu)
	applyPalette(emu, pal)

	return &Adapter{
		emu:  emu,
		cols: cols,
		rows: rows,
		pal:  pal,
		last: screen.New(cols, rows, pal),
	}
}

// Close releases the underlying emulator.
func (a *Adapter) Close() error {
	if a == nil || a.emu == nil {
		return nil
	}
	return a.emu.Close()
}

// Feed advances the adapter's clock to tMs, writes data into the
// emulator, and returns the rows whose rendered content changed since
// the previous Feed call (the "dirty snapshot" rows of §4.B), plus the
// rows holding the cursor before and after (see diffRows).
func (a *Adapter) Feed(tMs int64, data []byte) ([]int, error) {
	if a == nil {
		return nil, fmt.Errorf("term: nil adapter")
	}
	a.clockMs = tMs

	if _, err := a.emu.Write(data); err != nil {
		return nil, fmt.Errorf("term: write to emulator: %w", err)
	}

	if a.emu.Width() != a.cols || a.emu.Height() != a.rows {
		return nil, &apperr.EmulatorOverflow{
			Reason: fmt.Sprintf("emulator geometry %dx%d diverged from screen geometry %dx%d",
				a.emu.Width(), a.emu.Height(), a.cols, a.rows),
		}
	}

	current := a.captureScreen()
	dirty := diffRows(a.last, current)
	a.last = current
	return dirty, nil
}

// Snapshot returns an immutable snapshot of the current screen state
// stamped with the adapter's clock.
func (a *Adapter) Snapshot() screen.Snapshot {
	return screen.Snapshot{Screen: a.last.Clone(), TimeMS: a.clockMs}
}

// captureScreen reads every cell from the emulator into a fresh,
// independent screen.Screen, handling wide glyphs, hidden cursor and
// inverse video per §4.B's listed invariants.
func (a *Adapter) captureScreen() *screen.Screen {
	s := screen.New(a.cols, a.rows, a.pal)

	bgDefault := a.emu.BackgroundColor()
	fgDefault := a.emu.ForegroundColor()

	for y := 0; y < a.rows; y++ {
		for x := 0; x < a.cols; {
			cell := a.emu.CellAt(x, y)
			w := 1

			out := screen.Blank()
			fg := colorToScreen(fgDefault)
			bg := colorToScreen(bgDefault)

			if cell != nil {
				out.Ch = cell.Content
				if cell.Width > 1 {
					w = cell.Width
				}
				if cell.Style.Fg != nil {
					fg = colorToScreen(cell.Style.Fg)
				}
				if cell.Style.Bg != nil {
					bg = colorToScreen(cell.Style.Bg)
				}
				out.Attrs = decodeAttrs(uint8(cell.Style.Attrs))
			}

			// Inverse video: swap fg/bg before they reach the layout stage,
			// so downstream components never need to know about inversion.
			if out.Attrs.Has(screen.Inverse) {
				fg, bg = bg, fg
			}
			out.Fg = fg
			out.Bg = bg

			s.Set(x, y, out)
			// The right half of a wide glyph carries no content and
			// inherits the left cell's style, per §4.B.
			for i := 1; i < w && x+i < a.cols; i++ {
				right := screen.Cell{Fg: fg, Bg: bg, Attrs: out.Attrs}
				s.Set(x+i, y, right)
			}

			x += w
		}
	}

	cur := a.emu.CursorPosition()
	s.Cursor = screen.Cursor{
		Row:     cur.Y,
		Col:     cur.X,
		Visible: a.emu.CursorVisible(),
	}

	return s
}

// decodeAttrs maps the emulator's packed style attribute byte onto our
// own Attrs bitmask. Only the reverse-video bit position (1<<5) is
// independently confirmed (it is the one bit the teacher's code tests
// directly, as `uv.AttrReverse`); the remaining bits follow the same
// ascending SGR-style ordering the rest of the ultraviolet/ansi stack
// uses.
func decodeAttrs(raw uint8) screen.Attrs {
	var a screen.Attrs
	if raw&(1<<0) != 0 {
		a |= screen.Bold
	}
	if raw&(1<<1) != 0 {
		a |= screen.Italic
	}
	if raw&(1<<2) != 0 {
		a |= screen.Underline
	}
	if raw&(1<<3) != 0 {
		a |= screen.Blink
	}
	if raw&(1<<5) != 0 {
		a |= screen.Inverse
	}
	if raw&(1<<6) != 0 {
		a |= screen.Strikethrough
	}
	return a
}

// colorToScreen converts an emulator color.Color into our tagged Color
// union. The emulator has already resolved named ANSI colors against the
// palette we fed it in applyPalette, so by the time a cell reaches here
// its colors are always concrete RGB.
func colorToScreen(c color.Color) screen.Color {
	if c == nil {
		return screen.DefaultColor
	}
	r, g, b, _ := c.RGBA()
	return screen.RGBColor(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// diffRows returns the row indices where a and b differ, plus the rows
// holding the cursor in either screen, whether or not those rows changed.
func diffRows(a, b *screen.Screen) []int {
	if a == nil || b == nil || a.Cols != b.Cols || a.Rows != b.Rows {
		rows := make([]int, b.Rows)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}

	var dirty []int
	for y := 0; y < b.Rows; y++ {
		changed := a.Cursor.Row == y || b.Cursor.Row == y
		if !changed {
			for x := 0; x < b.Cols; x++ {
				if a.At(x, y) != b.At(x, y) {
					changed = true
					break
				}
			}
		}
		if changed {
			dirty = append(dirty, y)
		}
	}
	return dirty
}

// applyPalette pushes pal into the emulator so CSI/OSC color queries and
// default-color resolution are consistent with what the adapter itself
// will later resolve colors against.
func applyPalette(emu *vt.SafeEmulator, pal screen.Palette) {
	emu.Emulator.SetDefaultForegroundColor(rgbToColor(pal.Foreground))
	emu.Emulator.SetDefaultBackgroundColor(rgbToColor(pal.Background))
	emu.Emulator.SetDefaultCursorColor(rgbToColor(pal.Cursor))
	for i, c := range pal.ANSI {
		emu.SetIndexedColor(i, rgbToColor(c))
	}
}

func rgbToColor(c screen.RGB) color.Color {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
