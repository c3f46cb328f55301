package svgrender

import (
	"fmt"

	"github.com/tinyrange/termsvg/internal/apperr"
	"github.com/tinyrange/termsvg/internal/timing"
	"github.com/tinyrange/termsvg/internal/tmpl"
)

// StillFrames renders every distinct library frame as its own standalone,
// non-animated SVG document, per §4.H. The caller names output files
// "<stem>_<k>.svg"; StillFrames only produces the bytes for each k.
func StillFrames(t *tmpl.Template, frames []timing.Frame) ([][]byte, error) {
	if len(frames) == 0 {
		return nil, &apperr.EmptyCast{}
	}

	lib := buildLibrary(frames)

	out := make([][]byte, len(lib.screens))
	for idx, s := range lib.screens {
		body := frameGroup(idx, s, t.Settings.CellWidth, t.Settings.CellHeight)
		out[idx] = t.Render(body, basePaletteCSS(), "")
	}
	return out, nil
}

// StillFrameName formats the output filename for still frame k of stem.
func StillFrameName(stem string, k int) string {
	return fmt.Sprintf("%s_%d.svg", stem, k)
}
