// Package tmpl implements component F: the Template Engine. A template is
// an SVG document that obeys a small structural contract (§4.F): it
// declares a root terminal group, a screen viewport group, a style sheet
// the renderer may extend, and an animation strategy. The engine parses
// and validates that contract and leaves template-specific chrome (window
// frames, drop shadows, prompt bars) completely alone.
package tmpl

// AnimationKind selects how the compositor plays back frames, per §4.G.
type AnimationKind uint8

const (
	// AnimationCSS drives playback with a single @keyframes rule and a
	// `--animation-duration` custom property (the default, portable form).
	AnimationCSS AnimationKind = iota
	// AnimationWAAPI drives playback from a small inline script using the
	// Web Animations API, for templates that declare a generated-js slot.
	AnimationWAAPI
)

func (k AnimationKind) String() string {
	if k == AnimationWAAPI {
		return "waapi"
	}
	return "css"
}

// Settings is the template's declared cell geometry, read from
// <template_settings><screen_geometry cell_width="…" cell_height="…"/>.
type Settings struct {
	CellWidth  float64
	CellHeight float64
}

// Template is a parsed, validated template document ready for the SVG
// Compositor to populate with frame content.
type Template struct {
	Name      string
	Raw       []byte
	Settings  Settings
	Animation AnimationKind
	HasScript bool

	// Byte offsets into Raw of the slots the compositor writes into.
	screenInsertAt int
	styleInsertAt  int
	scriptInsertAt int
}
