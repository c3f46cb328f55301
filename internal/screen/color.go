package screen

// ColorKind tags which variant a Color holds.
type ColorKind uint8

const (
	// ColorDefault means "whatever the screen's default fg/bg is".
	ColorDefault ColorKind = iota
	// ColorNamed is an index into the active 16-color ANSI palette.
	ColorNamed
	// ColorRGB is a literal 24-bit color, kept verbatim.
	ColorRGB
)

// Color is fg/bg ∈ NamedColor ∪ {default} ∪ RGB24, per §3.
type Color struct {
	Kind  ColorKind
	Index uint8 // valid when Kind == ColorNamed, 0..15
	R, G, B uint8 // valid when Kind == ColorRGB
}

// DefaultColor is the zero-value "use the screen default" color.
var DefaultColor = Color{Kind: ColorDefault}

// NamedColor constructs an indexed ANSI color (0..15).
func NamedColor(index uint8) Color {
	return Color{Kind: ColorNamed, Index: index}
}

// RGBColor constructs a literal 24-bit color.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// RGB is a resolved, concrete 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Palette holds indices 0..15 plus the default foreground/background,
// per §3's "Color palette".
type Palette struct {
	ANSI       [16]RGB
	Foreground RGB
	Background RGB
	Cursor     RGB
}

// Resolve turns a Color into a concrete RGB using the active palette.
// Named ANSI colors are looked up in pal; RGB24 colors pass through
// verbatim; default resolves to isFg ? pal.Foreground : pal.Background.
func Resolve(c Color, pal Palette, isFg bool) RGB {
	switch c.Kind {
	case ColorRGB:
		return RGB{c.R, c.G, c.B}
	case ColorNamed:
		if int(c.Index) < len(pal.ANSI) {
			return pal.ANSI[c.Index]
		}
		return pal.Foreground
	default:
		if isFg {
			return pal.Foreground
		}
		return pal.Background
	}
}

// Hex renders an RGB as a "#rrggbb" string for SVG attribute values.
func (c RGB) Hex() string {
	const hex = "0123456789abcdef"
	b := [7]byte{'#'}
	b[1] = hex[c.R>>4]
	b[2] = hex[c.R&0xf]
	b[3] = hex[c.G>>4]
	b[4] = hex[c.G&0xf]
	b[5] = hex[c.B>>4]
	b[6] = hex[c.B&0xf]
	return string(b[:])
}
