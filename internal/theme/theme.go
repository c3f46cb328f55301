// Package theme supplements §3's "active palette" with a small built-in
// theme catalog, loaded from embedded YAML. This replaces the original
// termtosvg's X resources database lookup, which spec.md places out of
// scope, with a portable, data-driven equivalent that the cast header's
// optional `theme` field (or pipeline.RenderOptions.Theme) can select by
// name.
package theme

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinyrange/termsvg/internal/screen"
)

//go:embed themes/*.yaml
var themeFS embed.FS

// file mirrors one embedded theme YAML document.
type file struct {
	Name       string   `yaml:"name"`
	Foreground string   `yaml:"foreground"`
	Background string   `yaml:"background"`
	Cursor     string   `yaml:"cursor"`
	Palette    []string `yaml:"palette"`
}

var catalog = map[string]screen.Palette{}
var catalogOrder []string

func init() {
	entries, err := themeFS.ReadDir("themes")
	if err != nil {
		panic(fmt.Sprintf("theme: embedded catalog missing: %v", err))
	}
	for _, entry := range entries {
		data, err := themeFS.ReadFile("themes/" + entry.Name())
		if err != nil {
			panic(fmt.Sprintf("theme: reading %s: %v", entry.Name(), err))
		}
		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			panic(fmt.Sprintf("theme: parsing %s: %v", entry.Name(), err))
		}
		pal, err := f.toPalette()
		if err != nil {
			panic(fmt.Sprintf("theme: %s: %v", entry.Name(), err))
		}
		catalog[f.Name] = pal
		catalogOrder = append(catalogOrder, f.Name)
	}
}

func (f file) toPalette() (screen.Palette, error) {
	var pal screen.Palette
	var err error
	if pal.Foreground, err = parseHex(f.Foreground); err != nil {
		return pal, fmt.Errorf("foreground: %w", err)
	}
	if pal.Background, err = parseHex(f.Background); err != nil {
		return pal, fmt.Errorf("background: %w", err)
	}
	if f.Cursor != "" {
		if pal.Cursor, err = parseHex(f.Cursor); err != nil {
			return pal, fmt.Errorf("cursor: %w", err)
		}
	} else {
		pal.Cursor = pal.Foreground
	}
	if len(f.Palette) != 16 {
		return pal, fmt.Errorf("palette must have exactly 16 entries, got %d", len(f.Palette))
	}
	for i, hex := range f.Palette {
		rgb, err := parseHex(hex)
		if err != nil {
			return pal, fmt.Errorf("palette[%d]: %w", i, err)
		}
		pal.ANSI[i] = rgb
	}
	return pal, nil
}

func parseHex(s string) (screen.RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return screen.RGB{}, fmt.Errorf("want 6 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return screen.RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return screen.RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// Default returns the built-in default palette (standard VGA-ish colors).
func Default() screen.Palette {
	return catalog["default"]
}

// Lookup returns the named theme's palette, or (Palette{}, false) if the
// catalog has no theme by that name.
func Lookup(name string) (screen.Palette, bool) {
	pal, ok := catalog[name]
	return pal, ok
}

// Names returns the built-in theme names, in embed-directory order.
func Names() []string {
	out := make([]string, len(catalogOrder))
	copy(out, catalogOrder)
	return out
}
