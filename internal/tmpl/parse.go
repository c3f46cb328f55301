package tmpl

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tinyrange/termsvg/internal/apperr"
)

// Parse validates data against the template contract (§4.F) and returns a
// Template with the slots the SVG Compositor needs already located:
//
//   - <svg id="terminal"> — the document root; must exist.
//   - <svg id="screen">   — the nested viewport the compositor fills with
//     one playback <g id="screen_view"> holding a <g id="frame_k"> per
//     distinct frame (a still frame gets a single <g id="frame_k">); must
//     exist.
//   - <style id="generated-style"> — receives the compositor's CSS
//     (palette rules, optional @keyframes); must exist and be empty.
//   - <style id="user-style">       — left untouched; optional.
//   - <template_settings><screen_geometry cell_width="…" cell_height="…"/>
//     <animation type="css"|"waapi"/></template_settings> — optional;
//     absent means default monospace cell metrics and CSS animation.
//   - <script id="generated-js"> — receives WAAPI playback code; required
//     only when <animation type="waapi"/> is declared.
func Parse(name string, data []byte) (*Template, error) {
	t := &Template{Name: name, Raw: data, Settings: Settings{CellWidth: 8, CellHeight: 17}}

	dec := xml.NewDecoder(bytes.NewReader(data))

	var sawTerminal, sawScreen, sawGeneratedStyle bool
	var inSettings bool

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &apperr.TemplateInvalid{Reason: fmt.Sprintf("malformed XML: %v", err)}
		}

		if end, ok := tok.(xml.EndElement); ok && end.Name.Local == "template_settings" {
			inSettings = false
			continue
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "svg":
			switch attr(start, "id") {
			case "terminal":
				sawTerminal = true
			case "screen":
				sawScreen = true
				t.screenInsertAt = int(dec.InputOffset())
			}
		case "style":
			switch attr(start, "id") {
			case "generated-style":
				sawGeneratedStyle = true
				t.styleInsertAt = int(dec.InputOffset())
			}
		case "script":
			if attr(start, "id") == "generated-js" {
				t.HasScript = true
				t.scriptInsertAt = int(dec.InputOffset())
			}
		case "template_settings":
			inSettings = true
		case "screen_geometry":
			if inSettings {
				if w, err := strconv.ParseFloat(attr(start, "cell_width"), 64); err == nil && w > 0 {
					t.Settings.CellWidth = w
				}
				if h, err := strconv.ParseFloat(attr(start, "cell_height"), 64); err == nil && h > 0 {
					t.Settings.CellHeight = h
				}
			}
		case "animation":
			if inSettings && attr(start, "type") == "waapi" {
				t.Animation = AnimationWAAPI
			}
		}
	}

	if !sawTerminal {
		return nil, &apperr.TemplateInvalid{Reason: `missing required <svg id="terminal">`}
	}
	if !sawScreen {
		return nil, &apperr.TemplateInvalid{Reason: `missing required <svg id="screen">`}
	}
	if !sawGeneratedStyle {
		return nil, &apperr.TemplateInvalid{Reason: `missing required <style id="generated-style">`}
	}
	if t.Animation == AnimationWAAPI && !t.HasScript {
		return nil, &apperr.TemplateInvalid{Reason: `animation type "waapi" requires <script id="generated-js">`}
	}

	return t, nil
}

func attr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// InsertScreenContent returns Raw with body spliced in as the first child
// of <svg id="screen">.
func (t *Template) InsertScreenContent(body string) []byte {
	return splice(t.Raw, t.screenInsertAt, body)
}

// InsertGeneratedStyle returns Raw with css spliced in as the content of
// <style id="generated-style">.
func (t *Template) InsertGeneratedStyle(css string) []byte {
	return splice(t.Raw, t.styleInsertAt, css)
}

// InsertGeneratedScript returns Raw with js spliced in as the content of
// <script id="generated-js">. Only valid when t.HasScript.
func (t *Template) InsertGeneratedScript(js string) []byte {
	return splice(t.Raw, t.scriptInsertAt, js)
}

// Render applies all three insertions in a single pass. Applying them
// individually via InsertScreenContent/InsertGeneratedStyle/
// InsertGeneratedScript in sequence would invalidate later offsets once an
// earlier splice shifts the byte stream; Render avoids that by splicing in
// descending offset order. js is ignored when the template has no script
// slot.
func (t *Template) Render(screenBody, css, js string) []byte {
	type edit struct {
		at      int
		content string
	}
	edits := []edit{
		{t.screenInsertAt, screenBody},
		{t.styleInsertAt, css},
	}
	if t.HasScript && js != "" {
		edits = append(edits, edit{t.scriptInsertAt, js})
	}

	for i := 0; i < len(edits); i++ {
		for j := i + 1; j < len(edits); j++ {
			if edits[j].at > edits[i].at {
				edits[i], edits[j] = edits[j], edits[i]
			}
		}
	}

	out := t.Raw
	for _, e := range edits {
		out = splice(out, e.at, e.content)
	}
	return out
}

func splice(raw []byte, at int, content string) []byte {
	if at <= 0 || at > len(raw) {
		return raw
	}
	out := make([]byte, 0, len(raw)+len(content))
	out = append(out, raw[:at]...)
	out = append(out, content...)
	out = append(out, raw[at:]...)
	return out
}
