package tmpl

import (
	"strings"
	"testing"
)

func TestNamesIncludesAllSixteenBuiltins(t *testing.T) {
	want := []string{
		"base16_default_dark", "dracula", "gjm8", "gjm8_play", "gjm8_single_loop",
		"powershell", "progress_bar", "putty", "solarized_dark", "solarized_light",
		"terminal_app", "ubuntu", "window_frame", "window_frame_js",
		"window_frame_powershell", "xterm",
	}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d built-in templates, got %d: %v", len(want), len(got), got)
	}
	index := map[string]bool{}
	for _, n := range got {
		index[n] = true
	}
	for _, n := range want {
		if !index[n] {
			t.Fatalf("missing built-in template %q", n)
		}
	}
}

func TestLoadEveryBuiltinParsesCleanly(t *testing.T) {
	for _, name := range Names() {
		tpl, err := Load(name)
		if err != nil {
			t.Fatalf("load %q: %v", name, err)
		}
		if tpl.Settings.CellWidth <= 0 || tpl.Settings.CellHeight <= 0 {
			t.Fatalf("%q: expected positive cell metrics, got %+v", name, tpl.Settings)
		}
	}
}

func TestLoadUnknownNameIsTemplateInvalid(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatalf("expected error for unknown template name")
	}
}

func TestWaapiTemplatesDeclareScriptSlot(t *testing.T) {
	tpl, err := Load("window_frame_js")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tpl.Animation != AnimationWAAPI {
		t.Fatalf("expected waapi animation")
	}
	if !tpl.HasScript {
		t.Fatalf("expected HasScript true for a waapi template")
	}
}

func TestParseRejectsMissingScreenSvg(t *testing.T) {
	doc := `<svg id="terminal"><style id="generated-style"></style></svg>`
	if _, err := Parse("broken", []byte(doc)); err == nil {
		t.Fatalf("expected error for missing screen svg")
	}
}

func TestParseRejectsMissingGeneratedStyle(t *testing.T) {
	doc := `<svg id="terminal"><svg id="screen"></svg></svg>`
	if _, err := Parse("broken", []byte(doc)); err == nil {
		t.Fatalf("expected error for missing generated-style")
	}
}

func TestRenderInsertsAllThreeSlotsWithoutCorruptingOffsets(t *testing.T) {
	doc := `<svg id="terminal"><style id="generated-style"></style><svg id="screen"></svg></svg>`
	tpl, err := Parse("t", []byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out := string(tpl.Render("<g id=\"frame_0\"/>", ".fg{fill:red}", ""))
	if !strings.Contains(out, `<g id="frame_0"/>`) {
		t.Fatalf("expected screen body inserted: %s", out)
	}
	if !strings.Contains(out, ".fg{fill:red}") {
		t.Fatalf("expected generated style inserted: %s", out)
	}
	// Both insertions must still be well-formed relative to their parents.
	if !strings.Contains(out, `<style id="generated-style">.fg{fill:red}</style>`) {
		t.Fatalf("style insertion landed in the wrong place: %s", out)
	}
	if !strings.Contains(out, `<svg id="screen"><g id="frame_0"/></svg>`) {
		t.Fatalf("screen insertion landed in the wrong place: %s", out)
	}
}
