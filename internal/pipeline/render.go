// Package pipeline wires components A through H into the top-level
// operations cmd/termsvg exposes: Render turns a cast into one animated
// SVG document or a family of still-frame SVG documents, and Record
// captures a PTY session as an asciicast v2 transcript.
package pipeline

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/tinyrange/termsvg/internal/apperr"
	"github.com/tinyrange/termsvg/internal/cast"
	"github.com/tinyrange/termsvg/internal/screen"
	"github.com/tinyrange/termsvg/internal/svgrender"
	"github.com/tinyrange/termsvg/internal/term"
	"github.com/tinyrange/termsvg/internal/theme"
	"github.com/tinyrange/termsvg/internal/timing"
	"github.com/tinyrange/termsvg/internal/tmpl"
)

// RenderOptions configures a render run, per §6's render flags.
type RenderOptions struct {
	Template    string // catalog name or path; "" selects the built-in default
	Theme       string // overrides the cast header's theme field when set
	MinFrameMS  int64
	MaxFrameMS  int64
	LoopDelayMS int64

	// Still, when set, switches from one animated document to one
	// standalone document per distinct screen, named StillStem_k.svg
	// and written under StillDir.
	Still     bool
	StillDir  string
	StillStem string

	Progress bool
}

// Render reads a cast from r, drives it through the terminal emulator,
// normalises frame timing, and writes either one animated SVG document
// (to out) or a family of still-frame documents (under opts.StillDir).
func Render(r io.Reader, out io.Writer, opts RenderOptions) error {
	slog.Info("pipeline: decoding cast")
	c, err := cast.Decode(r)
	if err != nil {
		return err
	}
	if len(c.OutputEvents()) == 0 {
		return &apperr.EmptyCast{}
	}

	pal := resolvePalette(opts.Theme, c.Header.Theme)

	slog.Info("pipeline: driving terminal emulator", "events", len(c.Events))
	snapshots, err := term.Drive(c, pal)
	if err != nil {
		return err
	}

	minFrame, maxFrame, loopDelay := effectiveTiming(opts, c.Header)
	slog.Info("pipeline: normalising frame timing",
		"min_ms", minFrame, "max_ms", maxFrame, "loop_delay_ms", loopDelay)
	frames, loopDuration, err := timing.Normalize(snapshots, minFrame, maxFrame, loopDelay)
	if err != nil {
		return err
	}
	slog.Info("pipeline: timing normalised", "frames", len(frames), "loop_duration_ms", loopDuration)

	templateName := opts.Template
	if templateName == "" {
		templateName = "xterm"
	}
	template, err := tmpl.Resolve(templateName)
	if err != nil {
		return err
	}

	if opts.Still {
		return renderStill(template, frames, opts)
	}

	slog.Info("pipeline: compositing animated svg")
	bar := newBar(opts.Progress, 1, "compositing")
	doc, err := svgrender.Composite(template, frames)
	if err != nil {
		return err
	}
	bar.tick()

	if _, err := out.Write(doc); err != nil {
		return &apperr.IoFailure{Path: "<stdout>", Err: err}
	}
	return nil
}

func renderStill(template *tmpl.Template, frames []timing.Frame, opts RenderOptions) error {
	slog.Info("pipeline: rendering still frames")
	docs, err := svgrender.StillFrames(template, frames)
	if err != nil {
		return err
	}

	stem := opts.StillStem
	if stem == "" {
		stem = "frame"
	}
	dir := opts.StillDir
	if dir == "" {
		dir = "."
	}

	bar := newBar(opts.Progress, int64(len(docs)), "writing frames")
	for i, doc := range docs {
		if err := writeStillFile(dir, stem, i, doc); err != nil {
			return err
		}
		bar.tick()
	}
	slog.Info("pipeline: still frames written", "count", len(docs), "dir", dir)
	return nil
}

// progress wraps a *progressbar.ProgressBar so callers don't need to
// nil-check it at every tick when progress reporting is disabled.
type progress struct{ bar *progressbar.ProgressBar }

func newBar(enabled bool, total int64, desc string) progress {
	if !enabled {
		return progress{}
	}
	return progress{bar: progressbar.Default(total, desc)}
}

func (p progress) tick() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func resolvePalette(flagTheme, castTheme string) screen.Palette {
	if flagTheme != "" {
		if p, ok := theme.Lookup(flagTheme); ok {
			return p
		}
	}
	if castTheme != "" {
		if p, ok := theme.Lookup(castTheme); ok {
			return p
		}
	}
	return theme.Default()
}

// effectiveTiming applies §4.D's flag/header precedence: explicit flags
// win, a non-positive max frame duration means no maximum, the cast's
// idle_time_limit caps the max frame duration when it is tighter than the
// configured maximum, and an unset loop delay defaults to the max frame
// duration when a maximum is in effect.
func effectiveTiming(opts RenderOptions, hdr cast.Header) (min, max, loopDelay int64) {
	min, max, loopDelay = opts.MinFrameMS, opts.MaxFrameMS, opts.LoopDelayMS
	if max <= 0 {
		max = math.MaxInt64
	}
	if hdr.IdleTimeLimit != nil {
		if limitMS := int64(*hdr.IdleTimeLimit*1000 + 0.5); limitMS > 0 && limitMS < max {
			max = limitMS
		}
	}
	if loopDelay <= 0 && max != math.MaxInt64 {
		loopDelay = max
	}
	return min, max, loopDelay
}

func writeStillFile(dir, stem string, idx int, data []byte) error {
	path := filepath.Join(dir, svgrender.StillFrameName(stem, idx))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &apperr.IoFailure{Path: path, Err: err}
	}
	return nil
}
