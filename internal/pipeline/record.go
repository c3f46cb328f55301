package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/tinyrange/termsvg/internal/recorder"
)

// RecordOptions mirrors recorder.Options for the subset cmd/termsvg
// exposes as record flags.
type RecordOptions struct {
	Shell   string
	Args    []string
	Command string
	Title   string
	Theme   string
	Cols    int
	Rows    int

	Stdin  io.Reader
	Stdout io.Writer
}

// Record attaches a pseudo-terminal to opts.Shell and writes an asciicast
// v2 transcript of the session to w until the shell exits or ctx is
// cancelled.
func Record(ctx context.Context, w io.Writer, opts RecordOptions) error {
	slog.Info("pipeline: starting recording session", "shell", opts.Shell)
	err := recorder.Record(ctx, w, recorder.Options{
		Shell:   opts.Shell,
		Args:    opts.Args,
		Command: opts.Command,
		Title:   opts.Title,
		Theme:   opts.Theme,
		Cols:    opts.Cols,
		Rows:    opts.Rows,
		Stdin:   opts.Stdin,
		Stdout:  opts.Stdout,
	})
	if err != nil {
		slog.Error("pipeline: recording session failed", "err", err)
		return err
	}
	slog.Info("pipeline: recording session finished")
	return nil
}
