// Command termsvg records a terminal session to an asciicast transcript
// and renders transcripts to animated (or still-frame) SVG documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/tinyrange/termsvg/internal/apperr"
	"github.com/tinyrange/termsvg/internal/pipeline"
)

func main() {
	err := run(os.Args[1:])
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "termsvg: %v\n", err)
	}
	os.Exit(apperr.ExitCode(err))
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: termsvg <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "commands:\n")
	fmt.Fprintf(os.Stderr, "  record [path]          record a session to an asciicast file (stdout if omitted)\n")
	fmt.Fprintf(os.Stderr, "  render input [path]    render a cast file to an SVG document or directory\n")
	fmt.Fprintf(os.Stderr, "  (no command)            record-then-render: record to a temp file, then render it\n")
	fmt.Fprintf(os.Stderr, "\nrun 'termsvg <command> -h' for flag details\n")
}

func run(args []string) error {
	if len(args) == 0 {
		return runDefault(nil)
	}

	switch args[0] {
	case "-h", "--help", "help":
		usage()
		return nil
	case "record":
		return runRecord(args[1:])
	case "render":
		return runRender(args[1:])
	default:
		if strings.HasPrefix(args[0], "-") {
			return runDefault(args)
		}
		return &apperr.UsageError{Msg: fmt.Sprintf("unknown command %q", args[0])}
	}
}

// sharedFlags mirrors the options common to record, render and the
// default record-then-render invocation, per §6's flag table.
type sharedFlags struct {
	command  string
	geometry string
	minMS    int64
	maxMS    int64
	loopMS   int64
	template string
	still    bool
	verbose  bool
}

func (s *sharedFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.command, "c", "", "program (with args) to execute inside the PTY")
	fs.StringVar(&s.command, "command", "", "program (with args) to execute inside the PTY")
	fs.StringVar(&s.geometry, "g", "", "target screen size, COLSxROWS")
	fs.StringVar(&s.geometry, "screen-geometry", "", "target screen size, COLSxROWS")
	fs.Int64Var(&s.minMS, "m", 1, "minimum frame duration in ms")
	fs.Int64Var(&s.minMS, "min-frame-duration", 1, "minimum frame duration in ms")
	fs.Int64Var(&s.maxMS, "M", 0, "maximum frame duration in ms (0 = effectively unlimited)")
	fs.Int64Var(&s.maxMS, "max-frame-duration", 0, "maximum frame duration in ms (0 = effectively unlimited)")
	fs.Int64Var(&s.loopMS, "D", 1000, "loop delay in ms")
	fs.Int64Var(&s.loopMS, "loop-delay", 1000, "loop delay in ms")
	fs.StringVar(&s.template, "t", "", "built-in template name or path")
	fs.StringVar(&s.template, "template", "", "built-in template name or path")
	fs.BoolVar(&s.still, "s", false, "emit a directory of still SVGs instead of an animated one")
	fs.BoolVar(&s.still, "still-frames", false, "emit a directory of still SVGs instead of an animated one")
	fs.BoolVar(&s.verbose, "v", false, "verbose logging")
	fs.BoolVar(&s.verbose, "verbose", false, "verbose logging")
}

func (s *sharedFlags) setupLogging() {
	level := slog.LevelInfo
	if s.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func (s *sharedFlags) parseGeometry() (cols, rows int, err error) {
	if s.geometry == "" {
		return 0, 0, nil
	}
	parts := strings.SplitN(s.geometry, "x", 2)
	if len(parts) != 2 {
		return 0, 0, &apperr.UsageError{Msg: fmt.Sprintf("invalid -g value %q, want COLSxROWS", s.geometry)}
	}
	cols, err1 := strconv.Atoi(parts[0])
	rows, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || cols < 1 || rows < 1 {
		return 0, 0, &apperr.UsageError{Msg: fmt.Sprintf("invalid -g value %q, want two positive integers", s.geometry)}
	}
	return cols, rows, nil
}

func runRecord(args []string) error {
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	var sf sharedFlags
	sf.register(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: termsvg record [path] [flags]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return &apperr.UsageError{Msg: err.Error()}
	}
	sf.setupLogging()

	path := fs.Arg(0)
	cols, rows, err := sf.parseGeometry()
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeOut()

	ctx := interruptContext()
	shell, cmdArgs := splitCommand(sf.command)
	return pipeline.Record(ctx, out, pipeline.RecordOptions{
		Shell:   shell,
		Args:    cmdArgs,
		Command: strings.Join(append([]string{shell}, cmdArgs...), " "),
		Cols:    cols,
		Rows:    rows,
	})
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var sf sharedFlags
	sf.register(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: termsvg render <input> [path] [flags]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return &apperr.UsageError{Msg: err.Error()}
	}
	sf.setupLogging()

	if fs.NArg() < 1 {
		return &apperr.UsageError{Msg: "render requires an input cast path"}
	}
	input := fs.Arg(0)
	outPath := fs.Arg(1)

	in, err := os.Open(input)
	if err != nil {
		return &apperr.IoFailure{Path: input, Err: err}
	}
	defer in.Close()

	opts := pipeline.RenderOptions{
		Template:    sf.template,
		MinFrameMS:  sf.minMS,
		MaxFrameMS:  sf.maxMS,
		LoopDelayMS: sf.loopMS,
		Still:       sf.still,
		Progress:    true,
	}

	if sf.still {
		dir := outPath
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &apperr.IoFailure{Path: dir, Err: err}
		}
		opts.StillDir = dir
		opts.StillStem = stemFromInput(input)
		return pipeline.Render(in, nil, opts)
	}

	out, closeOut, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeOut()
	return pipeline.Render(in, out, opts)
}

// runDefault implements the bare "record-then-render" invocation: record
// to a temp cast file, then render that file with the same flags render
// would accept.
func runDefault(args []string) error {
	fs := flag.NewFlagSet("termsvg", flag.ContinueOnError)
	var sf sharedFlags
	sf.register(fs)
	fs.Usage = usage
	if err := fs.Parse(args); err != nil {
		return &apperr.UsageError{Msg: err.Error()}
	}
	sf.setupLogging()

	outPath := fs.Arg(0)
	cols, rows, err := sf.parseGeometry()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "termsvg_*.cast")
	if err != nil {
		return &apperr.IoFailure{Path: os.TempDir(), Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	ctx := interruptContext()
	shell, cmdArgs := splitCommand(sf.command)
	recErr := pipeline.Record(ctx, tmp, pipeline.RecordOptions{
		Shell:   shell,
		Args:    cmdArgs,
		Command: strings.Join(append([]string{shell}, cmdArgs...), " "),
		Cols:    cols,
		Rows:    rows,
	})
	closeErr := tmp.Close()
	if recErr != nil {
		return recErr
	}
	if closeErr != nil {
		return &apperr.IoFailure{Path: tmpPath, Err: closeErr}
	}

	in, err := os.Open(tmpPath)
	if err != nil {
		return &apperr.IoFailure{Path: tmpPath, Err: err}
	}
	defer in.Close()

	opts := pipeline.RenderOptions{
		Template:    sf.template,
		MinFrameMS:  sf.minMS,
		MaxFrameMS:  sf.maxMS,
		LoopDelayMS: sf.loopMS,
		Still:       sf.still,
		Progress:    true,
	}
	if sf.still {
		dir := outPath
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &apperr.IoFailure{Path: dir, Err: err}
		}
		opts.StillDir = dir
		opts.StillStem = "termsvg"
		return pipeline.Render(in, nil, opts)
	}

	out, closeOut, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closeOut()
	return pipeline.Render(in, out, opts)
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, &apperr.IoFailure{Path: path, Err: err}
	}
	return f, func() { f.Close() }, nil
}

func splitCommand(command string) (shell string, args []string) {
	if command == "" {
		return "", nil
	}
	fields := strings.Fields(command)
	return fields[0], fields[1:]
}

func stemFromInput(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		return "termsvg"
	}
	return base
}

func interruptContext() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	_ = stop
	return ctx
}
