// Package recorder implements the PTY Supervisor: it allocates a
// pseudo-terminal, runs the user's shell attached to it, and writes every
// byte that crosses the wire into an asciicast v2 transcript via
// internal/cast. This is the "record" half of the pipeline; §4's
// components only ever consume what this package produces.
package recorder

import "io"

// pty is the minimal platform-specific surface the recorder needs. Each
// GOOS gets its own implementation file, the way the teacher's interactive
// terminal view splits PTY allocation by platform (pty_darwin.go /
// pty_other.go) rather than behind a build-tag-free shim.
type pty interface {
	io.ReadWriteCloser
	Resize(cols, rows int) error
	Wait() error
}
