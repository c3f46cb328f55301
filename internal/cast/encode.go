package cast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Writer encodes a cast in asciicast v2 format, one JSON value per line,
// flushing after every write (§4.A: "emits the header first, then one
// event per line, flushing line by line").
type Writer struct {
	bw   *bufio.Writer
	enc  *json.Encoder
	wrote bool
}

// NewWriter wraps w and writes the v2 header immediately.
func NewWriter(w io.Writer, hdr Header) (*Writer, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	out := v2Header{
		Version:       2,
		Width:         hdr.Cols,
		Height:        hdr.Rows,
		Timestamp:     hdr.StartedAt,
		IdleTimeLimit: hdr.IdleTimeLimit,
		Title:         hdr.Title,
		Command:       hdr.Command,
	}
	if hdr.Theme != "" {
		out.Theme = &v2Theme{Palette: hdr.Theme}
	}

	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("cast: write header: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("cast: flush header: %w", err)
	}

	return &Writer{bw: bw, enc: enc}, nil
}

// WriteEvent appends one event line and flushes.
func (w *Writer) WriteEvent(e Event) error {
	w.wrote = true

	var payload string
	switch e.Kind {
	case Output, Input:
		payload = string(e.Data)
	case Resize:
		payload = fmt.Sprintf("%dx%d", e.Cols, e.Rows)
	default:
		return fmt.Errorf("cast: unknown event kind %v", e.Kind)
	}

	tuple := [3]any{
		float64(e.TimeMS) / 1000.0,
		e.Kind.String(),
		payload,
	}
	if err := w.enc.Encode(tuple); err != nil {
		return fmt.Errorf("cast: write event: %w", err)
	}
	return w.bw.Flush()
}

// Encode is a convenience one-shot encoder for an entire in-memory Cast.
func Encode(w io.Writer, c *Cast) error {
	cw, err := NewWriter(w, c.Header)
	if err != nil {
		return err
	}
	for _, e := range c.Events {
		if err := cw.WriteEvent(e); err != nil {
			return err
		}
	}
	return nil
}
