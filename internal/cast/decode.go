package cast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tinyrange/termsvg/internal/apperr"
)

// v1File mirrors the single-object asciicast v1 JSON document.
type v1File struct {
	Version int             `json:"version"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Title   string          `json:"title"`
	Stdout  [][2]json.RawMessage `json:"stdout"`
}

// v2Header mirrors the first line of an asciicast v2 recording. Unknown
// fields are ignored on read per §4.A's "parsed permissively" policy.
type v2Header struct {
	Version       int      `json:"version"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Timestamp     *int64   `json:"timestamp,omitempty"`
	IdleTimeLimit *float64 `json:"idle_time_limit,omitempty"`
	Theme         *v2Theme `json:"theme,omitempty"`
	Title         string   `json:"title,omitempty"`
	Command       string   `json:"command,omitempty"`
}

type v2Theme struct {
	FG      string `json:"fg,omitempty"`
	BG      string `json:"bg,omitempty"`
	Palette string `json:"palette,omitempty"`
}

// v2Event is one [t, kind, data] tuple.
type v2Event struct {
	T    float64
	Kind string
	Data string
}

func (e *v2Event) UnmarshalJSON(b []byte) error {
	var arr []json.RawMessage
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	if len(arr) != 3 {
		return fmt.Errorf("event tuple must have 3 elements, got %d", len(arr))
	}
	if err := json.Unmarshal(arr[0], &e.T); err != nil {
		return fmt.Errorf("event time: %w", err)
	}
	if err := json.Unmarshal(arr[1], &e.Kind); err != nil {
		return fmt.Errorf("event kind: %w", err)
	}
	if err := json.Unmarshal(arr[2], &e.Data); err != nil {
		return fmt.Errorf("event data: %w", err)
	}
	return nil
}

// Decode reads a cast in either v1 or v2 format, sniffing the version
// from the first JSON value in the stream.
func Decode(r io.Reader) (*Cast, error) {
	dec := json.NewDecoder(bufio.NewReader(r))

	var first json.RawMessage
	if err := dec.Decode(&first); err != nil {
		return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("reading header: %v", err)}
	}

	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(first, &probe); err != nil {
		return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("malformed header: %v", err)}
	}

	switch probe.Version {
	case 1:
		return decodeV1(first)
	case 2:
		return decodeV2(first, dec)
	default:
		return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("unsupported version %d", probe.Version)}
	}
}

func decodeV1(raw json.RawMessage) (*Cast, error) {
	var v1 v1File
	if err := json.Unmarshal(raw, &v1); err != nil {
		return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("malformed v1 document: %v", err)}
	}
	if v1.Width < 1 || v1.Height < 1 {
		return nil, &apperr.InvalidCast{Reason: "geometry must be positive"}
	}

	events := make([]Event, 0, len(v1.Stdout))
	var accMs int64
	for i, pair := range v1.Stdout {
		var dt float64
		var data string
		if err := json.Unmarshal(pair[0], &dt); err != nil {
			return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("stdout[%d]: bad delta: %v", i, err)}
		}
		if err := json.Unmarshal(pair[1], &data); err != nil {
			return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("stdout[%d]: bad data: %v", i, err)}
		}
		accMs += secondsToMillis(dt)
		events = append(events, Event{TimeMS: accMs, Kind: Output, Data: []byte(data)})
	}

	return &Cast{
		Header: Header{
			Version: 1,
			Cols:    v1.Width,
			Rows:    v1.Height,
			Title:   v1.Title,
		},
		Events: events,
	}, nil
}

func decodeV2(headerRaw json.RawMessage, dec *json.Decoder) (*Cast, error) {
	var hdr v2Header
	if err := json.Unmarshal(headerRaw, &hdr); err != nil {
		return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("malformed v2 header: %v", err)}
	}
	if hdr.Width < 1 || hdr.Height < 1 {
		return nil, &apperr.InvalidCast{Reason: "geometry must be positive"}
	}
	if hdr.IdleTimeLimit != nil && *hdr.IdleTimeLimit < 0 {
		return nil, &apperr.InvalidCast{Reason: "idle_time_limit must be non-negative"}
	}

	h := Header{
		Version:       2,
		Cols:          hdr.Width,
		Rows:          hdr.Height,
		Title:         hdr.Title,
		Command:       hdr.Command,
		IdleTimeLimit: hdr.IdleTimeLimit,
		StartedAt:     hdr.Timestamp,
	}
	if hdr.Theme != nil {
		h.Theme = hdr.Theme.Palette
	}

	var events []Event
	var lastMs int64
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("event %d: %v", len(events), err)}
		}

		var ev v2Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("event %d: %v", len(events), err)}
		}

		ms := secondsToMillis(ev.T)
		if ms < lastMs {
			ms = lastMs
		}
		lastMs = ms

		switch ev.Kind {
		case "o":
			events = append(events, Event{TimeMS: ms, Kind: Output, Data: []byte(ev.Data)})
		case "i":
			events = append(events, Event{TimeMS: ms, Kind: Input, Data: []byte(ev.Data)})
		case "r":
			cols, rows, ok := parseResize(ev.Data)
			if !ok {
				return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("event %d: bad resize payload %q", len(events), ev.Data)}
			}
			events = append(events, Event{TimeMS: ms, Kind: Resize, Cols: cols, Rows: rows})
		default:
			return nil, &apperr.InvalidCast{Reason: fmt.Sprintf("event %d: unknown kind %q", len(events), ev.Kind)}
		}
	}

	return &Cast{Header: h, Events: events}, nil
}

func parseResize(data string) (cols, rows int, ok bool) {
	parts := strings.SplitN(data, "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	c, err := strconv.Atoi(parts[0])
	if err != nil || c < 1 {
		return 0, 0, false
	}
	r, err := strconv.Atoi(parts[1])
	if err != nil || r < 1 {
		return 0, 0, false
	}
	return c, r, true
}

func secondsToMillis(s float64) int64 {
	if s < 0 {
		s = 0
	}
	return int64(s*1000 + 0.5)
}
