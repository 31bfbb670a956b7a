// Package stimulus loads and writes register-write stimulus files.
//
// A stimulus file is a text file with one record per line:
//
//	<decimal tick> <hex address> <hex data>
//
// Addresses and data accept an optional 0x prefix. Blank lines and lines
// starting with '#' are ignored, a '#' also starts a trailing comment.
package stimulus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"sidbench/emu/log"
)

var ErrMissingResource = errors.New("stimulus: missing resource")

var (
	errFields = errors.New("want 3 fields")
	errRange  = errors.New("value out of range")
)

// Event is a register write at a given tick.
type Event struct {
	Tick uint64
	Addr uint8
	Data uint8
}

func (e Event) EventTick() uint64 { return e.Tick }

func (e Event) String() string {
	return fmt.Sprintf("%d 0x%02X 0x%02X", e.Tick, e.Addr, e.Data)
}

// A Diagnostic reports a skipped line.
type Diagnostic struct {
	Line int
	Text string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %v: %q", d.Line, d.Err, d.Text)
}

// File is a parsed stimulus file. Events are kept in file order.
type File struct {
	Name    string
	Events  []Event
	Skipped []Diagnostic
}

// LastTick returns the tick of the last event. ok is false if the file
// holds no events.
func (f *File) LastTick() (tick uint64, ok bool) {
	if len(f.Events) == 0 {
		return 0, false
	}
	return f.Events[len(f.Events)-1].Tick, true
}

// Load reads the stimulus file at path.
func Load(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingResource, "%v", err)
	}
	defer fd.Close()

	return Parse(fd, path)
}

// Parse reads a stimulus from r. name is used in diagnostics. Malformed
// records are skipped and reported, Parse only fails if r can't be read.
func Parse(r io.Reader, name string) (*File, error) {
	f := &File{Name: name}

	br := bufio.NewReader(r)
	lineno := 0
	for {
		line, rerr := br.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return nil, errors.Wrapf(rerr, "reading %s", name)
		}
		if line == "" && rerr == io.EOF {
			break
		}
		lineno++
		line = strings.TrimRight(line, "\r\n")

		ev, ok, err := parseLine(line)
		if err != nil {
			f.Skipped = append(f.Skipped, Diagnostic{Line: lineno, Text: line, Err: err})
			log.ModStimulus.WarnZ("skipping malformed record").
				String("file", name).
				Int("line", lineno).
				Error("err", err).
				End()
		} else if ok {
			f.Events = append(f.Events, ev)
		}
		if rerr == io.EOF {
			break
		}
	}

	log.ModStimulus.InfoZ("loaded stimulus").
		String("file", name).
		Int("events", len(f.Events)).
		Int("skipped", len(f.Skipped)).
		End()
	return f, nil
}

// parseLine parses one record. ok is false for blank and comment lines.
func parseLine(line string) (ev Event, ok bool, err error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Event{}, false, nil
	}
	if len(fields) != 3 {
		return Event{}, false, errors.Wrapf(errFields, "got %d", len(fields))
	}

	ev.Tick, err = strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Event{}, false, errors.Wrap(err, "tick")
	}
	if ev.Addr, err = parseHex(fields[1], 0x7F); err != nil {
		return Event{}, false, errors.Wrap(err, "address")
	}
	if ev.Data, err = parseHex(fields[2], 0xFF); err != nil {
		return Event{}, false, errors.Wrap(err, "data")
	}
	return ev, true, nil
}

func parseHex(s string, max uint64) (uint8, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	if v > max {
		return 0, errors.Wrapf(errRange, "0x%X > 0x%X", v, max)
	}
	return uint8(v), nil
}
