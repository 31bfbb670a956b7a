package stimulus

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	const input = `# captured from a 6502 player
1000 0x18 0x0F
1000 0x04 0x41   # gate on

2000 05 ff
`
	f, err := Parse(strings.NewReader(input), "test")
	if err != nil {
		t.Fatal(err)
	}

	want := []Event{
		{Tick: 1000, Addr: 0x18, Data: 0x0F},
		{Tick: 1000, Addr: 0x04, Data: 0x41},
		{Tick: 2000, Addr: 0x05, Data: 0xFF},
	}
	if diff := cmp.Diff(want, f.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if len(f.Skipped) != 0 {
		t.Errorf("unexpected diagnostics: %v", f.Skipped)
	}
	if tick, ok := f.LastTick(); !ok || tick != 2000 {
		t.Errorf("LastTick() = %d, %t, want 2000, true", tick, ok)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing field", "100 0x04"},
		{"extra field", "100 0x04 0x01 0x02"},
		{"negative tick", "-5 0x04 0x01"},
		{"hex tick", "0x10 0x04 0x01"},
		{"bad address", "100 0xZZ 0x01"},
		{"address out of range", "100 0x80 0x01"},
		{"data out of range", "100 0x04 0x100"},
		{"long record", "100 0x04 0x01 " + strings.Repeat("x", 70<<10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "10 0x00 0x01\n" + tt.line + "\n20 0x01 0x02\n"
			f, err := Parse(strings.NewReader(input), tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if len(f.Events) != 2 {
				t.Errorf("got %d events, want 2", len(f.Events))
			}
			if len(f.Skipped) != 1 {
				t.Fatalf("got %d diagnostics, want 1", len(f.Skipped))
			}
			d := f.Skipped[0]
			if d.Line != 2 || d.Text != tt.line || d.Err == nil {
				t.Errorf("diagnostic = %+v", d)
			}
		})
	}
}

func TestParseLongLines(t *testing.T) {
	input := "10 0x01 0x02\n" +
		"#" + strings.Repeat("x", 70<<10) + "\n" +
		"20 0x03 0x04 # " + strings.Repeat("y", 100<<10) + "\r\n" +
		"30 0x05 0x06"
	f, err := Parse(strings.NewReader(input), "long")
	if err != nil {
		t.Fatal(err)
	}

	want := []Event{
		{Tick: 10, Addr: 0x01, Data: 0x02},
		{Tick: 20, Addr: 0x03, Data: 0x04},
		{Tick: 30, Addr: 0x05, Data: 0x06},
	}
	if diff := cmp.Diff(want, f.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if len(f.Skipped) != 0 {
		t.Errorf("unexpected diagnostics: %d", len(f.Skipped))
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(strings.NewReader("# nothing\n\n"), "empty")
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Events) != 0 {
		t.Errorf("got %d events, want 0", len(f.Events))
	}
	if _, ok := f.LastTick(); ok {
		t.Errorf("LastTick() of empty file should not be ok")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if errors.Cause(err) != ErrMissingResource {
		t.Errorf("Load() err = %v, want cause %v", err, ErrMissingResource)
	}
}

type regLog [][2]uint8

func (l *regLog) Write(addr, data uint8) error {
	*l = append(*l, [2]uint8{addr, data})
	return nil
}

func TestRecorderWriteLoad(t *testing.T) {
	var (
		regs regLog
		tick uint64
	)
	rec := NewRecorder(&regs, func() uint64 { return tick })
	for i, w := range [][2]uint8{{0x18, 0x0F}, {0x84, 0x21}, {0x05, 0x00}} {
		tick = uint64(i * 350)
		if err := rec.Write(w[0], w[1]); err != nil {
			t.Fatal(err)
		}
	}

	want := []Event{
		{Tick: 0, Addr: 0x18, Data: 0x0F},
		{Tick: 350, Addr: 0x04, Data: 0x21},
		{Tick: 700, Addr: 0x05, Data: 0x00},
	}
	if diff := cmp.Diff(want, rec.Events()); diff != "" {
		t.Fatalf("recorded events mismatch (-want +got):\n%s", diff)
	}
	if len(regs) != 3 || regs[1] != [2]uint8{0x84, 0x21} {
		t.Errorf("writes were not forwarded: %v", regs)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "recorded", rec.Events()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# recorded\n0 0x18 0x0F\n") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	f, err := Parse(&buf, "recorded")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, f.Events); diff != "" {
		t.Errorf("parsed events mismatch (-want +got):\n%s", diff)
	}
}
